// Package eval contains position evaluation logic and utilities: classical
// material/positional terms blended by game phase, optionally fused with an
// NNUE score (see the nnue subpackage).
package eval

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
)

// Pawns is a positional value expressed in units of a pawn. Classical
// evaluation terms accumulate whole centipawns and are converted to Pawns
// after the mg/eg phase blend; see HeuristicScore for the conversion to a
// Score.
type Pawns float64

// Evaluator is a static position evaluator, used both for simple standalone
// terms (Material, Random) and as the full classical+NNUE blend (Classical).
type Evaluator interface {
	// Evaluate returns the position score in Pawns, from the perspective of
	// the side to move.
	Evaluate(ctx context.Context, b *board.Board) Pawns
}

// Material returns the nominal material advantage balance for the side to move.
type Material struct{}

func (Material) Evaluate(ctx context.Context, b *board.Board) Pawns {
	pos := b.Position()
	turn := b.Turn()

	var pawns Pawns
	for p := board.Pawn; p < board.NumPieces; p++ {
		pawns += Pawns(pos.Board(turn, p).PopCount()-pos.Board(turn.Opponent(), p).PopCount()) * NominalValue(p)
	}
	return pawns
}

// NominalValue is the absolute nominal value in pawns of a piece. The King has an arbitrary value of 100 pawns.
func NominalValue(p board.Piece) Pawns {
	switch p {
	case board.Pawn:
		return 1
	case board.Bishop, board.Knight:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	case board.King:
		return 100
	default:
		return 0
	}
}

// NominalValueGain is the nominal material gain for a move.
func NominalValueGain(m board.Move) Pawns {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}
