package search

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// SEE estimates the net material gain, in centipawns, of playing m on pos by
// simulating the serial recapture sequence on m.To: the least valuable
// attacker moves first on each side, alternating, until one side has no
// attacker left or stops because continuing would lose material. Correctly
// accounts for x-ray attacks revealed as sliders are removed from the
// occupancy.
func SEE(pos *board.Position, m board.Move) int {
	if m.Type == board.EnPassant {
		// Rare and low-value; count the captured pawn as won outright
		// without simulating any recapture on the target square.
		return int(eval.NominalValue(board.Pawn) * 100)
	}

	to := m.To
	occ := pos.Occupied() &^ board.BitMask(m.From)

	attacker := m.Piece
	if m.Type == board.Promotion || m.Type == board.CapturePromotion {
		attacker = m.Promotion
	}

	var gains [32]int
	depth := 0
	gains[0] = captureValue(pos, m)

	mover, _, _ := pos.Square(m.From)
	side := mover.Opponent() // side to move after m is the opponent
	for {
		attackers := pos.AttacksTo(occ, to, side) & occ
		if attackers == board.EmptyBitboard {
			break
		}

		from, piece := leastValuableAttacker(pos, attackers, side)
		depth++
		gains[depth] = int(eval.NominalValue(attacker)*100) - gains[depth-1]

		occ &^= board.BitMask(from)
		attacker = piece
		side = side.Opponent()

		if depth >= len(gains)-1 {
			break
		}
	}

	for depth > 0 {
		if -gains[depth] < gains[depth-1] {
			gains[depth-1] = -gains[depth]
		}
		depth--
	}
	return gains[0]
}

func captureValue(pos *board.Position, m board.Move) int {
	gain := int(eval.NominalValueGain(m) * 100)
	return gain
}

// leastValuableAttacker picks the cheapest piece of color side among
// attackers, for the swap-off order.
func leastValuableAttacker(pos *board.Position, attackers board.Bitboard, side board.Color) (board.Square, board.Piece) {
	for _, piece := range []board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		bb := attackers & pos.Board(side, piece)
		if bb != board.EmptyBitboard {
			return bb.LSB(), piece
		}
	}
	return attackers.LSB(), board.NoPiece
}

// SEECapture reports whether a capture's SEE value is at or above threshold,
// the predicate used by move ordering and capture pruning.
func SEECapture(pos *board.Position, m board.Move, threshold int) bool {
	return SEE(pos, m) >= threshold
}
