package eval

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval/nnue"
)

// Classical is the full classical evaluator: material, piece-square tables,
// mobility, pawn structure, king safety, threats, space, tempo and contempt,
// blended by game phase, and optionally fused with an NNUE network. It is a
// pure function of the position plus the tunable Weights it was built with.
type Classical struct {
	weights  *Weights
	zobrist  *board.ZobristTable
	pawns    *pawnCache
	net      *nnue.Network
	contempt int // [-100, 100], from the engine's own perspective
}

// ClassicalOption configures a Classical evaluator at construction.
type ClassicalOption func(*Classical)

// WithWeights overrides the default tunable parameters.
func WithWeights(w *Weights) ClassicalOption {
	return func(c *Classical) { c.weights = w }
}

// WithNetwork enables NNUE fusion using the given loaded network.
func WithNetwork(n *nnue.Network) ClassicalOption {
	return func(c *Classical) { c.net = n }
}

// WithContempt sets the draw-avoidance bonus/penalty in centipawns.
func WithContempt(cp int) ClassicalOption {
	return func(c *Classical) {
		if cp > 100 {
			cp = 100
		} else if cp < -100 {
			cp = -100
		}
		c.contempt = cp
	}
}

// NewClassical builds a Classical evaluator. The zobrist table is used only
// to key the pawn-structure cache (pawn_key); it may be a dedicated instance
// distinct from the engine's transposition-table zobrist table.
func NewClassical(zobrist *board.ZobristTable, opts ...ClassicalOption) *Classical {
	c := &Classical{
		weights: DefaultWeights(),
		zobrist: zobrist,
		pawns:   newPawnCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate returns the blended centipawn score from the side to move's
// perspective, per spec.md's phase blend, tempo bonus, contempt, and
// (when a network is loaded) NNUE fusion.
func (c *Classical) Evaluate(ctx context.Context, b *board.Board) Pawns {
	pos := b.Position()
	turn := b.Turn()

	mg, eg := c.classicalTerms(pos)
	p := Phase(pos)
	score := Blend(mg, eg, p)

	score = c.applyContempt(score)

	if turn == board.Black {
		score = -score
	}
	score += c.weights.Get("tempo", 16)

	if c.net != nil {
		nnueScore := int(c.evaluateNNUE(pos, turn))
		w := MaxPhase - p // NNUE weight grows toward the endgame
		score = (score*(MaxPhase-w) + nnueScore*w) / MaxPhase
	}

	return Pawns(score) / 100
}

// classicalTerms returns the white-minus-black mg/eg sums across every
// classical sub-term, before phase blending.
func (c *Classical) classicalTerms(pos *board.Position) (mg, eg int) {
	mMg, mEg := materialTerms(pos, c.weights)
	pMg, pEg := pstTerms(pos)
	moMg, moEg := mobility(pos, c.weights)

	key := c.zobrist.PawnHash(pos)
	var pawnMg, pawnEg int
	if cached, cachedEg, ok := c.pawns.probe(key); ok {
		pawnMg, pawnEg = cached, cachedEg
	} else {
		pawnMg, pawnEg = pawnStructure(pos, c.weights)
		c.pawns.store(key, pawnMg, pawnEg)
	}

	ksMg, ksEg := kingSafety(pos, c.weights)
	thMg, thEg := threatsAndSpace(pos, c.weights)

	mg = mMg + pMg + moMg + pawnMg + ksMg + thMg
	eg = mEg + pEg + moEg + pawnEg + ksEg + thEg
	return mg, eg
}

// applyContempt nudges draw-valued scores (|raw| < 200cp) toward the engine
// by up to its configured contempt value.
func (c *Classical) applyContempt(score int) int {
	band := c.weights.Get("contempt.band", 200)
	if score > band || score < -band || c.contempt == 0 {
		return score
	}
	max := c.weights.Get("contempt.max", 40)
	if c.contempt < max {
		max = c.contempt
	}
	if score >= 0 {
		return score + max
	}
	return score - max
}

func (c *Classical) evaluateNNUE(pos *board.Position, turn board.Color) int32 {
	acc := nnue.NewAccumulator(c.net)
	acc.Refresh(c.net, pos)
	return c.net.Forward(acc, turn)
}

func materialTerms(pos *board.Position, w *Weights) (mg, eg int) {
	for _, piece := range []board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen} {
		name := pieceName(piece)
		mgV := w.Get("material."+name+".mg", 100)
		egV := w.Get("material."+name+".eg", 100)
		diff := pos.Board(board.White, piece).PopCount() - pos.Board(board.Black, piece).PopCount()
		mg += diff * mgV
		eg += diff * egV
	}
	return mg, eg
}

func pstTerms(pos *board.Position) (mg, eg int) {
	for _, c := range []board.Color{board.White, board.Black} {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for p := board.Pawn; p < board.NumPieces; p++ {
			for bb := pos.Board(c, p); bb != board.EmptyBitboard; {
				sq := bb.PopLSB()
				m, e := pstValue(c, p, sq)
				mg += sign * m
				eg += sign * e
			}
		}
	}
	return mg, eg
}

// threatsAndSpace is a minor term rewarding knights and bishops that attack
// an enemy rook or queen, rooks that attack an enemy queen (whether or not
// the target is defended), and own pawns standing on d4, e4, d5 or e5.
func threatsAndSpace(pos *board.Position, w *Weights) (mg, eg int) {
	minorW := w.Get("threat.minor", 10)
	rookW := w.Get("threat.rook", 14)
	spaceW := w.Get("space", 1)

	score := 0
	for _, c := range []board.Color{board.White, board.Black} {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		occ := pos.Occupied()
		opp := c.Opponent()
		for _, piece := range []board.Piece{board.Knight, board.Bishop} {
			for bb := pos.Board(c, piece); bb != board.EmptyBitboard; {
				sq := bb.PopLSB()
				if board.Attackboard(occ, sq, piece)&(pos.Board(opp, board.Rook)|pos.Board(opp, board.Queen)) != board.EmptyBitboard {
					score += sign * minorW
				}
			}
		}
		for bb := pos.Board(c, board.Rook); bb != board.EmptyBitboard; {
			sq := bb.PopLSB()
			if board.Attackboard(occ, sq, board.Rook)&pos.Board(opp, board.Queen) != board.EmptyBitboard {
				score += sign * rookW
			}
		}

		center := board.BitMask(board.NewSquare(board.FileD, board.Rank4)) | board.BitMask(board.NewSquare(board.FileE, board.Rank4)) |
			board.BitMask(board.NewSquare(board.FileD, board.Rank5)) | board.BitMask(board.NewSquare(board.FileE, board.Rank5))
		score += sign * spaceW * (pos.Board(c, board.Pawn) & center).PopCount()
	}
	return score, score / 2
}
