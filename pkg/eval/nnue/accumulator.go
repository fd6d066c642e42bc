package nnue

import "github.com/corvidchess/corvid/pkg/board"

// Accumulator holds the per-color hidden-layer pre-activations for the
// current position. Classical.Evaluate builds a fresh accumulator and
// refreshes it from the position on every call.
type Accumulator struct {
	Values [board.NumColors][]int16
	dirty  bool
}

// NewAccumulator allocates an (uninitialized, dirty) accumulator sized for n.
func NewAccumulator(n *Network) *Accumulator {
	return &Accumulator{
		Values: [board.NumColors][]int16{
			make([]int16, n.Hidden),
			make([]int16, n.Hidden),
		},
		dirty: true,
	}
}

// Clone returns an independent copy, for pushing onto a per-ply stack.
func (a *Accumulator) Clone() *Accumulator {
	c := &Accumulator{dirty: a.dirty}
	for side := range a.Values {
		c.Values[side] = append([]int16(nil), a.Values[side]...)
	}
	return c
}

// Refresh recomputes both perspectives from scratch against pos. Used at the
// root of a search and whenever an incremental update cannot be trusted.
func (a *Accumulator) Refresh(n *Network, pos *board.Position) {
	for persp := board.ZeroColor; persp < board.NumColors; persp++ {
		acc := make([]int16, n.Hidden)
		copy(acc, n.FeatureBias)

		for color := board.ZeroColor; color < board.NumColors; color++ {
			for piece := board.Pawn; piece < board.NumPieces; piece++ {
				for bb := pos.Board(color, piece); bb != board.EmptyBitboard; {
					sq := bb.PopLSB()
					f := featureIndex(persp, color, piece, sq)
					w := n.FeatureWeights[f]
					for h := 0; h < n.Hidden; h++ {
						acc[h] = clampInt16(int32(acc[h]) + int32(w[h]))
					}
				}
			}
		}
		a.Values[persp] = acc
	}
	a.dirty = false
}

// Add applies a single added feature (a piece appearing on sq) to both
// perspectives incrementally.
func (a *Accumulator) Add(n *Network, color board.Color, piece board.Piece, sq board.Square) {
	for persp := board.ZeroColor; persp < board.NumColors; persp++ {
		f := featureIndex(persp, color, piece, sq)
		w := n.FeatureWeights[f]
		acc := a.Values[persp]
		for h := 0; h < n.Hidden; h++ {
			acc[h] = clampInt16(int32(acc[h]) + int32(w[h]))
		}
	}
}

// Remove applies a single removed feature (a piece disappearing from sq) to
// both perspectives incrementally.
func (a *Accumulator) Remove(n *Network, color board.Color, piece board.Piece, sq board.Square) {
	for persp := board.ZeroColor; persp < board.NumColors; persp++ {
		f := featureIndex(persp, color, piece, sq)
		w := n.FeatureWeights[f]
		acc := a.Values[persp]
		for h := 0; h < n.Hidden; h++ {
			acc[h] = clampInt16(int32(acc[h]) - int32(w[h]))
		}
	}
}

// ApplyMove updates the accumulator incrementally for a single make-move,
// given the piece that moved (already at its destination conceptually),
// any captured piece, and promotion. added_features/removed_features, per
// spec, are derived directly from move metadata -- no king-move refresh is
// required under the plain 12x64 feature set (see package doc).
func (a *Accumulator) ApplyMove(n *Network, side board.Color, m board.Move) {
	a.Remove(n, side, m.Piece, m.From)

	switch m.Type {
	case board.Capture:
		a.Remove(n, side.Opponent(), m.Capture, m.To)
		a.Add(n, side, m.Piece, m.To)
	case board.Promotion:
		a.Add(n, side, m.Promotion, m.To)
	case board.CapturePromotion:
		a.Remove(n, side.Opponent(), m.Capture, m.To)
		a.Add(n, side, m.Promotion, m.To)
	case board.EnPassant:
		a.Add(n, side, m.Piece, m.To)
		if epc, ok := m.EnPassantCapture(); ok {
			a.Remove(n, side.Opponent(), board.Pawn, epc)
		}
	case board.KingSideCastle, board.QueenSideCastle:
		a.Add(n, side, m.Piece, m.To)
		if from, to, ok := m.CastlingRookMove(); ok {
			a.Remove(n, side, board.Rook, from)
			a.Add(n, side, board.Rook, to)
		}
	default:
		a.Add(n, side, m.Piece, m.To)
	}
}
