package eval

import "github.com/corvidchess/corvid/pkg/board"

// MaxPhase is the phase value of the initial position (all minor/major
// pieces present): 4 knights + 4 bishops + 4 rooks*2 + 2 queens*4 == 24.
const MaxPhase = 24

var phaseWeight = [board.NumPieces]int{
	board.Pawn:   0,
	board.Knight: 1,
	board.Bishop: 1,
	board.Rook:   2,
	board.Queen:  4,
	board.King:   0,
}

// Phase returns a position's game phase in [0, MaxPhase], 0 being a bare
// king-and-pawn endgame and MaxPhase the full opening material count.
func Phase(pos *board.Position) int {
	p := 0
	for _, c := range []board.Color{board.White, board.Black} {
		for piece := board.Knight; piece <= board.Queen; piece++ {
			p += phaseWeight[piece] * pos.Board(c, piece).PopCount()
		}
	}
	if p > MaxPhase {
		p = MaxPhase
	}
	return p
}

// Blend linearly interpolates a middlegame and endgame term by phase p out
// of MaxPhase, per spec.md's `(mg*p + eg*(24-p))/24`.
func Blend(mg, eg, p int) int {
	return (mg*p + eg*(MaxPhase-p)) / MaxPhase
}
