package eval

import "github.com/corvidchess/corvid/pkg/board"

// mobility returns the white-minus-black mobility score: legal-destination
// count per non-pawn, non-king piece type, weighted per piece and phase.
func mobility(pos *board.Position, w *Weights) (mg, eg int) {
	wMg, wEg := mobilityForSide(pos, board.White, w)
	bMg, bEg := mobilityForSide(pos, board.Black, w)
	return wMg - bMg, wEg - bEg
}

func mobilityForSide(pos *board.Position, c board.Color, w *Weights) (mg, eg int) {
	occ := pos.Occupied()
	for _, piece := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		mgW := w.Get("mobility."+pieceName(piece)+".mg", 2)
		egW := w.Get("mobility."+pieceName(piece)+".eg", 2)

		for bb := pos.Board(c, piece); bb != board.EmptyBitboard; {
			sq := bb.PopLSB()
			dests := board.Attackboard(occ, sq, piece) &^ pos.Board(c, board.Pawn) &^ pos.Board(c, board.King) &^ ownOccupancy(pos, c)
			n := dests.PopCount()
			mg += n * mgW
			eg += n * egW
		}
	}
	return mg, eg
}

func ownOccupancy(pos *board.Position, c board.Color) board.Bitboard {
	var bb board.Bitboard
	for p := board.Pawn; p < board.NumPieces; p++ {
		bb |= pos.Board(c, p)
	}
	return bb
}

func pieceName(p board.Piece) string {
	switch p {
	case board.Knight:
		return "knight"
	case board.Bishop:
		return "bishop"
	case board.Rook:
		return "rook"
	case board.Queen:
		return "queen"
	default:
		return "pawn"
	}
}
