// Package book implements a read-only Polyglot opening book oracle: given a
// position, it returns zero or more candidate moves drawn from a packed
// .bin file, picked by a configurable selection policy. Grounded on the
// packed-record layout and Polyglot zobrist scheme used by reference Go
// chess engines; see the file format notes below.
package book

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
)

// entry is one packed 16-byte Polyglot book record.
type entry struct {
	key    uint64
	move   uint16
	weight uint16
	// learn (4 bytes) is part of the on-disk format but unused by play.
}

const entrySize = 16

// Policy selects among multiple book moves for the same position.
type Policy int

const (
	// Uniform picks uniformly at random among all candidate moves.
	Uniform Policy = iota
	// Weighted samples a move with probability proportional to its weight.
	Weighted
	// BestOnly always picks the move with the highest weight.
	BestOnly
)

// Book is a parsed, in-memory Polyglot opening book, keyed by Polyglot
// zobrist hash. Entries for the same key are kept sorted by descending
// weight; entries of equal weight keep their on-file order.
type Book struct {
	entries map[uint64][]entry
	policy  Policy
	rand    *rand.Rand
}

// Option configures a Book.
type Option func(*Book)

// WithPolicy sets the move selection policy. Defaults to Weighted.
func WithPolicy(p Policy) Option {
	return func(b *Book) { b.policy = p }
}

// WithSeed seeds the random source used by Uniform/Weighted selection.
func WithSeed(seed int64) Option {
	return func(b *Book) { b.rand = rand.New(rand.NewSource(seed)) }
}

// Load parses a Polyglot .bin file from r. Records are big-endian packed:
// 8-byte key, 2-byte move, 2-byte weight, 4-byte learn (ignored).
func Load(r io.Reader, opts ...Option) (*Book, error) {
	b := &Book{
		entries: map[uint64][]entry{},
		policy:  Weighted,
		rand:    rand.New(rand.NewSource(1)),
	}
	for _, fn := range opts {
		fn(b)
	}

	br := bufio.NewReader(r)
	var buf [entrySize]byte
	for {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("invalid polyglot book: %w", err)
		}

		e := entry{
			key:    binary.BigEndian.Uint64(buf[0:8]),
			move:   binary.BigEndian.Uint16(buf[8:10]),
			weight: binary.BigEndian.Uint16(buf[10:12]),
		}
		b.entries[e.key] = append(b.entries[e.key], e)
	}

	for k := range b.entries {
		list := b.entries[k]
		sort.SliceStable(list, func(i, j int) bool { return list[i].weight > list[j].weight })
		b.entries[k] = list
	}
	return b, nil
}

// Find satisfies engine.Book: it decodes the FEN and looks up the resulting
// position, so callers never need to depend on this package's board types.
func (b *Book) Find(ctx context.Context, position string) ([]board.Move, error) {
	pos, turn, _, _, err := fen.Decode(position)
	if err != nil {
		return nil, fmt.Errorf("invalid fen %q: %w", position, err)
	}
	return b.findInPosition(ctx, pos, turn)
}

// findInPosition returns the candidate moves for pos under the book's
// policy: zero moves if the position isn't in the book, one move for
// BestOnly/Uniform, and a weighted single pick for Weighted -- returned as
// a slice so the caller can apply its own tie-break if it wants to.
func (b *Book) findInPosition(ctx context.Context, pos *board.Position, turn board.Color) ([]board.Move, error) {
	list := b.entries[polyglotHash(pos, turn)]
	if len(list) == 0 {
		return nil, nil
	}

	switch b.policy {
	case BestOnly:
		if m, ok := decodeAgainst(pos, turn, list[0]); ok {
			return []board.Move{m}, nil
		}
		return nil, nil
	case Uniform:
		if m, ok := decodeAgainst(pos, turn, list[b.rand.Intn(len(list))]); ok {
			return []board.Move{m}, nil
		}
		return nil, nil
	default: // Weighted
		e, ok := b.pickWeighted(list)
		if !ok {
			return nil, nil
		}
		if m, ok := decodeAgainst(pos, turn, e); ok {
			return []board.Move{m}, nil
		}
		return nil, nil
	}
}

func (b *Book) pickWeighted(list []entry) (entry, bool) {
	var total int
	for _, e := range list {
		total += int(e.weight)
	}
	if total <= 0 {
		return list[0], true
	}
	n := b.rand.Intn(total)
	for _, e := range list {
		n -= int(e.weight)
		if n < 0 {
			return e, true
		}
	}
	return list[len(list)-1], true
}

// decodeAgainst decodes a packed move and resolves it against the position's
// legal moves to recover full metadata (type, captured piece, etc) -- a bare
// from/to/promotion triple isn't enough to make the move directly.
func decodeAgainst(pos *board.Position, turn board.Color, e entry) (board.Move, bool) {
	from, to, promo := decodeMove(e.move)
	if m, ok := pos.FindMove(turn, from, to, promo); ok {
		return m, true
	}

	// Polyglot expresses castling as king-takes-own-rook: from is the king's
	// home square and to is the rook's square, not the king's landing
	// square, so a direct FindMove lookup above never matches castling.
	if king, kRook, qRook, kTo, qTo, ok := castleSquares(turn); ok && from == king {
		switch to {
		case kRook:
			return pos.FindMove(turn, from, kTo, board.NoPiece)
		case qRook:
			return pos.FindMove(turn, from, qTo, board.NoPiece)
		}
	}
	return board.Move{}, false
}

// castleSquares returns turn's king home square, its two rook home squares,
// and the king's two castling landing squares (kingside, then queenside).
func castleSquares(turn board.Color) (king, kRook, qRook, kTo, qTo board.Square, ok bool) {
	switch turn {
	case board.White:
		return board.E1, board.H1, board.A1, board.G1, board.C1, true
	case board.Black:
		return board.E8, board.H8, board.A8, board.G8, board.C8, true
	default:
		return 0, 0, 0, 0, 0, false
	}
}

// decodeMove unpacks a Polyglot move: to_file | (to_rank<<3) |
// (from_file<<6) | (from_rank<<9) | (promo<<12).
func decodeMove(v uint16) (from, to board.Square, promo board.Piece) {
	toFile := board.File(v & 0x7)
	toRank := board.Rank((v >> 3) & 0x7)
	fromFile := board.File((v >> 6) & 0x7)
	fromRank := board.Rank((v >> 9) & 0x7)
	promo = polyglotPromotion((v >> 12) & 0x7)

	return board.NewSquare(fromFile, fromRank), board.NewSquare(toFile, toRank), promo
}

func polyglotPromotion(v uint16) board.Piece {
	switch v {
	case 1:
		return board.Knight
	case 2:
		return board.Bishop
	case 3:
		return board.Rook
	case 4:
		return board.Queen
	default:
		return board.NoPiece
	}
}
