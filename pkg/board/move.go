package board

import (
	"fmt"
	"strings"
)

// MoveType indicates the type of move. The no-progress counter is reset with any non-Normal move.
type MoveType uint8

const (
	Normal    MoveType = iota
	Push               // Pawn single-square push
	DoublePush         // Pawn 2-square push
	EnPassant          // Implicitly a pawn capture
	QueenSideCastle
	KingSideCastle
	Capture
	Promotion
	CapturePromotion
)

func (t MoveType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Push:
		return "push"
	case DoublePush:
		return "double-push"
	case EnPassant:
		return "en-passant"
	case QueenSideCastle:
		return "O-O-O"
	case KingSideCastle:
		return "O-O"
	case Capture:
		return "capture"
	case Promotion:
		return "promotion"
	case CapturePromotion:
		return "capture-promotion"
	default:
		return "?"
	}
}

// Move represents a not-necessarily legal move along with contextual metadata. 48bits.
type Move struct {
	Type      MoveType
	From, To  Square
	Piece     Piece // piece being moved
	Promotion Piece // desired piece for promotion, if any.
	Capture   Piece // captured piece, if any.
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q".
// The parsed move does not contain contextual information like castling or en passant; use
// Position.FindMove to recover it.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}

	return Move{From: from, To: to}, nil
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// IsCapture reports whether the move captures a piece, including en passant.
func (m Move) IsCapture() bool {
	return m.Type == Capture || m.Type == CapturePromotion || m.Type == EnPassant
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Type == Promotion || m.Type == CapturePromotion
}

// IsCastle reports whether the move is a castle.
func (m Move) IsCastle() bool {
	return m.Type == KingSideCastle || m.Type == QueenSideCastle
}

// EnPassantCapture returns the square of the pawn captured en passant, if the
// move is an EnPassant capture.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return NoSquare, false
	}
	return NewSquare(m.To.File(), m.From.Rank()), true
}

// EnPassantTarget returns the square that becomes the en passant target after
// this move, if it is a double pawn push.
func (m Move) EnPassantTarget() (Square, bool) {
	if m.Type != DoublePush {
		return NoSquare, false
	}
	if m.From.Rank() < m.To.Rank() {
		return NewSquare(m.From.File(), m.From.Rank()+1), true
	}
	return NewSquare(m.From.File(), m.From.Rank()-1), true
}

// CastlingRookMove returns the rook's from/to squares for a castling move.
func (m Move) CastlingRookMove() (from, to Square, ok bool) {
	switch m.Type {
	case KingSideCastle:
		if m.From.Rank() == Rank1 {
			return H1, F1, true
		}
		return H8, F8, true
	case QueenSideCastle:
		if m.From.Rank() == Rank1 {
			return A1, D1, true
		}
		return A8, D8, true
	default:
		return NoSquare, NoSquare, false
	}
}

// CastlingRightsLost returns the castling rights that this move revokes, as a
// consequence of a king move, a rook move off its home square, or a capture
// landing on a corner rook square.
func (m Move) CastlingRightsLost() Castling {
	var lost Castling

	switch m.Piece {
	case King:
		if m.From == E1 {
			lost |= WhiteKingSideCastle | WhiteQueenSideCastle
		} else if m.From == E8 {
			lost |= BlackKingSideCastle | BlackQueenSideCastle
		}
	case Rook:
		lost |= rookHomeRights(m.From)
	}
	lost |= rookHomeRights(m.To)

	return lost
}

func rookHomeRights(sq Square) Castling {
	switch sq {
	case A1:
		return WhiteQueenSideCastle
	case H1:
		return WhiteKingSideCastle
	case A8:
		return BlackQueenSideCastle
	case H8:
		return BlackKingSideCastle
	default:
		return 0
	}
}

func (m Move) String() string {
	if m.Promotion.IsValid() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// PrintMoves formats a move sequence using each move's default String form,
// space-separated.
func PrintMoves(moves []Move) string {
	return FormatMoves(moves, Move.String)
}

// FormatMoves formats a move sequence using fn for each move, space-separated.
func FormatMoves(moves []Move, fn func(Move) string) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(fn(m))
	}
	return sb.String()
}
