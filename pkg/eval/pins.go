package eval

import "github.com/corvidchess/corvid/pkg/board"

// Pin represents a pinned piece. A pinned piece cannot move off the line
// between Attacker and Target without exposing Target to capture.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns all pins targeting the given piece: for each pinned
// piece, the attacker, the pinned piece and the target square.
func FindPins(pos *board.Position, side board.Color, piece board.Piece) []Pin {
	var ret []Pin

	occ := pos.Occupied()
	own := pos.Board(side, board.NoPiece)

	for bb := pos.Board(side, piece); bb != board.EmptyBitboard; {
		target := bb.PopLSB()

		// (1) Rook/Queen pins.

		rooks := board.RookAttackboard(occ, target)
		for pins := rooks & own; pins != board.EmptyBitboard; {
			pinned := pins.PopLSB()

			attackers := pos.Board(side.Opponent(), board.Queen) | pos.Board(side.Opponent(), board.Rook)
			candidate := (board.RookAttackboard(occ&^board.BitMask(pinned), target) &^ rooks) & attackers
			if candidate != board.EmptyBitboard {
				ret = append(ret, Pin{Attacker: candidate.LSB(), Pinned: pinned, Target: target})
			}
		}

		// (2) Bishop/Queen pins.

		bishops := board.BishopAttackboard(occ, target)
		for pins := bishops & own; pins != board.EmptyBitboard; {
			pinned := pins.PopLSB()

			attackers := pos.Board(side.Opponent(), board.Queen) | pos.Board(side.Opponent(), board.Bishop)
			candidate := (board.BishopAttackboard(occ&^board.BitMask(pinned), target) &^ bishops) & attackers
			if candidate != board.EmptyBitboard {
				ret = append(ret, Pin{Attacker: candidate.LSB(), Pinned: pinned, Target: target})
			}
		}
	}

	return ret
}
