package eval

import "github.com/corvidchess/corvid/pkg/board"

// kingSafety returns the white-minus-black king safety score: own pawns on
// the files around each king (shelter), enemy pawns on those files (storm),
// king-zone files without an own pawn, and an
// attacker-count/weight term for pieces bearing on the king zone. Scaled
// down toward the endgame by the caller via the phase blend.
func kingSafety(pos *board.Position, w *Weights) (mg, eg int) {
	wShelter, wStorm, wWeak := shelterStormWeak(pos, board.White)
	bShelter, bStorm, bWeak := shelterStormWeak(pos, board.Black)

	wAttack := kingZoneAttackers(pos, board.White)
	bAttack := kingZoneAttackers(pos, board.Black)

	shelter := w.Get("king.shelter", 6)
	storm := w.Get("king.storm", -5)
	weak := w.Get("king.weak", -4)
	attack := w.Get("king.attack", -8)

	score := shelter*(wShelter-bShelter) + storm*(wStorm-bStorm) + weak*(wWeak-bWeak) + attack*(bAttack-wAttack)
	return score, score / 3
}

// shelterStormWeak counts, for c's king, over the king's file and its
// neighbours: files holding at least one friendly pawn on any rank
// (shelter), all enemy pawns on those files (storm), and files with no
// friendly pawn (weak).
func shelterStormWeak(pos *board.Position, c board.Color) (shelter, storm, weak int) {
	king := pos.Board(c, board.King)
	if king == board.EmptyBitboard {
		return 0, 0, 0
	}
	sq := king.LSB()
	own := pos.Board(c, board.Pawn)
	opp := pos.Board(c.Opponent(), board.Pawn)

	files := kingZoneFiles(sq.File())
	for _, f := range files {
		fileMask := board.BitFile(f)
		if own&fileMask != board.EmptyBitboard {
			shelter++
		} else {
			weak++
		}
		storm += (opp & fileMask).PopCount()
	}
	return shelter, storm, weak
}

func kingZoneFiles(f board.File) []board.File {
	files := []board.File{f}
	if f > board.FileA {
		files = append(files, f-1)
	}
	if f < board.FileH {
		files = append(files, f+1)
	}
	return files
}

// kingZoneAttackers counts enemy officer attacks landing within the king's
// 3x3 zone, a coarse proxy for attacker count x weight.
func kingZoneAttackers(pos *board.Position, c board.Color) int {
	king := pos.Board(c, board.King)
	if king == board.EmptyBitboard {
		return 0
	}
	zone := board.KingAttackboard(king.LSB()) | king

	occ := pos.Occupied()
	opp := c.Opponent()
	count := 0
	for piece := board.Knight; piece <= board.Queen; piece++ {
		for bb := pos.Board(opp, piece); bb != board.EmptyBitboard; {
			sq := bb.PopLSB()
			if board.Attackboard(occ, sq, piece)&zone != board.EmptyBitboard {
				count++
			}
		}
	}
	return count
}
