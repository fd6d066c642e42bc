package search

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// pickerStage identifies the current staged bucket a MovePicker is yielding
// moves from: the TT move first, then winning captures, killers, the
// counter-move, history-sorted quiets, and finally losing captures -- so
// that the cheapest refutations are tried first and a beta cutoff can come
// before the quiet moves are scored and sorted.
type pickerStage int

const (
	stageTT pickerStage = iota
	stageWinningCaptures
	stageKillers
	stageCounter
	stageQuiets
	stageLosingCaptures
	stageDone
)

// MovePicker yields pseudo-legal moves from a position in staged priority
// order for the main search. Quiescence search instead generates captures
// directly (see quiescence.go) since it has no use for killers/history.
type MovePicker struct {
	pos     *board.Position
	side    board.Color
	ttMove  board.Move
	killers [2]board.Move
	counter board.Move
	history *History

	stage pickerStage
	idx   int

	winning []scoredMove
	losing  []scoredMove
	quiets  []scoredMove

	yielded map[board.Move]bool
}

type scoredMove struct {
	m     board.Move
	score int32
}

// NewMovePicker builds a picker for side's pseudo-legal moves in pos. ply
// indexes the killer table; last is the opponent's last move, used to look
// up a counter-move.
func NewMovePicker(pos *board.Position, side board.Color, ttMove board.Move, ply int, last board.Move, h *History) *MovePicker {
	mp := &MovePicker{
		pos:     pos,
		side:    side,
		history: h,
		yielded: map[board.Move]bool{},
	}
	if ttMove != (board.Move{}) {
		// The transposition table keeps only From/To/Promotion: match it
		// against the generated moves so dedup sees the same full Move.
		for _, m := range pos.PseudoLegalMoves(side) {
			if m.Equals(ttMove) {
				mp.ttMove = m
				break
			}
		}
	}
	if h != nil {
		mp.killers[0], mp.killers[1] = h.Killers(ply)
		if c, ok := h.Counter(side, last); ok {
			mp.counter = c
		}
	}
	return mp
}

// Next returns the next move to try, or false once exhausted.
func (mp *MovePicker) Next() (board.Move, bool) {
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stageWinningCaptures
			if mp.ttMove != (board.Move{}) {
				mp.yielded[mp.ttMove] = true
				return mp.ttMove, true
			}
		case stageWinningCaptures:
			if mp.winning == nil {
				mp.generateCaptures()
			}
			if m, ok := mp.nextScored(&mp.winning); ok {
				return m, true
			}
			mp.stage = stageKillers
		case stageKillers:
			mp.stage = stageCounter
			for _, k := range mp.killers {
				if k == (board.Move{}) || mp.yielded[k] {
					continue
				}
				if mp.isPseudoLegalQuiet(k) {
					mp.yielded[k] = true
					return k, true
				}
			}
		case stageCounter:
			mp.stage = stageQuiets
			if mp.counter != (board.Move{}) && !mp.yielded[mp.counter] && mp.isPseudoLegalQuiet(mp.counter) {
				mp.yielded[mp.counter] = true
				return mp.counter, true
			}
		case stageQuiets:
			if mp.quiets == nil {
				mp.generateQuiets()
			}
			if m, ok := mp.nextScored(&mp.quiets); ok {
				return m, true
			}
			mp.stage = stageLosingCaptures
		case stageLosingCaptures:
			if m, ok := mp.nextScored(&mp.losing); ok {
				return m, true
			}
			mp.stage = stageDone
		case stageDone:
			return board.Move{}, false
		}
	}
}

// Stage reports the picker's current stage, so the search can decide e.g.
// whether a move is a "quiet" eligible for late move reductions/pruning.
// For captures and history-sorted quiets this is the bucket the most
// recently returned move came from; the TT move, a killer or the
// counter-move is returned after the stage has already advanced, so for
// those Stage reports the following bucket.
func (mp *MovePicker) Stage() pickerStage {
	return mp.stage
}

func (mp *MovePicker) generateCaptures() {
	all := mp.pos.GenerateCaptures(mp.side)
	for _, m := range all {
		if mp.yielded[m] {
			continue
		}
		sm := scoredMove{m: m, score: mvvLva(m)}
		if SEE(mp.pos, m) >= 0 {
			mp.winning = append(mp.winning, sm)
		} else {
			mp.losing = append(mp.losing, sm)
		}
	}
	sortScored(mp.winning)
	sortScored(mp.losing)
	if mp.winning == nil {
		mp.winning = []scoredMove{}
	}
}

// mvvLva scores a capture for Most-Valuable-Victim/Least-Valuable-Attacker
// ordering: the captured piece's nominal value, ten times over, minus the
// attacker's. SEE alone decides the winning/losing split; this only orders
// moves within each bucket.
func mvvLva(m board.Move) int32 {
	var victim eval.Pawns
	if m.IsCapture() {
		victim = eval.NominalValue(m.Capture)
	}
	attacker := eval.NominalValue(m.Piece)
	return int32(10*victim - attacker)
}

func (mp *MovePicker) generateQuiets() {
	all := mp.pos.PseudoLegalMoves(mp.side)
	for _, m := range all {
		if m.IsCapture() || mp.yielded[m] {
			continue
		}
		score := int32(0)
		if mp.history != nil {
			score = mp.history.Score(mp.side, m)
		}
		mp.quiets = append(mp.quiets, scoredMove{m: m, score: score})
	}
	sortScored(mp.quiets)
	if mp.quiets == nil {
		mp.quiets = []scoredMove{}
	}
}

func (mp *MovePicker) nextScored(list *[]scoredMove) (board.Move, bool) {
	for mp.idx < len(*list) {
		m := (*list)[mp.idx].m
		mp.idx++
		if mp.yielded[m] {
			continue
		}
		mp.yielded[m] = true
		return m, true
	}
	mp.idx = 0
	*list = nil
	return board.Move{}, false
}

func (mp *MovePicker) isPseudoLegalQuiet(m board.Move) bool {
	for _, c := range mp.pos.PseudoLegalMoves(mp.side) {
		if c.Equals(m) && !c.IsCapture() {
			return true
		}
	}
	return false
}

func sortScored(list []scoredMove) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].score > list[j-1].score; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}
