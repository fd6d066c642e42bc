package search

import "github.com/corvidchess/corvid/pkg/board"

// historyMax is the saturation point for history scores; once a (side,
// from, to) entry goes past it in either direction, that side's history
// table is halved so relative ordering keeps adapting rather than
// flattening out.
const historyMax = 20000

// maxKillerPly bounds the killer-move table; plies at or beyond it record
// and return no killers.
const maxKillerPly = 128

// History tracks move-ordering state private to one search worker: quiet
// move history (indexed by side/from/to), killer moves per ply, and counter
// moves keyed by the opponent's last move.
type History struct {
	quiet   [board.NumColors][64][64]int32
	killers [maxKillerPly][2]board.Move
	counter map[counterKey]board.Move
}

type counterKey struct {
	side     board.Color
	from, to board.Square
}

func NewHistory() *History {
	return &History{counter: map[counterKey]board.Move{}}
}

// historyBonusCap bounds the per-cutoff history adjustment, so one deep
// cutoff can't swamp the table relative to everything else in it.
const historyBonusCap = 1200

// Bonus rewards a quiet move that caused a beta cutoff, and penalizes the
// quiet moves that were tried and failed before it (so losing alternatives
// sink relative to the move that worked), by min(16*depth^2, 1200).
func (h *History) Bonus(side board.Color, best board.Move, tried []board.Move, depth int) {
	bonus := int32(16 * depth * depth)
	if bonus > historyBonusCap {
		bonus = historyBonusCap
	}
	h.add(side, best, bonus)
	for _, m := range tried {
		if m.Equals(best) {
			continue
		}
		h.add(side, m, -bonus)
	}
}

func (h *History) add(side board.Color, m board.Move, delta int32) {
	v := &h.quiet[side][m.From][m.To]
	*v += delta
	if *v > historyMax {
		h.halve(side)
	} else if *v < -historyMax {
		h.halve(side)
	}
}

func (h *History) halve(side board.Color) {
	for f := 0; f < 64; f++ {
		for t := 0; t < 64; t++ {
			h.quiet[side][f][t] /= 2
		}
	}
}

// Score returns the current history value for a quiet move.
func (h *History) Score(side board.Color, m board.Move) int32 {
	return h.quiet[side][m.From][m.To]
}

// AddKiller records a quiet move that caused a beta cutoff at ply, bumping
// out the older of the two killer slots.
func (h *History) AddKiller(ply int, m board.Move) {
	if ply < 0 || ply >= maxKillerPly {
		return
	}
	slot := &h.killers[ply]
	if slot[0].Equals(m) {
		return
	}
	slot[1] = slot[0]
	slot[0] = m
}

// Killers returns the two killer moves recorded at ply.
func (h *History) Killers(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= maxKillerPly {
		return board.Move{}, board.Move{}
	}
	return h.killers[ply][0], h.killers[ply][1]
}

// SetCounter records m as the reply that refuted the opponent's last move.
func (h *History) SetCounter(side board.Color, last board.Move, m board.Move) {
	if last.Equals(board.Move{}) {
		return
	}
	h.counter[counterKey{side, last.From, last.To}] = m
}

// Counter returns the recorded counter-move to the opponent's last move, if any.
func (h *History) Counter(side board.Color, last board.Move) (board.Move, bool) {
	m, ok := h.counter[counterKey{side, last.From, last.To}]
	return m, ok
}
