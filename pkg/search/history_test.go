package search_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestHistoryBonusRewardsBestAndPenalizesTried(t *testing.T) {
	h := search.NewHistory()

	best := board.Move{From: board.E2, To: board.E4}
	other := board.Move{From: board.D2, To: board.D4}

	h.Bonus(board.White, best, []board.Move{best, other}, 4)

	// 16 * depth^2 == 16*16 == 256, well under the 1200 cap.
	assert.Equal(t, int32(256), h.Score(board.White, best))
	assert.Equal(t, int32(-256), h.Score(board.White, other))
	assert.Equal(t, int32(0), h.Score(board.Black, best), "history is per side")
}

func TestHistoryBonusCapsAtTwelveHundred(t *testing.T) {
	h := search.NewHistory()

	best := board.Move{From: board.E2, To: board.E4}
	// depth=10: 16*10^2 == 1600, above the 1200 cap.
	h.Bonus(board.White, best, nil, 10)
	assert.Equal(t, int32(1200), h.Score(board.White, best))
}

func TestHistoryKillers(t *testing.T) {
	h := search.NewHistory()

	m1 := board.Move{From: board.G1, To: board.F3}
	m2 := board.Move{From: board.B1, To: board.C3}

	h.AddKiller(5, m1)
	h.AddKiller(5, m2)

	k0, k1 := h.Killers(5)
	assert.True(t, k0.Equals(m2), "most recent killer occupies slot 0")
	assert.True(t, k1.Equals(m1))

	k0, k1 = h.Killers(6)
	assert.True(t, k0.Equals(board.Move{}))
	assert.True(t, k1.Equals(board.Move{}))
}

func TestHistoryCounterMove(t *testing.T) {
	h := search.NewHistory()

	last := board.Move{From: board.E7, To: board.E5}
	reply := board.Move{From: board.G1, To: board.F3}

	_, ok := h.Counter(board.White, last)
	assert.False(t, ok)

	h.SetCounter(board.White, last, reply)
	got, ok := h.Counter(board.White, last)
	assert.True(t, ok)
	assert.True(t, got.Equals(reply))
}
