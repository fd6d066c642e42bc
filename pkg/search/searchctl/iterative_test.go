package searchctl_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRanked returns, each call, the best-ranked move from a fixed
// preference list that isn't already excluded -- enough to exercise
// MultiPV's root-exclusion loop without depending on real move generation.
type fakeRanked struct {
	moves []board.Move
}

func (f fakeRanked) Search(ctx context.Context, sctx *search.Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	for i, m := range f.moves {
		if !excludes(sctx.Exclude, m) {
			return 1, eval.HeuristicScore(eval.Pawns(100 - i)), []board.Move{m}, nil
		}
	}
	return 1, eval.ZeroScore, nil, nil
}

func excludes(list []board.Move, m board.Move) bool {
	for _, e := range list {
		if e.Equals(m) {
			return true
		}
	}
	return false
}

func TestIterativeMultiPVReportsDistinctLines(t *testing.T) {
	e2e4 := board.Move{From: board.E2, To: board.E4}
	d2d4 := board.Move{From: board.D2, To: board.D4}
	g1f3 := board.Move{From: board.G1, To: board.F3}

	root := fakeRanked{moves: []board.Move{e2e4, d2d4, g1f3}}
	it := &searchctl.Iterative{Root: root}

	b := newBoard(t, fen.Initial)
	opt := searchctl.Options{DepthLimit: lang.Some(uint(1)), MultiPV: 3}

	handle, out := it.Launch(context.Background(), b, search.NoTranspositionTable{}, eval.Random{}, opt)
	defer handle.Halt()

	var lines []search.PV
	for pv := range out {
		lines = append(lines, pv)
	}
	require.Len(t, lines, 3)

	assert.Equal(t, 1, lines[0].Line)
	assert.Equal(t, 2, lines[1].Line)
	assert.Equal(t, 3, lines[2].Line)

	assert.True(t, lines[0].Moves[0].Equals(e2e4))
	assert.True(t, lines[1].Moves[0].Equals(d2d4))
	assert.True(t, lines[2].Moves[0].Equals(g1f3))
}

func TestIterativeSinglePVDefaultsToOneLine(t *testing.T) {
	e2e4 := board.Move{From: board.E2, To: board.E4}
	root := fakeRanked{moves: []board.Move{e2e4}}
	it := &searchctl.Iterative{Root: root}

	b := newBoard(t, fen.Initial)
	opt := searchctl.Options{DepthLimit: lang.Some(uint(1))}

	handle, out := it.Launch(context.Background(), b, search.NoTranspositionTable{}, eval.Random{}, opt)
	defer handle.Halt()

	var lines []search.PV
	for pv := range out {
		lines = append(lines, pv)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Line)
}

func newBoard(t *testing.T, position string) *board.Board {
	t.Helper()
	zt := board.NewZobristTable(0)
	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	require.NoError(t, err)
	return board.NewBoard(zt, pos, turn, noprogress, fullmoves)
}
