package search_test

import (
	"context"
	"sync"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSearch returns a fixed result and records the Context it was
// invoked with, so the pool's wiring can be inspected without depending on
// real move generation. Note Pool itself decides each worker's reported
// depth (requested depth plus its deterministic offset) -- it ignores
// whatever depth a Search implementation would have searched to -- so this
// stub doesn't bother returning one.
type scriptedSearch struct {
	mu    *sync.Mutex
	seen  *[]search.Context
	score eval.Score
	moves []board.Move
	err   error
}

func (s scriptedSearch) Search(ctx context.Context, sctx *search.Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	s.mu.Lock()
	*s.seen = append(*s.seen, *sctx)
	s.mu.Unlock()
	return 1, s.score, s.moves, s.err
}

func TestPoolForwardsExcludeToEveryWorker(t *testing.T) {
	var mu sync.Mutex
	var seen []search.Context
	excluded := []board.Move{{From: board.E2, To: board.E4}}

	p := search.Pool{
		Workers: 3,
		New: func(worker int) search.Search {
			return scriptedSearch{mu: &mu, seen: &seen, score: eval.ZeroScore, moves: nil}
		},
	}

	b := newTestBoard(t, fen.Initial)
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}, Exclude: excluded}

	_, _, _, err := p.Search(context.Background(), sctx, b, 4)
	require.NoError(t, err)

	require.Len(t, seen, 3)
	for i, s := range seen {
		require.Len(t, s.Exclude, 1, "worker %d", i)
		assert.True(t, s.Exclude[0].Equals(excluded[0]), "worker %d", i)
	}
}

func TestPoolReportsDeepestCompletedWorker(t *testing.T) {
	deepMove := board.Move{From: board.D2, To: board.D4}
	shallowMove := board.Move{From: board.E2, To: board.E4}

	var mu sync.Mutex
	var seen []search.Context

	// The pool's deterministic per-worker depth offset is (worker%3)-1, so
	// of three workers only index 2 searches one ply deeper than the
	// primary (worker 0); that's the one whose result must win.
	p := search.Pool{
		Workers: 3,
		New: func(worker int) search.Search {
			if worker == 2 {
				return scriptedSearch{mu: &mu, seen: &seen, score: eval.HeuristicScore(50), moves: []board.Move{deepMove}}
			}
			return scriptedSearch{mu: &mu, seen: &seen, score: eval.HeuristicScore(10), moves: []board.Move{shallowMove}}
		},
	}

	b := newTestBoard(t, fen.Initial)
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}

	_, score, moves, err := p.Search(context.Background(), sctx, b, 4)
	require.NoError(t, err)

	assert.Equal(t, eval.HeuristicScore(50), score)
	require.NotEmpty(t, moves)
	assert.True(t, moves[0].Equals(deepMove))
}

func TestPoolFallsBackToPrimaryOnError(t *testing.T) {
	primaryMove := board.Move{From: board.E2, To: board.E4}

	var mu sync.Mutex
	var seen []search.Context

	p := search.Pool{
		Workers: 1,
		New: func(worker int) search.Search {
			return scriptedSearch{mu: &mu, seen: &seen, score: eval.ZeroScore, moves: []board.Move{primaryMove}, err: context.Canceled}
		},
	}

	b := newTestBoard(t, fen.Initial)
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}

	_, _, _, err := p.Search(context.Background(), sctx, b, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
