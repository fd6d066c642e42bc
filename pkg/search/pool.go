package search

import (
	"context"
	"sync"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// Pool implements Search as a Lazy-SMP thread pool: N workers search the
// same position independently at (near-)the same depth, sharing only the
// transposition table passed in via Context.TT. Workers diverge via a small
// per-worker depth offset and move-ordering noise seeded by worker index,
// each with its own forked board and a private history/killer table built
// by New, so one worker's cutoffs feed the shared TT and sharpen another's
// move ordering without any other shared mutable state.
//
// Worker 0 is the primary worker and is authoritative for the returned
// principal variation, unless a helper completed a strictly deeper search,
// in which case its result is reported instead (the highest-completed-depth
// rule): helpers exist to deepen TT coverage and occasionally get there
// first.
type Pool struct {
	// New builds a fresh per-worker Search, given the worker's index (0 is
	// the primary worker) -- typically an AlphaBeta with its own History.
	New func(worker int) Search
	// Workers is the pool size; treated as 1 if less.
	Workers int
}

type workerResult struct {
	nodes uint64
	depth int
	score eval.Score
	moves []board.Move
	err   error
}

func (p Pool) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	n := p.Workers
	if n < 1 {
		n = 1
	}

	results := make([]workerResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			wd := depth + workerDepthOffset(i)
			if wd < 1 {
				wd = 1
			}

			wb := b.Fork()
			wctx := &Context{Alpha: sctx.Alpha, Beta: sctx.Beta, TT: sctx.TT, Noise: workerNoise(i, sctx.Noise), Exclude: sctx.Exclude}

			nodes, score, moves, err := p.New(i).Search(ctx, wctx, wb, wd)
			results[i] = workerResult{nodes: nodes, depth: wd, score: score, moves: moves, err: err}
		}(i)
	}
	wg.Wait()

	var totalNodes uint64
	for _, r := range results {
		totalNodes += r.nodes
	}

	primary := results[0]
	if primary.err != nil {
		// The shared ctx was almost certainly cancelled for every worker too.
		return totalNodes, primary.score, primary.moves, primary.err
	}

	best := primary
	for _, r := range results[1:] {
		if r.err == nil && r.depth > best.depth {
			best = r
		}
	}
	return totalNodes, best.score, best.moves, nil
}

// workerDepthOffset returns a small deterministic per-worker depth
// perturbation so helper workers explore slightly different horizons than
// the main worker, per Lazy-SMP's "diverge naturally" guidance.
func workerDepthOffset(worker int) int {
	if worker == 0 {
		return 0
	}
	return (worker % 3) - 1 // -1, 0, +1 depending on worker index
}

// workerNoise seeds each helper worker's move ordering with distinct noise
// so workers don't all expand an identical tree; the primary worker keeps
// the caller's noise setting unchanged.
func workerNoise(worker int, base eval.Random) eval.Random {
	if worker == 0 {
		return base
	}
	return eval.NewRandom(4, int64(worker)*1000003+17)
}
