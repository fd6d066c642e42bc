package searchctl

import (
	"context"
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/tablebase"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"sync"
	"time"
)

// Iterative is a search harness for iterative deepening search.
type Iterative struct {
	Root search.Search

	// Tablebase, if set and available, takes precedence over the searched
	// move at the root whenever it resolves to a decisive or drawn verdict.
	Tablebase tablebase.Oracle
}

func (i *Iterative) Launch(ctx context.Context, b *board.Board, tt search.TranspositionTable, noise eval.Random, opt Options) (Handle, <-chan search.PV) {
	// Sized so a full MultiPV batch for one depth fits without a line
	// evicting one of its own companions; eviction still happens once a
	// whole depth's worth of lines is unconsumed, same "prefer the freshest
	// depth" policy as the single-PV case.
	capacity := 1
	if opt.MultiPV > 1 {
		capacity = int(opt.MultiPV)
	}
	out := make(chan search.PV, capacity)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, i.Tablebase, b, tt, noise, opt, out)

	return h, out
}

// publish sends pv without blocking: if out is already full (a slow or
// absent consumer), it evicts the oldest unconsumed entry first. A full
// buffer only happens once a whole depth's (or MultiPV batch's) worth of
// lines has gone unconsumed, so this never drops a companion line within
// the same batch -- out is sized to fit one full batch.
func publish(out chan search.PV, pv search.PV) {
	select {
	case out <- pv:
	default:
		select {
		case <-out:
		default:
		}
		out <- pv
	}
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

// aspirationMinDepth is the shallowest depth at which a narrowed window
// around the previous iteration's score is tried first, instead of a full
// -inf/+inf window; below it the score is too volatile to predict.
const aspirationMinDepth = 5

// aspirationDelta is the initial half-width of the aspiration window, in
// centipawns; it doubles on each fail-high/fail-low re-search.
const aspirationDelta = eval.Score(25)

func (h *handle) process(ctx context.Context, root search.Search, tb tablebase.Oracle, b *board.Board, tt search.TranspositionTable, noise eval.Random, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	if tb != nil && tb.Available() && tablebase.CountPieces(b.Position()) <= tb.MaxPieces() {
		if rr := tb.ProbeRoot(b.Position(), b.Turn()); rr.Found {
			pv := search.PV{
				Depth: 1,
				Score: tablebase.ScoreOf(rr.WDL, rr.DTZ, 0),
				Moves: []board.Move{rr.Move},
			}

			h.mu.Lock()
			h.pv = pv
			h.mu.Unlock()

			h.init.Close()
			publish(out, pv)
			return
		}
	}

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	multiPV := opt.MultiPV
	if multiPV < 1 {
		multiPV = 1
	}

	depth := 1
	prevScore := eval.ZeroScore
	for !h.quit.IsClosed() {
		start := time.Now()

		var exclude []board.Move
		primaryScore := prevScore
		haveLine := false

		for line := 1; uint(line) <= multiPV; line++ {
			if line > 1 && len(exclude) == 0 {
				break // a prior line already exhausted the position's legal moves.
			}

			nodes, score, moves, err := searchAspirated(wctx, root, b, tt, noise, depth, prevScore, exclude)
			if err != nil {
				if err == search.ErrHalted {
					return // Halt was called.
				}
				logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
				return
			}
			if line == 1 {
				primaryScore = score
			}
			if len(moves) == 0 && line > 1 {
				break // fewer legal root moves than requested lines.
			}
			if len(moves) > 0 {
				exclude = append(exclude, moves[0])
			}
			haveLine = true

			pv := search.PV{
				Depth: depth,
				Line:  line,
				Nodes: nodes,
				Score: score,
				Moves: moves,
				Time:  time.Since(start),
			}
			if tt != nil {
				pv.Hash = tt.Used()
			}

			logw.Debugf(ctx, "Searched %v: %v", b.Position(), pv)

			if line == 1 {
				h.mu.Lock()
				h.pv = pv
				h.mu.Unlock()
			}

			publish(out, pv)
		}
		if !haveLine {
			return // terminal position: no legal moves at all.
		}
		prevScore = primaryScore

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if md, ok := primaryScore.MateDistance(); ok && int(md) <= depth {
			return // halt: forced mate found within full width search. Exact result.
		}
		if useSoft && soft < time.Since(start) {
			return // halt: exceeded soft time limit. Do not start new search.
		}
		depth++
	}
}

// searchAspirated runs depth with a window narrowed around prevScore once
// depth is deep enough for that score to be a trustworthy guess, widening
// (doubling) and re-searching on fail-high/fail-low until the result lands
// strictly inside the window or the window has widened to +/-inf.
func searchAspirated(ctx context.Context, root search.Search, b *board.Board, tt search.TranspositionTable, noise eval.Random, depth int, prevScore eval.Score, exclude []board.Move) (uint64, eval.Score, []board.Move, error) {
	alpha, beta := eval.NegInfScore, eval.InfScore
	delta := aspirationDelta
	if depth >= aspirationMinDepth {
		alpha = prevScore - delta
		beta = prevScore + delta
	}

	var totalNodes uint64
	for {
		sctx := &search.Context{Alpha: alpha, Beta: beta, TT: tt, Noise: noise, Exclude: exclude}
		nodes, score, moves, err := root.Search(ctx, sctx, b, depth)
		totalNodes += nodes
		if err != nil {
			return totalNodes, score, moves, err
		}

		switch {
		case alpha != eval.NegInfScore && !alpha.Less(score):
			// Fail-low: score <= alpha. Widen the lower bound and retry.
			delta *= 2
			alpha = eval.Max(eval.NegInfScore, alpha-delta)
		case beta != eval.InfScore && !score.Less(beta):
			// Fail-high: score >= beta. Widen the upper bound and retry.
			delta *= 2
			beta = eval.Min(eval.InfScore, beta+delta)
		default:
			return totalNodes, score, moves, nil
		}
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
