// Package search contains search functionality and utilities: alpha-beta
// search with pruning, quiescence, transposition table, move ordering and
// the lazy-SMP thread pool.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// ErrHalted is returned by a Search when it was cancelled via context before
// completing the requested depth.
var ErrHalted = errors.New("search halted")

// PV represents the principal variation for some search depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1] at completion
	// Line is the 1-based MultiPV rank of this variation. Zero means the
	// caller didn't tag it; single-PV callers may leave it unset.
	Line int
}

func (p PV) String() string {
	pv := board.PrintMoves(p.Moves)
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%.1f%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, 100*p.Hash, pv)
}

// Context carries the per-call search window and shared resources down into
// a single Search invocation: the alpha/beta window, the shared
// transposition table, evaluation noise (for weaker play levels), an
// optional ponder line whose move is the only one searched at each node
// along it, and an optional set of
// root moves to exclude (used by MultiPV to search past the lines already
// reported at the current depth).
type Context struct {
	Alpha, Beta eval.Score
	TT          TranspositionTable
	Noise       eval.Random
	Ponder      []board.Move
	Exclude     []board.Move
}

// Search performs a search to the given depth, returning the node count,
// score and principal variation from the side to move's perspective.
// Cancelling ctx returns ErrHalted.
type Search interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error)
}

// QuietSearch performs a quiescence search at the horizon of the main
// search, resolving tactical sequences until a quiet position is reached.
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score)
}

// Evaluator is the search package's narrow view of a static evaluator: a
// pure function of the board, used by quiescence search as the stand-pat
// score.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board) eval.Pawns
}
