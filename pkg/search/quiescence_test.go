package search_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
)

type fixedEval struct{ v eval.Pawns }

func (f fixedEval) Evaluate(ctx context.Context, b *board.Board) eval.Pawns {
	return f.v
}

func TestQuiescenceStandPatWhenNoCaptures(t *testing.T) {
	b := newTestBoard(t, "6k1/8/8/8/8/8/8/6K1 w - - 0 1")
	q := search.Quiescence{Eval: fixedEval{v: 42}}

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore}
	_, score := q.QuietSearch(context.Background(), sctx, b)
	assert.Equal(t, eval.HeuristicScore(42), score)
}

func TestQuiescenceResolvesHangingCapture(t *testing.T) {
	// White to move: Rxd5 wins a free knight outright, so quiescence must
	// not settle for the stand-pat score.
	b := newTestBoard(t, "6k1/8/8/3n4/8/8/8/3R2K1 w - - 0 1")
	q := search.Quiescence{Eval: eval.Material{}}

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore}
	_, score := q.QuietSearch(context.Background(), sctx, b)

	want := eval.HeuristicScore(eval.NominalValue(board.Knight))
	assert.False(t, score.Less(want), "expected quiescence to find at least the knight capture, got %v want >= %v", score, want)
}
