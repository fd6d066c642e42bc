package search_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, position string) *board.Board {
	t.Helper()
	zt := board.NewZobristTable(0)
	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	require.NoError(t, err)
	return board.NewBoard(zt, pos, turn, noprogress, fullmoves)
}

func newTestAlphaBeta() search.AlphaBeta {
	classical := eval.NewClassical(board.NewZobristTable(0))
	return search.AlphaBeta{
		Eval:       search.Quiescence{Eval: classical},
		StaticEval: classical,
		History:    search.NewHistory(),
	}
}

func TestAlphaBetaFindsMateInOne(t *testing.T) {
	// White to move: Ra1-a8 is a back-rank mate, the king boxed in by its
	// own pawns.
	b := newTestBoard(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	p := newTestAlphaBeta()

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}
	_, score, moves, err := p.Search(context.Background(), sctx, b, 3)
	require.NoError(t, err)
	require.NotEmpty(t, moves)

	md, ok := score.MateDistance()
	require.True(t, ok, "expected a mate score, got %v", score)
	assert.Equal(t, 1, md)
}

func TestAlphaBetaStalemateScoresZero(t *testing.T) {
	// Black to move, stalemated.
	b := newTestBoard(t, "7k/8/6Q1/8/8/8/8/6K1 b - - 0 1")
	p := newTestAlphaBeta()

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}
	_, score, moves, err := p.Search(context.Background(), sctx, b, 2)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, eval.ZeroScore, score)
}

func TestAlphaBetaExcludeSkipsRootMove(t *testing.T) {
	b := newTestBoard(t, fen.Initial)
	p := newTestAlphaBeta()

	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}}
	_, _, first, err := p.Search(context.Background(), sctx, b, 2)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	sctx2 := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: search.NoTranspositionTable{}, Exclude: []board.Move{first[0]}}
	_, _, second, err := p.Search(context.Background(), sctx2, b.Fork(), 2)
	require.NoError(t, err)
	require.NotEmpty(t, second)
	assert.False(t, second[0].Equals(first[0]))
}
