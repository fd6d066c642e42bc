package search_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTableWriteRead(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<16)

	hash := board.ZobristHash(0x1234)
	move := board.Move{From: board.E2, To: board.E4}

	ok := tt.Write(hash, search.ExactBound, 0, 8, eval.HeuristicScore(120), move)
	assert.True(t, ok)

	bound, depth, score, got, found := tt.Read(hash)
	assert.True(t, found)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 8, depth)
	assert.Equal(t, eval.HeuristicScore(120), score)
	assert.True(t, got.Equals(move))
}

func TestTranspositionTableMiss(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<16)

	_, _, _, _, found := tt.Read(board.ZobristHash(0xdeadbeef))
	assert.False(t, found)
}

func TestTranspositionTableNewGenerationResetsUsage(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<16)

	tt.Write(board.ZobristHash(1), search.ExactBound, 0, 4, eval.ZeroScore, board.Move{})
	before := tt.Used()
	assert.Greater(t, before, 0.0)

	tt.NewGeneration()
	after := tt.Used()
	assert.Less(t, after, before)
}

func TestNoTranspositionTableAlwaysMisses(t *testing.T) {
	var tt search.TranspositionTable = search.NoTranspositionTable{}

	_, _, _, _, found := tt.Read(board.ZobristHash(1))
	assert.False(t, found)
	assert.False(t, tt.Write(board.ZobristHash(1), search.ExactBound, 0, 1, eval.ZeroScore, board.Move{}))
	assert.Equal(t, uint64(0), tt.Size())
}
