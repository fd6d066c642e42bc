package tablebase_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/tablebase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopOracleNeverFinds(t *testing.T) {
	var o tablebase.Oracle = tablebase.NoopOracle{}

	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	assert.False(t, o.Available())
	assert.Equal(t, 0, o.MaxPieces())
	assert.False(t, o.Probe(pos, turn).Found)
	assert.False(t, o.ProbeRoot(pos, turn).Found)
}

func TestCountPieces(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	assert.Equal(t, 32, tablebase.CountPieces(pos))

	pos, _, _, _, err = fen.Decode("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 3, tablebase.CountPieces(pos))
}

func TestScoreOfOrdering(t *testing.T) {
	win := tablebase.ScoreOf(tablebase.Win, 10, 2)
	loss := tablebase.ScoreOf(tablebase.Loss, 10, 2)
	draw := tablebase.ScoreOf(tablebase.Draw, 0, 2)

	assert.True(t, loss.Less(draw))
	assert.True(t, draw.Less(win))

	// A shorter win (lower dtz+ply) scores more extreme than a longer one.
	closer := tablebase.ScoreOf(tablebase.Win, 2, 0)
	further := tablebase.ScoreOf(tablebase.Win, 20, 0)
	assert.True(t, further.Less(closer))

	// A tablebase win is decisive but never outranks a search-found mate.
	assert.True(t, win.Less(eval.MateInPly(0)))
}

func TestScoreOfCursedAndBlessed(t *testing.T) {
	assert.Equal(t, eval.ZeroScore, tablebase.ScoreOf(tablebase.CursedWin, 5, 0))
	assert.Equal(t, eval.ZeroScore, tablebase.ScoreOf(tablebase.BlessedLoss, 5, 0))
}
