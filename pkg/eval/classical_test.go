package eval_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvalBoard(t *testing.T, position string) *board.Board {
	t.Helper()
	zt := board.NewZobristTable(0)
	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	require.NoError(t, err)
	return board.NewBoard(zt, pos, turn, noprogress, fullmoves)
}

func TestPhaseIsMaxAtStartAndZeroWithBareKings(t *testing.T) {
	start := newEvalBoard(t, fen.Initial)
	assert.Equal(t, eval.MaxPhase, eval.Phase(start.Position()))

	bare := newEvalBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.Equal(t, 0, eval.Phase(bare.Position()))
}

func TestBlendInterpolatesLinearly(t *testing.T) {
	assert.Equal(t, 100, eval.Blend(100, 0, eval.MaxPhase))
	assert.Equal(t, 0, eval.Blend(100, 0, 0))
	assert.Equal(t, 50, eval.Blend(100, 0, eval.MaxPhase/2))
}

func TestClassicalEvaluateStartingPositionIsJustTempo(t *testing.T) {
	// Material, PST, mobility, pawn structure, king safety and
	// threats/space all cancel out in the mirror-symmetric starting
	// position, so only the side-to-move tempo bonus (16cp by default)
	// should show through.
	b := newEvalBoard(t, fen.Initial)
	c := eval.NewClassical(board.NewZobristTable(0))

	score := c.Evaluate(context.Background(), b)
	assert.Equal(t, eval.Pawns(0.16), score)
}

func TestClassicalEvaluateTempoGoesToTheSideToMove(t *testing.T) {
	// Same mirror-symmetric material/structure, only the side to move
	// differs: every term but tempo cancels, and the 16cp tempo bonus goes
	// to whichever side is to move, so both sides see the same score.
	white := newEvalBoard(t, fen.Initial)
	black := newEvalBoard(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	c := eval.NewClassical(board.NewZobristTable(0))

	ws := c.Evaluate(context.Background(), white)
	bs := c.Evaluate(context.Background(), black)
	assert.Equal(t, ws, bs)
}

func TestClassicalContemptNudgesDrawishScoresOnly(t *testing.T) {
	b := newEvalBoard(t, fen.Initial)
	c := eval.NewClassical(board.NewZobristTable(0), eval.WithContempt(40))

	score := c.Evaluate(context.Background(), b)
	// tempo(16cp) + contempt.max(40cp, since configured contempt 40 is
	// within it) == 56cp == 0.56 pawns.
	assert.Equal(t, eval.Pawns(0.56), score)
}

func TestClassicalContemptClampedToHundred(t *testing.T) {
	// Raise contempt.max above 100 so the contempt value itself (not the
	// weight) is the binding constraint, then confirm WithContempt(500)
	// behaves exactly like WithContempt(100) -- proof the 500 got clamped.
	w := eval.DefaultWeights()
	w.Set("contempt.max", 200)

	b := newEvalBoard(t, fen.Initial)
	over := eval.NewClassical(board.NewZobristTable(0), eval.WithWeights(w), eval.WithContempt(500))
	clamped := eval.NewClassical(board.NewZobristTable(0), eval.WithWeights(w), eval.WithContempt(100))

	assert.Equal(t, clamped.Evaluate(context.Background(), b), over.Evaluate(context.Background(), b))
}
