package search_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SEE on exd5, where the knight is defended once by the c6 pawn: winning a
// knight (300) and losing the pawn back to the recapture (100) nets +200.
func TestSEEKnightDefendedByOnePawn(t *testing.T) {
	pos, _, _, _, err := fen.Decode("6k1/8/2p5/3n4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := board.Move{Type: board.Capture, From: board.E4, To: board.D5, Piece: board.Pawn, Capture: board.Knight}
	assert.Equal(t, 200, search.SEE(pos, m))
}

func TestSEECaptureThreshold(t *testing.T) {
	pos, _, _, _, err := fen.Decode("6k1/8/2p5/3n4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := board.Move{Type: board.Capture, From: board.E4, To: board.D5, Piece: board.Pawn, Capture: board.Knight}
	assert.True(t, search.SEECapture(pos, m, 0))
	assert.True(t, search.SEECapture(pos, m, 200))
	assert.False(t, search.SEECapture(pos, m, 201))
}

// An undefended capture keeps the full value of the captured piece.
func TestSEEUndefendedCapture(t *testing.T) {
	pos, _, _, _, err := fen.Decode("6k1/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := board.Move{Type: board.Capture, From: board.E4, To: board.D5, Piece: board.Pawn, Capture: board.Knight}
	assert.Equal(t, 300, search.SEE(pos, m))
}
