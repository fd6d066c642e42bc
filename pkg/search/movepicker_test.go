package search_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovePickerReturnsTTMoveFirst(t *testing.T) {
	pos, turn, _, _, err := fen.Decode("6k1/8/2p5/3n4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	// Not the best move on the board (the winning capture is exd5), but the
	// picker must still try it first: it's the transposition-table move.
	ttMove := board.Move{From: board.E1, To: board.D2}

	mp := search.NewMovePicker(pos, turn, ttMove, 0, board.Move{}, search.NewHistory())
	first, ok := mp.Next()
	require.True(t, ok)
	assert.True(t, first.Equals(ttMove))
}

func TestMovePickerOrdersWinningCapturesBeforeQuiets(t *testing.T) {
	pos, turn, _, _, err := fen.Decode("6k1/8/2p5/3n4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	mp := search.NewMovePicker(pos, turn, board.Move{}, 0, board.Move{}, search.NewHistory())

	var seenCapture bool
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if m.From == board.E4 && m.To == board.D5 {
			seenCapture = true
		} else if m.IsCapture() {
			t.Fatalf("unexpected capture before the only real capture: %v", m)
		} else if !seenCapture {
			t.Fatalf("quiet move %v returned before the winning capture", m)
		}
	}
	assert.True(t, seenCapture, "expected exd5 to be yielded")
}

func TestMovePickerNeverYieldsTheSameMoveTwice(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	// The transposition table keeps only From/To/Promotion and the picker
	// resolves such a move against the generated ones; a fully populated
	// TT move, as built here, must likewise be yielded only once.
	var ttMove board.Move
	for _, m := range pos.PseudoLegalMoves(turn) {
		if m.From == board.E2 && m.To == board.E4 {
			ttMove = m
			break
		}
	}
	require.NotEqual(t, board.Move{}, ttMove)

	mp := search.NewMovePicker(pos, turn, ttMove, 0, board.Move{}, search.NewHistory())

	seen := map[board.Move]bool{}
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		require.False(t, seen[m], "move %v yielded twice", m)
		seen[m] = true
	}
	assert.Equal(t, 20, len(seen), "initial position has 20 legal/pseudo-legal moves")
}
