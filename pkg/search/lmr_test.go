package search_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestLMRZeroAtTableEdges(t *testing.T) {
	assert.Equal(t, 0, search.LMR(0, 5), "no reduction with no depth left")
	assert.Equal(t, 0, search.LMR(5, 0), "no reduction for the first move")
	assert.Equal(t, 0, search.LMR(1, 1), "first quiet move at shallow depth isn't reduced")
}

func TestLMRGrowsWithDepthAndMoveCount(t *testing.T) {
	assert.GreaterOrEqual(t, search.LMR(3, 5), search.LMR(2, 5), "reduction shouldn't shrink as depth grows")
	assert.GreaterOrEqual(t, search.LMR(6, 20), search.LMR(3, 5))

	assert.GreaterOrEqual(t, search.LMR(6, 20), search.LMR(6, 5), "reduction shouldn't shrink as move count grows")
	assert.Equal(t, 2, search.LMR(6, 20))
}

func TestLMRClampsAtTableBounds(t *testing.T) {
	// Depths/move counts beyond the precomputed table clamp to its last row
	// and column instead of indexing out of range.
	assert.Equal(t, search.LMR(63, 63), search.LMR(64, 64))
	assert.Equal(t, search.LMR(63, 63), search.LMR(1000, 1000))
}
