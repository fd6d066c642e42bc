package search

import "math"

// maxLMRDepth/maxLMRMoveCount bound the precomputed late-move reduction
// table; deeper plies or later move indices clamp to the table's edge.
const (
	maxLMRDepth     = 64
	maxLMRMoveCount = 64
)

var lmrTable [maxLMRDepth][maxLMRMoveCount]int

func init() {
	// Depths below 3 aren't reduced at all: there isn't enough search left
	// for a reduction to pay for itself.
	for d := 3; d < maxLMRDepth; d++ {
		for c := 1; c < maxLMRMoveCount; c++ {
			r := 0.5 + math.Log(float64(d))*math.Log(float64(c))/2.5
			lmrTable[d][c] = int(math.Floor(r))
		}
	}
}

// LMR returns the late-move reduction, in plies, for a quiet move searched
// at the given remaining depth and move index (1-based) in the ordering.
func LMR(depth, moveCount int) int {
	if depth <= 0 || moveCount <= 0 {
		return 0
	}
	if depth >= maxLMRDepth {
		depth = maxLMRDepth - 1
	}
	if moveCount >= maxLMRMoveCount {
		moveCount = maxLMRMoveCount - 1
	}
	return lmrTable[depth][moveCount]
}
