// Package tablebase defines the endgame tablebase oracle boundary: given a
// position at or below the piece-count cutoff, an Oracle reports a
// win/draw/loss verdict and, at the root, a best move -- without this
// package knowing or caring how the verdict was produced (Syzygy files on
// disk, a network probe, or -- absent real tablebase files -- nothing at
// all). No Syzygy binary format is parsed here; NoopOracle is the only
// implementation, used whenever tablebase files aren't configured.
package tablebase

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// WDL is a tablebase result from the probing side's perspective.
type WDL int

const (
	Loss        WDL = -2
	BlessedLoss WDL = -1 // Loss, but the 50-move rule may save it.
	Draw        WDL = 0
	CursedWin   WDL = 1 // Win, but the 50-move rule may spoil it.
	Win         WDL = 2
)

// MaxPieces is the largest total piece count (both sides, including kings)
// any Oracle in this tree is expected to cover; probes above it should not
// be attempted.
const MaxPieces = 7

// ProbeResult is the outcome of probing a non-root position.
type ProbeResult struct {
	Found bool
	WDL   WDL
	DTZ   int // Distance to zeroing move (pawn push or capture), unsigned.
}

// RootResult is the outcome of probing the root position, which additionally
// resolves to a concrete best move.
type RootResult struct {
	Found bool
	Move  board.Move
	WDL   WDL
	DTZ   int
}

// Oracle probes tablebase-covered positions. Implementations must be safe
// for concurrent use by multiple search workers.
type Oracle interface {
	// Probe looks up pos (not necessarily the root) for the side to move.
	Probe(pos *board.Position, turn board.Color) ProbeResult

	// ProbeRoot resolves the root position to a concrete best move; it may
	// cost more than Probe since it needs to disambiguate among legal moves.
	ProbeRoot(pos *board.Position, turn board.Color) RootResult

	// MaxPieces is the largest total piece count this Oracle covers.
	MaxPieces() int

	// Available reports whether the Oracle has tablebase data loaded.
	Available() bool
}

// NoopOracle never finds anything; it is the Oracle used when no tablebase
// files are configured.
type NoopOracle struct{}

func (NoopOracle) Probe(*board.Position, board.Color) ProbeResult { return ProbeResult{} }

func (NoopOracle) ProbeRoot(*board.Position, board.Color) RootResult { return RootResult{} }

func (NoopOracle) MaxPieces() int { return 0 }

func (NoopOracle) Available() bool { return false }

// CountPieces returns the total piece count of pos, both colors included.
func CountPieces(pos *board.Position) int {
	return pos.Occupied().PopCount()
}

// ScoreOf maps a WDL verdict found dtz plies from a zeroing move, at search
// ply ply, to a search score: decisive results are encoded as near-mate
// scores offset by dtz and ply, so a shorter path to the win is preferred
// over a longer one, but any verdict here still loses ordering priority to
// a mate the search found directly within the tree.
func ScoreOf(wdl WDL, dtz, ply int) eval.Score {
	bound := eval.MateScore - eval.MaxMateDistance

	switch wdl {
	case Win:
		return bound - eval.Score(dtz+ply)
	case CursedWin:
		return eval.HeuristicScore(0)
	case Draw:
		return eval.ZeroScore
	case BlessedLoss:
		return eval.HeuristicScore(0)
	case Loss:
		return -bound + eval.Score(dtz+ply)
	default:
		return eval.ZeroScore
	}
}
