package search

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// maxQPly bounds quiescence recursion: a safety net against runaway check
// sequences in pathological positions, well beyond what any real line needs.
const maxQPly = 32

// deltaMargin is added to a capture's material gain before comparing against
// alpha; a capture that can't plausibly close the gap even with the margin
// is pruned without being searched (delta pruning).
const deltaMargin = eval.Score(200)

// checkMargin gates quiet-check generation: checks are generated alongside
// captures only while alpha is more than this much below beta (a wide
// window); with a narrower window, such as a null window, only captures
// are searched.
const checkMargin = eval.Score(100)

// Quiescence implements a captures-and-checks-only QuietSearch: it resolves
// tactical sequences at the horizon of the main search until a quiet
// position is reached, so the static evaluator is never trusted mid-capture.
type Quiescence struct {
	Eval Evaluator
}

func (q Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score) {
	run := &runQuiescence{eval: q.Eval, noise: sctx.Noise, b: b}

	low, high := eval.NegInfScore, eval.InfScore
	if !sctx.Alpha.IsInvalid() {
		low = sctx.Alpha
	}
	if !sctx.Beta.IsInvalid() {
		high = sctx.Beta
	}

	score := run.search(ctx, 0, low, high)
	return run.nodes, score
}

type runQuiescence struct {
	eval  Evaluator
	noise eval.Random
	b     *board.Board
	nodes uint64
}

// search returns the score for the side to move.
func (r *runQuiescence) search(ctx context.Context, qply int, alpha, beta eval.Score) eval.Score {
	if contextx.IsCancelled(ctx) {
		return eval.ZeroScore
	}
	if r.b.Result().Outcome == board.Draw {
		return eval.ZeroScore
	}

	r.nodes++

	pos := r.b.Position()
	turn := r.b.Turn()
	inCheck := pos.IsChecked(turn)

	// Stand-pat: the side to move need not capture, so the static
	// evaluation is a lower bound unless in check (no legal "do nothing").
	var standPat eval.Score
	if !inCheck {
		standPat = eval.HeuristicScore(r.eval.Evaluate(ctx, r.b) + r.noise.Evaluate(ctx, r.b))
		if !standPat.Less(beta) {
			return standPat
		}
		alpha = eval.Max(alpha, standPat)
	}

	if qply >= maxQPly {
		if inCheck {
			return alpha // can't safely stand pat, but recursion must stop
		}
		return standPat
	}

	var moves []board.Move
	switch {
	case inCheck:
		// In check: every pseudo-legal move is a candidate evasion: captures,
		// blocks and king moves all matter, not just captures.
		moves = pos.PseudoLegalMoves(turn)
	case alpha.Less(beta - checkMargin):
		// Wide window: quiet checks can still change the result, so search
		// them alongside captures instead of only resolving material.
		moves = append(pos.GenerateCaptures(turn), pos.GenerateChecks(turn)...)
	default:
		moves = pos.GenerateCaptures(turn)
	}

	hasLegalMove := false
	for _, m := range moves {
		if !inCheck {
			if m.IsCapture() {
				// Delta pruning: even the best case (capture gain plus
				// margin) can't reach alpha, so this capture can't help.
				gain := eval.HeuristicScore(eval.NominalValueGain(m))
				if !standPat.IsInvalid() && (standPat+gain+deltaMargin).Less(alpha) {
					continue
				}
				// SEE pruning: a capture that loses material after all
				// recaptures is never worth resolving here.
				if SEE(pos, m) < 0 {
					continue
				}
			} else if !standPat.IsInvalid() && (standPat + deltaMargin).Less(alpha) {
				// A quiet check with no material gain to bound: only the
				// margin itself can save it from the same delta pruning.
				continue
			}
		}

		if !r.b.PushMove(m) {
			continue // skip: not legal
		}
		hasLegalMove = true

		score := r.search(ctx, qply+1, beta.Negate(), alpha.Negate())
		score = eval.IncrementMateDistance(score).Negate()

		r.b.PopMove()

		if alpha.Less(score) {
			alpha = score
		}
		if !alpha.Less(beta) {
			break // cutoff
		}
	}

	if inCheck && !hasLegalMove {
		if result := r.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return eval.MatedInPly(0)
		}
		return eval.ZeroScore
	}

	return alpha
}
