package search

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/tablebase"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Pruning/extension tuning constants, grounded in common practice across
// alpha-beta chess engines: null-move reduction base, reverse futility
// margin per remaining ply, futility margin per remaining ply, and the late
// move pruning move-count budget per depth.
const (
	nullMoveMinDepth    = 3
	nullMoveBaseR       = 3
	reverseFutilityUnit = 85
	reverseFutilityMax  = 6
	futilityUnit        = 100
	futilityMaxDepth    = 6
	lmpBase             = 4
	seeMarginPerDepth   = -35
	singularMinDepth    = 6
	iidMinDepth         = 6
	iidReduction        = 2
)

// AlphaBeta implements a principal-variation alpha-beta search with the
// standard modern pruning/extension stack: mate-distance pruning,
// transposition-table cutoffs, reverse futility (static null-move) pruning,
// null-move pruning, late move reductions, late move pruning, futility
// pruning, a singular extension, and check extensions. See: Marsland,
// "A Review of Game-Tree Pruning" and the pruning stacks of mainstream open
// source engines.
type AlphaBeta struct {
	Eval       QuietSearch     // quiescence, used at depth 0
	StaticEval staticEvaluator // static eval, used mid-search for pruning decisions
	History    *History
	Tablebase  tablebase.Oracle // optional; nil/NoopOracle disables probing
}

// isExcluded reports whether move is one of the root moves MultiPV has
// already reported at a better rank this depth.
func isExcluded(exclude []board.Move, move board.Move) bool {
	for _, e := range exclude {
		if e.Equals(move) {
			return true
		}
	}
	return false
}

// staticEvaluator is a static position evaluator usable mid-search (not
// just at the horizon); kept distinct from QuietSearch, which additionally
// resolves tactical sequences.
type staticEvaluator interface {
	Evaluate(ctx context.Context, b *board.Board) eval.Pawns
}

func (p AlphaBeta) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	hist := p.History
	if hist == nil {
		hist = NewHistory()
	}
	tb := p.Tablebase
	if tb == nil {
		tb = tablebase.NoopOracle{}
	}
	run := &runAlphaBeta{
		eval:      p.Eval,
		static:    p.StaticEval,
		tt:        sctx.TT,
		noise:     sctx.Noise,
		ponder:    sctx.Ponder,
		exclude:   sctx.Exclude,
		history:   hist,
		tablebase: tb,
		b:         b,
	}
	low, high := eval.NegInfScore, eval.InfScore
	if !sctx.Alpha.IsInvalid() {
		low = sctx.Alpha
	}
	if !sctx.Beta.IsInvalid() {
		high = sctx.Beta
	}

	score, moves := run.search(ctx, 0, depth, low, high, true, false)
	if contextx.IsCancelled(ctx) {
		return 0, eval.InvalidScore, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runAlphaBeta struct {
	eval      QuietSearch
	static    staticEvaluator
	tt        TranspositionTable
	noise     eval.Random
	history   *History
	tablebase tablebase.Oracle
	b         *board.Board
	nodes     uint64

	ponder  []board.Move
	exclude []board.Move
}

// search returns the score and principal variation for the side to move,
// from its own perspective. cutNode marks a node expected to fail high (the
// non-first child of a null-window search): it reduces more aggressively
// under LMR since a fail-low result there won't be trusted anyway.
func (m *runAlphaBeta) search(ctx context.Context, ply, depth int, alpha, beta eval.Score, pvNode, cutNode bool) (eval.Score, []board.Move) {
	if contextx.IsCancelled(ctx) {
		return eval.InvalidScore, nil
	}
	if ply > 0 && m.b.Result().Outcome == board.Draw {
		return eval.ZeroScore, nil
	}

	// Mate distance pruning: a shorter mate is never worse than a longer
	// one, so tighten the window to what is actually reachable from here.
	alpha = eval.Max(alpha, eval.MatedInPly(ply))
	beta = eval.Min(beta, eval.MateInPly(ply+1))
	if !alpha.Less(beta) {
		return alpha, nil
	}

	inCheck := m.b.Position().IsChecked(m.b.Turn())
	if inCheck {
		depth++ // check extension: never resolve a check at zero depth
	}

	if ply > 0 && m.tablebase.Available() && tablebase.CountPieces(m.b.Position()) <= m.tablebase.MaxPieces() {
		if pr := m.tablebase.Probe(m.b.Position(), m.b.Turn()); pr.Found {
			score := tablebase.ScoreOf(pr.WDL, pr.DTZ, ply)
			return score, nil
		}
	}

	if depth <= 0 {
		sctx := &Context{Alpha: alpha, Beta: beta, TT: m.tt, Noise: m.noise}
		nodes, score := m.eval.QuietSearch(ctx, sctx, m.b)
		m.nodes += nodes
		return score, nil
	}

	hash := m.b.Hash()
	var ttMove board.Move
	if bound, d, score, mv, ok := m.tt.Read(hash); ok {
		ttMove = mv
		if d >= depth && !pvNode {
			switch {
			case bound == ExactBound:
				return score, nil
			case bound == LowerBound && !score.Less(beta):
				return score, nil
			case bound == UpperBound && score.Less(alpha):
				return score, nil
			}
		}
	}

	m.nodes++

	var staticEval eval.Score
	if m.static != nil {
		staticEval = eval.HeuristicScore(m.static.Evaluate(ctx, m.b) + m.noise.Evaluate(ctx, m.b))
	} else {
		staticEval = eval.ZeroScore
	}

	if !pvNode && !inCheck && staticEval.IsHeuristic() {
		// Reverse futility (static null-move) pruning: if we are already far
		// above beta on the static eval alone, assume a real search would
		// only confirm it and return early.
		if depth <= reverseFutilityMax {
			margin := eval.Score(reverseFutilityUnit * depth)
			if !(staticEval - margin).Less(beta) {
				return staticEval - margin, nil
			}
		}

		// Null-move pruning: if passing the turn still doesn't let the
		// opponent catch up to beta, this position is so good a real move
		// would also cut off; skip if in zugzwang danger (bare king+pawns).
		if depth >= nullMoveMinDepth && beta.Less(staticEval) && hasNonPawnMaterial(m.b.Position(), m.b.Turn()) {
			r := nullMoveBaseR + depth/4
			m.b.PushNull()
			score, _ := m.search(ctx, ply+1, depth-1-r, beta.Negate(), beta.Negate()+1, false, true)
			m.b.PopNull()
			score = score.Negate()
			if !score.IsInvalid() && !score.Less(beta) && score.IsHeuristic() {
				return beta, nil
			}
		}
	}

	// Internal iterative deepening: without a TT move to try first at a
	// deep node, spend a reduced-depth search on this same position to seed
	// one -- it sharply improves move ordering for the full-depth search
	// that follows, which matters most exactly where there's no TT move.
	if ttMove == (board.Move{}) && depth >= iidMinDepth {
		m.search(ctx, ply, depth-iidReduction, alpha, beta, pvNode, cutNode)
		if _, _, _, mv, ok := m.tt.Read(hash); ok {
			ttMove = mv
		}
	}

	// Singular extension: if the TT move is far better than every
	// alternative at a reduced search, it is forced -- extend the search by
	// one ply instead of reducing it like an ordinary single reply.
	hasTTMove := ttMove != (board.Move{})
	singularCandidate := depth >= singularMinDepth && hasTTMove && !pvNode

	var best board.Move
	var pv []board.Move
	hasLegalMove := false
	moveCount := 0
	bound := UpperBound
	var triedQuiets []board.Move

	var last board.Move
	if lm, ok := m.b.LastMove(); ok {
		last = lm
	}
	picker := NewMovePicker(m.b.Position(), m.b.Turn(), ttMove, ply, last, m.history)

	// A forced ponder line restricts this node to one candidate move, so a
	// caller (e.g. move-by-move analysis) can score a specific continuation
	// without exploring siblings.
	var forcedMove board.Move
	forced := len(m.ponder) > 0
	if forced {
		forcedMove = m.ponder[0]
	}

	for {
		move, ok := picker.Next()
		if !ok {
			break
		}
		if forced && !move.Equals(forcedMove) {
			continue
		}
		if ply == 0 && isExcluded(m.exclude, move) {
			continue
		}
		if !m.b.PushMove(move) {
			continue // skip: not legal
		}
		moveCount++
		isQuiet := !move.IsCapture() && !move.IsPromotion()
		givesCheck := m.b.Position().IsChecked(m.b.Turn())

		extend := 0
		if singularCandidate && move.Equals(ttMove) {
			extend = m.singularExtension(ctx, ply, depth, move, ttMove, beta)
		}

		if !pvNode && isQuiet && !inCheck && !givesCheck && depth <= futilityMaxDepth && moveCount > 1 {
			// Late move pruning: skip quiets well down the ordering once the
			// node is not going to be interesting at shallow remaining depth.
			if moveCount > lmpBase+depth*depth {
				m.b.PopMove()
				continue
			}
			// Futility pruning: a quiet move this far below alpha on the
			// static eval is most unlikely to recover.
			margin := eval.Score(futilityUnit * depth)
			if staticEval.IsHeuristic() && (staticEval + margin).Less(alpha) {
				m.b.PopMove()
				continue
			}
		}

		if isQuiet && !pvNode && !inCheck && !givesCheck && depth <= 8 && moveCount > 1 &&
			SEE(m.b.Position(), move) < seeMarginPerDepth*depth {
			// Skip clearly losing quiet moves at shallow depth.
			m.b.PopMove()
			continue
		}

		childDepth := depth - 1 + extend
		reduction := 0
		if isQuiet && !inCheck && !givesCheck && extend == 0 && moveCount > 1 && depth >= 3 {
			reduction = LMR(depth, moveCount)
			if pvNode {
				reduction--
			}
			if cutNode {
				reduction++
			}
			if reduction < 0 {
				reduction = 0
			}
			if reduction > childDepth-1 {
				reduction = childDepth - 1
			}
		}

		savedPonder := m.ponder
		if forced {
			m.ponder = m.ponder[1:]
		}

		// A PV node's first move stays on the PV and is searched with the
		// full window; every other move gets the cheap null-window test
		// first (step 11: PVS), re-searched at full depth and then, if it
		// still beats alpha inside the window, at the full window too.
		childCutNode := !cutNode
		if pvNode && moveCount == 1 {
			childCutNode = false
		}

		var score eval.Score
		var rem []board.Move
		if moveCount == 1 {
			score, rem = m.search(ctx, ply+1, childDepth, beta.Negate(), alpha.Negate(), pvNode, childCutNode)
			score = eval.IncrementMateDistance(score).Negate()
		} else {
			nullAlpha, nullBeta := alpha.Negate(), alpha.Negate()+1
			score, rem = m.search(ctx, ply+1, childDepth-reduction, nullAlpha, nullBeta, false, childCutNode)
			score = eval.IncrementMateDistance(score).Negate()

			if alpha.Less(score) && reduction > 0 {
				// Failed high on the reduced search: re-verify at full
				// depth, still inside the null window.
				score, rem = m.search(ctx, ply+1, childDepth, nullAlpha, nullBeta, false, childCutNode)
				score = eval.IncrementMateDistance(score).Negate()
			}

			if alpha.Less(score) && score.Less(beta) {
				// A genuine improvement inside the window: full PV
				// re-search (only possible at a PV node, since elsewhere
				// beta == alpha+1 leaves no room between them).
				score, rem = m.search(ctx, ply+1, childDepth, beta.Negate(), alpha.Negate(), pvNode, false)
				score = eval.IncrementMateDistance(score).Negate()
			}
		}
		m.ponder = savedPonder

		m.b.PopMove()
		hasLegalMove = true
		if isQuiet {
			triedQuiets = append(triedQuiets, move)
		}

		if alpha.Less(score) {
			alpha = score
			best = move
			pv = append([]board.Move{move}, rem...)
			bound = ExactBound
		}

		if !alpha.Less(beta) {
			bound = LowerBound
			if isQuiet {
				m.history.AddKiller(ply, move)
				m.history.Bonus(m.b.Turn(), move, triedQuiets, depth)
				m.history.SetCounter(m.b.Turn(), last, move)
			}
			break // beta cutoff
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return eval.MatedInPly(0), nil
		}
		return eval.ZeroScore, nil
	}

	m.tt.Write(hash, bound, m.b.Ply(), depth, alpha, best)
	return alpha, pv
}

// singularExtension probes whether the first (up to seven) legal moves other
// than ttMove all fail low against a search just below beta; if so ttMove is
// treated as forced and the node is extended rather than explored at
// ordinary depth.
func (m *runAlphaBeta) singularExtension(ctx context.Context, ply, depth int, candidate, ttMove board.Move, beta eval.Score) int {
	if !candidate.Equals(ttMove) {
		return 0
	}
	margin := eval.Score(depth)
	reducedBeta := beta - margin

	picker := NewMovePicker(m.b.Position(), m.b.Turn(), board.Move{}, ply, board.Move{}, m.history)
	tried := 0
	for {
		mv, ok := picker.Next()
		if !ok {
			break
		}
		if mv.Equals(ttMove) {
			continue
		}
		if !m.b.PushMove(mv) {
			continue
		}
		score, _ := m.search(ctx, ply+1, (depth-1)/2, reducedBeta.Negate(), reducedBeta.Negate()+1, false, true)
		m.b.PopMove()
		score = eval.IncrementMateDistance(score).Negate()
		tried++
		if !score.IsInvalid() && !score.Less(reducedBeta) {
			return 0 // some alternative holds up: not singular
		}
		if tried > 6 {
			break
		}
	}
	return 1
}

func hasNonPawnMaterial(pos *board.Position, c board.Color) bool {
	return pos.Board(c, board.Knight)|pos.Board(c, board.Bishop)|pos.Board(c, board.Rook)|pos.Board(c, board.Queen) != board.EmptyBitboard
}
