package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"chess-core/board"
)

// pollInterval is the node count between checks of the stop flag, the clock
// and the node limit. It must be a power of two.
const pollInterval = 2048

// Options configures a new Engine.
type Options struct {
	HashMB int
}

// Info reports one completed iteration.
type Info struct {
	Depth    int
	SelDepth int
	Score    int
	Nodes    uint64
	Time     time.Duration
	NPS      uint64
	HashFull int
	PV       []board.Move
}

// Result is the outcome of a search: the best move of the last completed
// iteration and its score from the side to move's point of view.
type Result struct {
	BestMove board.Move
	Score    int
	Depth    int
	Nodes    uint64
	PV       []board.Move
}

// Engine owns the tables that persist between searches. Searches on one
// Engine are serialized; use several engines for parallel analysis.
type Engine struct {
	mu    sync.Mutex
	tt    *TransTable
	sc    *SearchContext
	pawns *PawnTable
	stop  atomic.Bool
}

func NewEngine(opts Options) *Engine {
	mb := opts.HashMB
	if mb <= 0 {
		mb = DefaultHashMB
	}
	return &Engine{
		tt:    NewTransTable(mb),
		sc:    NewSearchContext(),
		pawns: NewPawnTable(),
	}
}

// NewGame forgets everything learned from earlier positions.
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
	e.sc.Clear()
	e.pawns.Clear()
}

// SetHashSize resizes the transposition table, discarding its content.
func (e *Engine) SetHashSize(mb int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Resize(mb)
}

// HashFull reports the transposition table occupancy in per mille.
func (e *Engine) HashFull() int {
	return e.tt.HashFull()
}

// Stop asks the running search to return as soon as possible. It is safe to
// call from any goroutine.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// searcher is the per-search state threaded through the recursion.
type searcher struct {
	pos    *board.Position
	tt     *TransTable
	sc     *SearchContext
	pawns  *PawnTable
	stop   *atomic.Bool
	limits Limits
	tm     timeManager

	nodes    uint64
	selDepth int
	stopped  bool
	evals    [MaxPly + 2]int
}

// Search runs iterative deepening on a copy of pos until a limit fires, ctx
// is cancelled or Stop is called. onInfo, if not nil, receives every
// completed iteration. With no legal move the result carries NoMove and the
// mate or stalemate score.
func (e *Engine) Search(ctx context.Context, pos *board.Position, limits Limits, onInfo func(Info)) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	e.stop.Store(false)
	defer context.AfterFunc(ctx, e.Stop)()

	s := &searcher{
		pos:    pos.Clone(),
		tt:     e.tt,
		sc:     e.sc,
		pawns:  e.pawns,
		stop:   &e.stop,
		limits: limits,
		tm:     newTimeManager(limits, pos, start),
	}
	p := s.pos

	if !p.HasLegalMoves() {
		if p.IsCheck() {
			return Result{BestMove: board.NoMove, Score: -MateScore}
		}
		return Result{BestMove: board.NoMove, Score: DrawScore}
	}

	e.tt.NewSearch()
	e.sc.Age()

	// Reported if the first iteration does not complete.
	var mp MovePicker
	ttMove := board.NoMove
	if entry, ok := e.tt.Probe(p.Hash(), 0); ok {
		ttMove = entry.Move
	}
	mp.Init(p, s.sc, ttMove, 0)
	result := Result{BestMove: mp.Next()}

	maxDepth := MaxPly - 1
	if limits.Depth > 0 {
		maxDepth = min(limits.Depth, maxDepth)
	}

	var pv PVLine
	score := 0
	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && s.tm.softExceeded(time.Now()) {
			break
		}
		s.selDepth = 0
		score = s.aspiration(depth, score, &pv)
		if s.stopped {
			break
		}

		result = Result{BestMove: pv.Move(), Score: score, Depth: depth, Nodes: s.nodes, PV: pv.Moves()}
		if onInfo != nil {
			elapsed := time.Since(start)
			onInfo(Info{
				Depth:    depth,
				SelDepth: s.selDepth,
				Score:    score,
				Nodes:    s.nodes,
				Time:     elapsed,
				NPS:      nps(s.nodes, elapsed),
				HashFull: e.tt.HashFull(),
				PV:       result.PV,
			})
		}

		// A proven mate cannot get shorter by searching deeper.
		if IsMateScore(score) && MateScore-Abs(score) <= depth && !limits.Infinite {
			break
		}
	}
	result.Nodes = s.nodes
	return result
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return uint64(float64(nodes) / elapsed.Seconds())
}

// aspiration searches depth inside a window around the previous score,
// doubling the window on every failure.
func (s *searcher) aspiration(depth, prev int, pv *PVLine) int {
	alpha, beta := -Infinity, Infinity
	delta := aspirationWindowSize
	if depth >= aspirationMinDepth {
		alpha = max(prev-delta, -Infinity)
		beta = min(prev+delta, Infinity)
	}
	for {
		score := s.alphaBeta(alpha, beta, depth, 0, true, pv)
		if s.stopped {
			return 0
		}
		switch {
		case score <= alpha:
			alpha = max(score-delta, -Infinity)
		case score >= beta:
			beta = min(score+delta, Infinity)
		default:
			return score
		}
		delta *= 2
	}
}

// poll is called every pollInterval nodes.
func (s *searcher) poll() {
	if s.stop.Load() ||
		(s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes) ||
		s.tm.hardExceeded(time.Now()) {
		s.stopped = true
	}
}

func (s *searcher) visit(ply int) {
	s.nodes++
	if s.nodes&(pollInterval-1) == 0 {
		s.poll()
	}
	s.selDepth = max(s.selDepth, ply)
}

func ttCutoff(e TTEntry, alpha, beta int) bool {
	switch e.Bound {
	case BoundExact:
		return true
	case BoundLower:
		return e.Score >= beta
	case BoundUpper:
		return e.Score <= alpha
	}
	return false
}

func (s *searcher) alphaBeta(alpha, beta, depth, ply int, doNull bool, pv *PVLine) int {
	pv.Clear()
	p := s.pos
	isPVNode := beta-alpha > 1
	isRoot := ply == 0

	if ply >= MaxPly-1 {
		return evaluate(p, s.pawns)
	}

	inCheck := p.IsCheck()
	// Check extension
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return s.quiescence(alpha, beta, ply, pv)
	}

	s.visit(ply)
	if s.stopped {
		return 0
	}

	if !isRoot {
		if p.IsDraw() {
			return DrawScore
		}
		// Mate distance pruning
		alpha = max(alpha, MatedIn(ply))
		beta = min(beta, MateIn(ply+1))
		if alpha >= beta {
			return alpha
		}
	}

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	ttMove := board.NoMove
	entry, ttHit := s.tt.Probe(p.Hash(), ply)
	if ttHit {
		ttMove = entry.Move
		if !isPVNode && entry.Depth >= depth && ttCutoff(entry, alpha, beta) {
			return entry.Score
		}
	}

	staticEval := -Infinity
	if !inCheck {
		staticEval = evaluate(p, s.pawns)
	}
	s.evals[ply] = staticEval
	improving := !inCheck && ply >= 2 && staticEval > s.evals[ply-2]

	if !isPVNode && !inCheck && !isRoot {
		/*
			If our position is so good that even after giving a margin to the opponent,
			we still beat beta, we can safely prune.
		*/
		if depth < len(RFPMargins) && !IsMateScore(beta) {
			if margin := rfpMargin(depth, improving); staticEval-margin >= beta {
				return staticEval - margin
			}
		}

		/*
			NULL MOVE PRUNING
			Skipped without knights, bishops, rooks or queens: pawn and king
			endings are where passing is most often the best move.
		*/
		if doNull && depth >= NullMoveMinDepth && staticEval >= beta && p.HasNonPawnMaterial(p.SideToMove()) {
			r := 3 + depth/3
			var child PVLine
			p.MakeNullMove()
			score := -s.alphaBeta(-beta, -beta+1, depth-1-r, ply+1, false, &child)
			p.UndoNullMove()
			if s.stopped {
				return 0
			}
			if score >= beta {
				if IsMateScore(score) {
					score = beta
				}
				return score
			}
		}
	}

	var mp MovePicker
	mp.Init(p, s.sc, ttMove, ply)

	var child PVLine
	var quiets [64]board.Move
	nQuiets := 0
	bestScore := -Infinity
	bestMove := board.NoMove
	bound := BoundUpper
	moveCount := 0
	us := p.SideToMove()

	for m := mp.Next(); m != board.NoMove; m = mp.Next() {
		moveCount++
		quiet := m.IsQuiet()
		history := s.sc.History.Score(us, m)
		givesCheck := p.GivesCheck(m)

		p.MakeMove(m)
		var score int
		if moveCount == 1 {
			score = -s.alphaBeta(-beta, -alpha, depth-1, ply+1, true, &child)
		} else {
			/*
				LATE MOVE REDUCTIONS
			*/
			r := 0
			if quiet && !inCheck && !givesCheck {
				r = lmrReduction(depth, moveCount, isPVNode, improving, history)
			}
			score = -s.alphaBeta(-alpha-1, -alpha, depth-1-r, ply+1, true, &child)
			if score > alpha && r > 0 {
				score = -s.alphaBeta(-alpha-1, -alpha, depth-1, ply+1, true, &child)
			}
			if score > alpha && score < beta {
				score = -s.alphaBeta(-beta, -alpha, depth-1, ply+1, true, &child)
			}
		}
		p.UndoMove()

		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				bestMove = m
				alpha = score
				bound = BoundExact
				pv.Update(m, &child)
				if score >= beta {
					bound = BoundLower
					if quiet {
						s.sc.UpdateQuiet(p, m, quiets[:nQuiets], depth, ply)
					}
					break
				}
			}
		}
		if quiet && nQuiets < len(quiets) {
			quiets[nQuiets] = m
			nQuiets++
		}
	}

	if moveCount == 0 {
		if inCheck {
			return MatedIn(ply)
		}
		return DrawScore
	}

	s.tt.Store(p.Hash(), bestMove, bestScore, bound, depth, ply)
	return bestScore
}

// quiescence resolves captures and promotions past the horizon. The side to
// move may stand pat unless it is in check, in which case every evasion is
// searched.
func (s *searcher) quiescence(alpha, beta, ply int, pv *PVLine) int {
	pv.Clear()
	p := s.pos

	s.visit(ply)
	if s.stopped {
		return 0
	}
	if p.IsDraw() {
		return DrawScore
	}
	if ply >= MaxPly-1 {
		return evaluate(p, s.pawns)
	}

	isPVNode := beta-alpha > 1
	ttMove := board.NoMove
	if entry, ok := s.tt.Probe(p.Hash(), ply); ok {
		ttMove = entry.Move
		if !isPVNode && ttCutoff(entry, alpha, beta) {
			return entry.Score
		}
	}

	inCheck := p.IsCheck()
	alphaOrig := alpha
	bestScore := -Infinity
	standPat := -Infinity
	if !inCheck {
		standPat = evaluate(p, s.pawns)
		if standPat >= beta {
			return standPat
		}
		alpha = max(alpha, standPat)
		bestScore = standPat
	}

	var mp MovePicker
	mp.InitQuiescence(p, s.sc, ttMove)

	var child PVLine
	bestMove := board.NoMove
	moveCount := 0
	for m := mp.Next(); m != board.NoMove; m = mp.Next() {
		moveCount++
		/*
			DELTA PRUNING
			If the capture + a margin still can't beat alpha, skip it.
		*/
		if !inCheck && !m.IsPromotion() {
			gain := pieceValueMG[board.Pawn]
			if m.Kind() != board.EnPassant {
				gain = pieceValueMG[p.PieceAt(m.To()).Type()]
			}
			if standPat+gain+DeltaMargin <= alpha {
				continue
			}
		}

		p.MakeMove(m)
		score := -s.quiescence(-beta, -alpha, ply+1, &child)
		p.UndoMove()
		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				bestMove = m
				pv.Update(m, &child)
				if score >= beta {
					break
				}
			}
		}
	}

	if inCheck && moveCount == 0 {
		return MatedIn(ply)
	}

	bound := BoundUpper
	switch {
	case bestScore >= beta:
		bound = BoundLower
	case bestScore > alphaOrig:
		bound = BoundExact
	}
	s.tt.Store(p.Hash(), bestMove, bestScore, bound, 0, ply)
	return bestScore
}
