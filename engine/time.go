package engine

import (
	"time"

	"chess-core/board"
)

// Limits bounds one search. Zero values mean "no limit" for every field; a
// search with no limit at all runs until stopped or MaxPly is reached.
type Limits struct {
	WTime, BTime time.Duration
	WInc, BInc   time.Duration
	MovesToGo    int
	Depth        int
	Nodes        uint64
	MoveTime     time.Duration
	Infinite     bool
}

// Engine-side safety knobs
const (
	moveOverhead = 30 * time.Millisecond // reserve for UCI/IO jitter
	minMoveTime  = 5 * time.Millisecond
	maxFrac      = 0.7 // never spend >70% of remaining time
	panicThresh  = time.Second
	panicFrac    = 0.9 // use 90% of inc in panic
	hardFactor   = 3
)

// timeManager holds the deadlines fixed at search start.
type timeManager struct {
	start time.Time
	soft  time.Time // no new iteration after this
	hard  time.Time // abort the running iteration
	timed bool
}

func newTimeManager(l Limits, p *board.Position, start time.Time) timeManager {
	tm := timeManager{start: start}
	if l.Infinite {
		return tm
	}
	if l.MoveTime > 0 {
		d := max(l.MoveTime-moveOverhead, minMoveTime)
		tm.timed = true
		tm.soft = start.Add(d)
		tm.hard = tm.soft
		return tm
	}
	rem, inc := l.WTime, l.WInc
	if p.SideToMove() == board.Black {
		rem, inc = l.BTime, l.BInc
	}
	if rem <= 0 {
		return tm
	}
	soft, hard := allocateTime(rem, inc, l.MovesToGo, GamePhase(p))
	tm.timed = true
	tm.soft = start.Add(soft)
	tm.hard = start.Add(hard)
	return tm
}

// allocateTime splits the remaining clock into a target (soft) and a
// ceiling (hard) for this move.
func allocateTime(rem, inc time.Duration, movesToGo, phase int) (soft, hard time.Duration) {
	movesLeft := estimateMovesRemaining(phase)
	if movesToGo > 0 {
		movesLeft = min(movesLeft, movesToGo)
	}

	switch {
	case inc > 0 && rem < panicThresh:
		// Panic: try to "bank" a little time
		soft = time.Duration(float64(inc) * panicFrac)
	case inc > 0:
		soft = rem/time.Duration(movesLeft) + inc
	case movesToGo > 0:
		soft = rem / time.Duration(movesLeft)
	default:
		soft = rem / 40
	}

	ceiling := min(time.Duration(float64(rem)*maxFrac), rem-moveOverhead)
	ceiling = max(ceiling, minMoveTime)
	soft = Clamp(soft, minMoveTime, ceiling)
	hard = Clamp(soft*hardFactor, minMoveTime, ceiling)
	return soft, hard
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (phase*25)/TotalPhase + 20
}

func (tm *timeManager) softExceeded(now time.Time) bool {
	return tm.timed && now.After(tm.soft)
}

func (tm *timeManager) hardExceeded(now time.Time) bool {
	return tm.timed && now.After(tm.hard)
}
