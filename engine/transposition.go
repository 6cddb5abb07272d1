package engine

import (
	"sync/atomic"

	"chess-core/board"
)

// Bound tells how a stored score relates to the true value.
type Bound uint8

const (
	BoundNone  Bound = iota
	BoundUpper       // failed low: score is at most this
	BoundLower       // failed high: score is at least this
	BoundExact
)

const (
	DefaultHashMB = 64
	MaxHashMB     = 4096

	clusterSize = 4
	slotBytes   = 16

	// empty slots are always the cheapest to replace
	emptySlotValue = -1 << 20
)

// TTEntry is the decoded content of one table slot.
type TTEntry struct {
	Move  board.Move
	Score int
	Depth int
	Bound Bound
}

// ttSlot holds key^data and data. A reader accepts the slot only when the
// xor verifies, so a slot torn by concurrent writers reads as a miss.
type ttSlot struct {
	check atomic.Uint64
	data  atomic.Uint64
}

// data word layout
const (
	ttScoreShift = 21
	ttDepthShift = 37
	ttBoundShift = 45
	ttGenShift   = 47
)

func packEntry(move board.Move, score, depth int, bound Bound, gen uint8) uint64 {
	return move.Bits() |
		uint64(uint16(int16(score)))<<ttScoreShift |
		uint64(uint8(int8(depth)))<<ttDepthShift |
		uint64(bound&3)<<ttBoundShift |
		uint64(gen)<<ttGenShift
}

func unpackEntry(data uint64) (TTEntry, uint8) {
	return TTEntry{
		Move:  board.FromBits(data),
		Score: int(int16(uint16(data >> ttScoreShift))),
		Depth: int(int8(uint8(data >> ttDepthShift))),
		Bound: Bound((data >> ttBoundShift) & 3),
	}, uint8(data >> ttGenShift)
}

// TransTable is a bucketed, lock-free transposition table. It may be shared
// between searches running on different goroutines.
type TransTable struct {
	slots      []ttSlot
	mask       uint64
	generation uint8
}

// NewTransTable allocates a table of about mb MiB.
func NewTransTable(mb int) *TransTable {
	tt := &TransTable{}
	tt.Resize(mb)
	return tt
}

// Resize reallocates the table, dropping every entry. The bucket count is
// rounded down to a power of two.
func (tt *TransTable) Resize(mb int) {
	mb = Clamp(mb, 1, MaxHashMB)
	buckets := uint64(mb) * 1024 * 1024 / (slotBytes * clusterSize)
	n := uint64(1)
	for n*2 <= buckets {
		n *= 2
	}
	tt.slots = make([]ttSlot, n*clusterSize)
	tt.mask = n - 1
	tt.generation = 0
}

// Clear zeroes every entry. Used for a new game.
func (tt *TransTable) Clear() {
	for i := range tt.slots {
		tt.slots[i].check.Store(0)
		tt.slots[i].data.Store(0)
	}
	tt.generation = 0
}

// NewSearch advances the generation so older entries lose replacement priority.
func (tt *TransTable) NewSearch() { tt.generation++ }

func (tt *TransTable) bucket(hash uint64) []ttSlot {
	base := (hash & tt.mask) * clusterSize
	return tt.slots[base : base+clusterSize]
}

// Probe looks up hash and converts a mate score to be relative to ply.
func (tt *TransTable) Probe(hash uint64, ply int) (TTEntry, bool) {
	slots := tt.bucket(hash)
	for i := range slots {
		s := &slots[i]
		data := s.data.Load()
		if data == 0 || s.check.Load()^data != hash {
			continue
		}
		e, _ := unpackEntry(data)
		e.Score = ScoreFromTT(e.Score, ply)
		return e, true
	}
	return TTEntry{}, false
}

// Store records a search result. An entry for the same position is
// refreshed unless it holds a much deeper result from this search; otherwise
// the slot with the lowest depth, discounted by age, is evicted.
func (tt *TransTable) Store(hash uint64, move board.Move, score int, bound Bound, depth, ply int) {
	slots := tt.bucket(hash)
	depth = Clamp(depth, -1, 127)
	var victim *ttSlot
	victimValue := int(^uint(0) >> 1)
	for i := range slots {
		s := &slots[i]
		data := s.data.Load()
		if data == 0 {
			if victimValue > emptySlotValue {
				victim, victimValue = s, emptySlotValue
			}
			continue
		}
		old, gen := unpackEntry(data)
		if s.check.Load()^data == hash {
			if bound != BoundExact && gen == tt.generation && depth+2 < old.Depth {
				return
			}
			if move == board.NoMove {
				move = old.Move
			}
			victim = s
			break
		}
		age := int(tt.generation - gen)
		if v := old.Depth - 4*age; v < victimValue {
			victim, victimValue = s, v
		}
	}
	data := packEntry(move, ScoreToTT(score, ply), depth, bound, tt.generation)
	victim.data.Store(data)
	victim.check.Store(hash ^ data)
}

// HashFull estimates the per-mille share of slots written in the current generation.
func (tt *TransTable) HashFull() int {
	n := min(1000, len(tt.slots))
	used := 0
	for i := 0; i < n; i++ {
		data := tt.slots[i].data.Load()
		if data == 0 {
			continue
		}
		if _, gen := unpackEntry(data); gen == tt.generation {
			used++
		}
	}
	return used * 1000 / n
}
