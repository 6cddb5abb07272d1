package engine

import "chess-core/board"

// SearchContext carries the move-ordering state of one search worker. It is
// threaded through the recursive search instead of living in package globals,
// so independent engines never share tables.
type SearchContext struct {
	Killers  KillerTable
	History  HistoryTable
	Counters CounterTable
}

// NewSearchContext returns zeroed tables.
func NewSearchContext() *SearchContext {
	return &SearchContext{}
}

// Age prepares the tables for a new search from a related position: history
// is halved and killers from the previous tree are dropped.
func (sc *SearchContext) Age() {
	sc.History.Age()
	sc.Killers.Clear()
}

// Clear forgets everything, as on a new game.
func (sc *SearchContext) Clear() {
	sc.Killers.Clear()
	sc.History.Clear()
	sc.Counters.Clear()
}

// UpdateQuiet rewards the quiet move best that failed high at ply and
// penalises the quiet moves tried before it.
func (sc *SearchContext) UpdateQuiet(p *board.Position, best board.Move, tried []board.Move, depth, ply int) {
	us := p.SideToMove()
	bonus := depth * depth
	sc.Killers.Insert(best, ply)
	sc.History.Update(us, best, bonus)
	sc.Counters.Store(us, p.LastMove(), best)
	for _, m := range tried {
		if m != best {
			sc.History.Update(us, m, -bonus)
		}
	}
}
