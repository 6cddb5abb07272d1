package board

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
// The last ply is bulk counted from the generated list.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var ml MoveList
	p.GenerateLegal(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for _, m := range ml.Moves() {
		p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UndoMove()
	}
	return nodes
}

// DivideEntry is the leaf count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs perft below every root move. Entries are sorted by move text.
func (p *Position) Divide(depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}
	var ml MoveList
	p.GenerateLegal(&ml)
	out := make([]DivideEntry, 0, ml.Len())
	for _, m := range ml.Moves() {
		p.MakeMove(m)
		out = append(out, DivideEntry{Move: m, Nodes: p.Perft(depth - 1)})
		p.UndoMove()
	}
	SortDivide(out)
	return out
}

// SortDivide orders divide output by move text.
func SortDivide(entries []DivideEntry) {
	slices.SortFunc(entries, func(a, b DivideEntry) int {
		return strings.Compare(a.Move.String(), b.Move.String())
	})
}

// DivideTotal sums a divide result.
func DivideTotal(entries []DivideEntry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	return total
}
