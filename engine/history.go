package engine

import "chess-core/board"

// historyMax bounds history scores so quiet ordering stays below killers.
const historyMax = 16384

// HistoryTable scores quiet moves by side, moving piece and destination.
// Updates use a gravity formula so scores saturate toward ±historyMax.
type HistoryTable struct {
	scores [2][7][64]int32
}

func (h *HistoryTable) Score(c board.Color, m board.Move) int32 {
	return h.scores[c][m.Piece()][m.To()]
}

// Update adds bonus (negative for a malus) to the entry for m.
func (h *HistoryTable) Update(c board.Color, m board.Move, bonus int) {
	bonus = Clamp(bonus, -historyMax, historyMax)
	e := &h.scores[c][m.Piece()][m.To()]
	*e += int32(bonus) - *e*int32(Abs(bonus))/historyMax
}

// Age halves every entry.
func (h *HistoryTable) Age() {
	for c := range h.scores {
		for pt := range h.scores[c] {
			for sq := range h.scores[c][pt] {
				h.scores[c][pt][sq] /= 2
			}
		}
	}
}

func (h *HistoryTable) Clear() {
	h.scores = [2][7][64]int32{}
}

// CounterTable remembers the quiet move that refuted the opponent's previous
// move, keyed by that move's piece and destination.
type CounterTable struct {
	moves [2][7][64]board.Move
}

func (ct *CounterTable) Get(c board.Color, prev board.Move) board.Move {
	if prev == board.NoMove {
		return board.NoMove
	}
	return ct.moves[c][prev.Piece()][prev.To()]
}

func (ct *CounterTable) Store(c board.Color, prev, m board.Move) {
	if prev != board.NoMove {
		ct.moves[c][prev.Piece()][prev.To()] = m
	}
}

func (ct *CounterTable) Clear() {
	ct.moves = [2][7][64]board.Move{}
}
