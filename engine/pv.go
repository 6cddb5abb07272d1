package engine

import (
	"strings"

	"chess-core/board"
)

// PVLine is a fixed-size principal variation buffer. Each search frame owns
// one and copies its child's line behind the move that raised alpha.
type PVLine struct {
	moves [MaxPly]board.Move
	n     int
}

func (pv *PVLine) Clear() { pv.n = 0 }

func (pv *PVLine) Len() int { return pv.n }

// Update sets the line to m followed by child.
func (pv *PVLine) Update(m board.Move, child *PVLine) {
	pv.moves[0] = m
	n := min(child.n, len(pv.moves)-1)
	copy(pv.moves[1:], child.moves[:n])
	pv.n = n + 1
}

// Moves returns a copy of the line.
func (pv *PVLine) Moves() []board.Move {
	return append([]board.Move(nil), pv.moves[:pv.n]...)
}

// Move returns the first move, or NoMove for an empty line.
func (pv *PVLine) Move() board.Move {
	if pv.n == 0 {
		return board.NoMove
	}
	return pv.moves[0]
}

func (pv *PVLine) String() string {
	return FormatPV(pv.moves[:pv.n])
}

// FormatPV joins moves in coordinate notation.
func FormatPV(moves []board.Move) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
