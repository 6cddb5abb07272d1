package engine

import "chess-core/board"

// KillerTable keeps two quiet moves per ply that caused a beta cutoff.
type KillerTable struct {
	moves [MaxPly + 1][2]board.Move
}

// Insert records m at ply, shifting the previous first killer down.
func (k *KillerTable) Insert(m board.Move, ply int) {
	if m != k.moves[ply][0] {
		k.moves[ply][1] = k.moves[ply][0]
		k.moves[ply][0] = m
	}
}

func (k *KillerTable) Get(ply int) (board.Move, board.Move) {
	return k.moves[ply][0], k.moves[ply][1]
}

func (k *KillerTable) Clear() {
	k.moves = [MaxPly + 1][2]board.Move{}
}
