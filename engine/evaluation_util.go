package engine

import "chess-core/board"

// =============================================================================
// PAWN HASH TABLE
// =============================================================================

const PawnHashSize = 1 << 14

// pawnEntry caches everything the evaluator derives from the pawn skeleton.
type pawnEntry struct {
	whitePawns uint64
	blackPawns uint64
	valid      bool

	attacks   [2]uint64
	pawnFiles [2]uint64 // full files holding at least one pawn
	passed    [2]uint64

	mg, eg [2]int
}

// PawnTable is a direct-mapped cache of pawn structure scores. It belongs to
// one search worker; a nil table computes every entry from scratch.
type PawnTable struct {
	entries []pawnEntry
}

func NewPawnTable() *PawnTable {
	return &PawnTable{entries: make([]pawnEntry, PawnHashSize)}
}

// Clear resets the pawn hash table (use at start of a new game)
func (pt *PawnTable) Clear() {
	clear(pt.entries)
}

// Compute index into pawn hash table from pawn bitboards (mix bits for distribution)
func pawnHashIndex(whitePawns, blackPawns uint64) uint64 {
	const goldenRatio = 0x9E3779B97F4A7C15
	hash := whitePawns ^ (blackPawns * goldenRatio)
	hash ^= hash >> 33
	hash *= 0xFF51AFD7ED558CCD
	hash ^= hash >> 33
	return hash & (PawnHashSize - 1)
}

func (pt *PawnTable) entry(p *board.Position) *pawnEntry {
	wp, bp := p.Pieces(board.White, board.Pawn), p.Pieces(board.Black, board.Pawn)
	if pt == nil {
		e := computePawnEntry(wp, bp)
		return &e
	}
	e := &pt.entries[pawnHashIndex(wp, bp)]
	if !e.valid || e.whitePawns != wp || e.blackPawns != bp {
		*e = computePawnEntry(wp, bp)
	}
	return e
}

func computePawnEntry(wp, bp uint64) pawnEntry {
	e := pawnEntry{whitePawns: wp, blackPawns: bp, valid: true}
	pawns := [2]uint64{wp, bp}
	for _, c := range [2]board.Color{board.White, board.Black} {
		e.attacks[c] = board.PawnAttacksBB(pawns[c], c)
		e.pawnFiles[c] = board.FillForward(pawns[c], board.White) | board.FillForward(pawns[c], board.Black)
	}
	for _, c := range [2]board.Color{board.White, board.Black} {
		own, enemy := pawns[c], pawns[c.Other()]
		neighbours := board.ShiftE(e.pawnFiles[c]) | board.ShiftW(e.pawnFiles[c])
		for bb := own; bb != 0; {
			sq := board.PopLSB(&bb)
			idx := relativeSquare(sq, c)
			e.mg[c] += pieceValueMG[board.Pawn] + psqtMG[board.Pawn][idx]
			e.eg[c] += pieceValueEG[board.Pawn] + psqtEG[board.Pawn][idx]

			if board.SquareBB(sq)&neighbours == 0 {
				e.mg[c] -= IsolatedPawnMG
				e.eg[c] -= IsolatedPawnEG
			}
			front := board.FillForward(board.ShiftForward(board.SquareBB(sq), c), c)
			if front&own != 0 {
				e.mg[c] -= PawnDoubledMG
				e.eg[c] -= PawnDoubledEG
				continue
			}
			if (front|board.ShiftE(front)|board.ShiftW(front))&enemy == 0 {
				e.passed[c] |= board.SquareBB(sq)
				e.mg[c] += passedMG[idx]
				e.eg[c] += passedEG[idx]
			}
		}
	}
	return e
}
