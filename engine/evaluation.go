package engine

import "chess-core/board"

// Game phase weights for interpolation
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

var phaseWeight = [7]int{board.Knight: KnightPhase, board.Bishop: BishopPhase, board.Rook: RookPhase, board.Queen: QueenPhase}

// Piece base values (midgame/endgame) and mobility values
var pieceValueMG = [7]int{board.Pawn: 88, board.Knight: 316, board.Bishop: 331, board.Rook: 494, board.Queen: 993}
var pieceValueEG = [7]int{board.Pawn: 111, board.Knight: 305, board.Bishop: 333, board.Rook: 535, board.Queen: 963}
var mobilityValueMG = [7]int{board.Knight: 2, board.Bishop: 3, board.Rook: 2, board.Queen: 1}
var mobilityValueEG = [7]int{board.Knight: 3, board.Bishop: 2, board.Rook: 4, board.Queen: 4}

var (
	BishopPairBonusMG = 10
	BishopPairBonusEG = 50

	RookSemiOpenMG = 13
	RookOpenMG     = 30

	IsolatedPawnMG = 6
	IsolatedPawnEG = 7
	PawnDoubledMG  = 4
	PawnDoubledEG  = 17

	TempoBonus = 10
)

// taper is a midgame/endgame pair.
type taper struct{ mg, eg int }

func (s *taper) add(mg, eg int) {
	s.mg += mg
	s.eg += eg
}

// GamePhase returns the remaining non-pawn material weight, TotalPhase at the
// start and 0 with bare pawns.
func GamePhase(p *board.Position) int {
	phase := 0
	for pt := board.Knight; pt <= board.Queen; pt++ {
		phase += board.PopCount(p.ByType(pt)) * phaseWeight[pt]
	}
	return min(phase, TotalPhase)
}

// Evaluate returns the static score of p in centipawns from the side to
// move's point of view.
func Evaluate(p *board.Position) int {
	return evaluate(p, nil)
}

func evaluate(p *board.Position, pawns *PawnTable) int {
	var total taper
	pe := pawns.entry(p)
	for _, c := range [2]board.Color{board.White, board.Black} {
		s := evaluateSide(p, c, pe)
		if c == board.White {
			total.add(s.mg, s.eg)
		} else {
			total.add(-s.mg, -s.eg)
		}
	}
	if p.SideToMove() == board.Black {
		total.mg, total.eg = -total.mg, -total.eg
	}
	total.add(TempoBonus, TempoBonus)

	phase := GamePhase(p)
	return (total.mg*phase + total.eg*(TotalPhase-phase)) / TotalPhase
}

func evaluateSide(p *board.Position, c board.Color, pe *pawnEntry) taper {
	var s taper
	them := c.Other()
	own := p.ByColor(c)
	occ := p.Occupied()
	enemyPawnAttacks := pe.attacks[them]

	s.add(pe.mg[c], pe.eg[c])

	for pt := board.Knight; pt <= board.King; pt++ {
		for bb := p.Pieces(c, pt); bb != 0; {
			sq := board.PopLSB(&bb)
			idx := relativeSquare(sq, c)
			s.add(pieceValueMG[pt]+psqtMG[pt][idx], pieceValueEG[pt]+psqtEG[pt][idx])
			if pt == board.King {
				continue
			}
			mob := board.PopCount(board.PieceAttacks(pt, c, sq, occ) &^ own &^ enemyPawnAttacks)
			s.add(mob*mobilityValueMG[pt], mob*mobilityValueEG[pt])
			if pt == board.Rook {
				file := board.FileMask(sq.File())
				switch {
				case file&pe.pawnFiles[c] == 0 && file&pe.pawnFiles[them] == 0:
					s.add(RookOpenMG, 0)
				case file&pe.pawnFiles[c] == 0:
					s.add(RookSemiOpenMG, 0)
				}
			}
		}
	}

	if board.MoreThanOne(p.Pieces(c, board.Bishop)) {
		s.add(BishopPairBonusMG, BishopPairBonusEG)
	}
	return s
}

func relativeSquare(sq board.Square, c board.Color) board.Square {
	if c == board.White {
		return sq
	}
	return sq.Mirror()
}
