package engine

import "chess-core/board"

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},      // victim King
}

// Ordering offsets. History never leaves ±historyMax, so counters, killers
// and captures always sort above it.
const (
	queenPromoBonus int32 = 60
	captureOffset   int32 = 1 << 20
	killerOffset    int32 = 1 << 18
	counterOffset   int32 = 1 << 17
)

type pickerStage uint8

const (
	stageTT pickerStage = iota
	stageGenTactical
	stageGoodTactical
	stageGenQuiet
	stageQuiet
	stageBadTactical

	stageEvasionTT
	stageGenEvasions
	stageEvasions

	stageQSTT
	stageQSGenTactical
	stageQSTactical

	stageDone
)

// MovePicker yields the legal moves of a position one at a time in search
// order: TT move, good captures and queen promotions, killers, counter move,
// the remaining quiets by history, then losing captures and underpromotions.
// Each move is returned at most once. A picker is a large value; keep it on
// the caller's stack and reuse it through Init.
type MovePicker struct {
	pos    *board.Position
	sc     *SearchContext
	ttMove board.Move

	killer1, killer2, counter board.Move

	stage pickerStage
	list  board.MoveList
	idx   int

	bad          [board.MaxMoves]board.Move
	nBad, badIdx int
}

// Init prepares a main-search picker for ply.
func (mp *MovePicker) Init(p *board.Position, sc *SearchContext, ttMove board.Move, ply int) {
	mp.reset(p, sc, ttMove)
	if p.IsCheck() {
		mp.stage = stageEvasionTT
		return
	}
	mp.stage = stageTT
	mp.killer1, mp.killer2 = sc.Killers.Get(ply)
	mp.counter = sc.Counters.Get(p.SideToMove(), p.LastMove())
}

// InitQuiescence prepares a picker that only yields good tactical moves, or
// every evasion when the side to move is in check.
func (mp *MovePicker) InitQuiescence(p *board.Position, sc *SearchContext, ttMove board.Move) {
	mp.reset(p, sc, ttMove)
	if p.IsCheck() {
		mp.stage = stageEvasionTT
		return
	}
	if !ttMove.IsTactical() {
		mp.ttMove = board.NoMove
	}
	mp.stage = stageQSTT
}

func (mp *MovePicker) reset(p *board.Position, sc *SearchContext, ttMove board.Move) {
	mp.pos = p
	mp.sc = sc
	mp.ttMove = ttMove
	mp.killer1, mp.killer2, mp.counter = board.NoMove, board.NoMove, board.NoMove
	mp.list.Clear()
	mp.idx = 0
	mp.nBad, mp.badIdx = 0, 0
}

// Next returns the next move, or NoMove once every move has been yielded.
func (mp *MovePicker) Next() board.Move {
	for {
		switch mp.stage {
		case stageTT, stageEvasionTT, stageQSTT:
			mp.stage++
			if mp.ttMove != board.NoMove && mp.pos.IsLegal(mp.ttMove) {
				return mp.ttMove
			}
			mp.ttMove = board.NoMove

		case stageGenTactical, stageQSGenTactical:
			mp.list.Clear()
			mp.pos.GenerateTactical(&mp.list)
			mp.scoreTactical()
			mp.idx = 0
			mp.stage++

		case stageGoodTactical, stageQSTactical:
			for mp.idx < mp.list.Len() {
				m := mp.list.PickBest(mp.idx)
				mp.idx++
				if m == mp.ttMove {
					continue
				}
				if !mp.goodTactical(m) {
					if mp.stage == stageGoodTactical {
						mp.bad[mp.nBad] = m
						mp.nBad++
					}
					continue
				}
				return m
			}
			if mp.stage == stageQSTactical {
				mp.stage = stageDone
			} else {
				mp.stage++
			}

		case stageGenQuiet:
			mp.list.Clear()
			mp.pos.GenerateQuiet(&mp.list)
			mp.scoreQuiet()
			mp.idx = 0
			mp.stage++

		case stageQuiet, stageEvasions:
			for mp.idx < mp.list.Len() {
				m := mp.list.PickBest(mp.idx)
				mp.idx++
				if m != mp.ttMove {
					return m
				}
			}
			if mp.stage == stageEvasions {
				mp.stage = stageDone
			} else {
				mp.stage++
			}

		case stageBadTactical:
			if mp.badIdx < mp.nBad {
				mp.badIdx++
				return mp.bad[mp.badIdx-1]
			}
			mp.stage = stageDone

		case stageGenEvasions:
			mp.list.Clear()
			mp.pos.GenerateLegal(&mp.list)
			mp.scoreEvasions()
			mp.idx = 0
			mp.stage++

		default:
			return board.NoMove
		}
	}
}

func (mp *MovePicker) tacticalScore(m board.Move) int32 {
	victim := mp.pos.PieceAt(m.To()).Type()
	if m.Kind() == board.EnPassant {
		victim = board.Pawn
	}
	s := mvvLva[victim][m.Piece()]
	if m.Promotion() == board.Queen {
		s += queenPromoBonus
	}
	return s
}

func (mp *MovePicker) scoreTactical() {
	for i := 0; i < mp.list.Len(); i++ {
		mp.list.SetScore(i, mp.tacticalScore(mp.list.At(i)))
	}
}

// goodTactical keeps queen promotions and captures that do not lose material.
// Underpromotions are always deferred.
func (mp *MovePicker) goodTactical(m board.Move) bool {
	if m.IsPromotion() {
		if m.Promotion() != board.Queen {
			return false
		}
		if m.Kind() == board.Promotion {
			return true
		}
	}
	if m.Kind() != board.EnPassant && !m.IsPromotion() &&
		SeePieceValue[mp.pos.PieceAt(m.To()).Type()] >= SeePieceValue[m.Piece()] {
		return true
	}
	return SEE(mp.pos, m) >= 0
}

func (mp *MovePicker) scoreQuiet() {
	us := mp.pos.SideToMove()
	for i := 0; i < mp.list.Len(); i++ {
		m := mp.list.At(i)
		var s int32
		switch m {
		case mp.killer1:
			s = killerOffset + 2
		case mp.killer2:
			s = killerOffset + 1
		case mp.counter:
			s = counterOffset
		default:
			s = mp.sc.History.Score(us, m)
		}
		mp.list.SetScore(i, s)
	}
}

func (mp *MovePicker) scoreEvasions() {
	us := mp.pos.SideToMove()
	for i := 0; i < mp.list.Len(); i++ {
		m := mp.list.At(i)
		if m.IsTactical() {
			mp.list.SetScore(i, captureOffset+mp.tacticalScore(m))
		} else {
			mp.list.SetScore(i, mp.sc.History.Score(us, m))
		}
	}
}
