package board

// Move is a packed move value. Use the accessors; the bit layout is private.
type Move uint32

// MoveKind tags what a move does to the board.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	DoublePush
	Capture
	EnPassant
	KingCastle
	QueenCastle
	Promotion
	PromotionCapture
)

var moveKindNames = [...]string{"quiet", "double-push", "capture", "en-passant", "king-castle", "queen-castle", "promotion", "promotion-capture"}

func (k MoveKind) String() string {
	if int(k) < len(moveKindNames) {
		return moveKindNames[k]
	}
	return "invalid"
}

const (
	moveToShift    = 6
	movePieceShift = 12
	movePromoShift = 15
	moveKindShift  = 18

	moveDataBits = 21
)

// NoMove is the zero move. It never matches a generated move because its
// piece type is empty.
const NoMove Move = 0

// MaxMoves bounds the number of legal moves in any reachable position (218).
const MaxMoves = 256

// NewMove packs a move. promo is NoPieceType unless kind is a promotion.
func NewMove(from, to Square, piece PieceType, promo PieceType, kind MoveKind) Move {
	return Move(uint32(from) |
		uint32(to)<<moveToShift |
		uint32(piece)<<movePieceShift |
		uint32(promo)<<movePromoShift |
		uint32(kind)<<moveKindShift)
}

func (m Move) From() Square         { return Square(m & 0x3F) }
func (m Move) To() Square           { return Square((m >> moveToShift) & 0x3F) }
func (m Move) Piece() PieceType     { return PieceType((m >> movePieceShift) & 7) }
func (m Move) Promotion() PieceType { return PieceType((m >> movePromoShift) & 7) }
func (m Move) Kind() MoveKind       { return MoveKind((m >> moveKindShift) & 7) }

// Bits returns the packed value for storage in hash tables. FromBits reverses it.
func (m Move) Bits() uint64 { return uint64(m) & (1<<moveDataBits - 1) }

// FromBits rebuilds a move stored with Bits.
func FromBits(v uint64) Move { return Move(v & (1<<moveDataBits - 1)) }

func (m Move) IsCapture() bool {
	k := m.Kind()
	return k == Capture || k == EnPassant || k == PromotionCapture
}

func (m Move) IsPromotion() bool {
	k := m.Kind()
	return k == Promotion || k == PromotionCapture
}

func (m Move) IsCastle() bool {
	k := m.Kind()
	return k == KingCastle || k == QueenCastle
}

// IsQuiet reports moves that neither capture nor promote.
func (m Move) IsQuiet() bool { return !m.IsCapture() && !m.IsPromotion() }

// IsTactical is the complement of IsQuiet.
func (m Move) IsTactical() bool { return !m.IsQuiet() }

// String returns coordinate notation such as "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += m.Promotion().String()
	}
	return s
}

// MoveList is a fixed-capacity move buffer with parallel ordering scores.
type MoveList struct {
	moves  [MaxMoves]Move
	scores [MaxMoves]int32
	n      int
}

// Add appends a move. Exceeding MaxMoves is a logic error and panics.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.n] = m
	ml.scores[ml.n] = 0
	ml.n++
}

func (ml *MoveList) Len() int                { return ml.n }
func (ml *MoveList) At(i int) Move           { return ml.moves[i] }
func (ml *MoveList) Score(i int) int32       { return ml.scores[i] }
func (ml *MoveList) SetScore(i int, s int32) { ml.scores[i] = s }
func (ml *MoveList) Clear()                  { ml.n = 0 }
func (ml *MoveList) Moves() []Move           { return ml.moves[:ml.n] }

// Swap exchanges two entries together with their scores.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
	ml.scores[i], ml.scores[j] = ml.scores[j], ml.scores[i]
}

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// PickBest moves the highest scored entry in [start, Len) to start and
// returns it. Ties keep generation order.
func (ml *MoveList) PickBest(start int) Move {
	best := start
	for i := start + 1; i < ml.n; i++ {
		if ml.scores[i] > ml.scores[best] {
			best = i
		}
	}
	if best != start {
		ml.Swap(start, best)
	}
	return ml.moves[start]
}

// GivesCheck reports whether the legal move m checks the opponent. The board
// is not mutated; the post-move occupancy is simulated.
func (p *Position) GivesCheck(m Move) bool {
	us := p.side
	them := us.Other()
	ksq := p.kingSq[them]
	from, to := m.From(), m.To()

	occ := p.Occupied()&^SquareBB(from) | SquareBB(to)
	pt := m.Piece()
	if m.IsPromotion() {
		pt = m.Promotion()
	}
	diag := (p.pieceBB[Bishop] | p.pieceBB[Queen]) & p.colorBB[us] &^ SquareBB(from)
	orth := (p.pieceBB[Rook] | p.pieceBB[Queen]) & p.colorBB[us] &^ SquareBB(from)

	switch m.Kind() {
	case EnPassant:
		occ &^= SquareBB(to - pawnPush[us])
	case KingCastle, QueenCastle:
		rookFrom, rookTo := castleRookSquares(us, m.Kind())
		occ = occ&^SquareBB(rookFrom) | SquareBB(rookTo)
		orth = orth&^SquareBB(rookFrom) | SquareBB(rookTo)
	}
	switch pt {
	case Pawn:
		if pawnAttacks[us][to]&SquareBB(ksq) != 0 {
			return true
		}
	case Knight:
		if knightAttacks[to]&SquareBB(ksq) != 0 {
			return true
		}
	case Bishop:
		diag |= SquareBB(to)
	case Rook:
		orth |= SquareBB(to)
	case Queen:
		diag |= SquareBB(to)
		orth |= SquareBB(to)
	}
	return BishopAttacks(ksq, occ)&diag != 0 || RookAttacks(ksq, occ)&orth != 0
}
