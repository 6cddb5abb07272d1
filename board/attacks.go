package board

import "math/bits"

// Ray directions. The first four increase the square index, the rest decrease it.
const (
	dirN = iota
	dirE
	dirNE
	dirNW
	dirS
	dirW
	dirSE
	dirSW
)

var oppositeDir = [8]int{
	dirN: dirS, dirE: dirW, dirNE: dirSW, dirNW: dirSE,
	dirS: dirN, dirW: dirE, dirSE: dirNW, dirSW: dirNE,
}

var dirDelta = [8][2]int{
	dirN: {1, 0}, dirE: {0, 1}, dirNE: {1, 1}, dirNW: {1, -1},
	dirS: {-1, 0}, dirW: {0, -1}, dirSE: {-1, 1}, dirSW: {-1, -1},
}

var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	pawnAttacks   [2][64]uint64

	// rays[dir][sq] excludes the origin square.
	rays [8][64]uint64

	betweenBB [64][64]uint64
	lineBB    [64][64]uint64
)

func init() {
	initLeaperTables()
	initRays()
	initLines()
}

func onBoard(rank, file int) bool { return rank >= 0 && rank < 8 && file >= 0 && file < 8 }

func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		rank, file := sq/8, sq%8
		for _, off := range knightOffsets {
			if onBoard(rank+off[0], file+off[1]) {
				knightAttacks[sq] |= 1 << uint((rank+off[0])*8+file+off[1])
			}
		}
		for _, off := range kingOffsets {
			if onBoard(rank+off[0], file+off[1]) {
				kingAttacks[sq] |= 1 << uint((rank+off[0])*8+file+off[1])
			}
		}
		b := uint64(1) << uint(sq)
		pawnAttacks[White][sq] = PawnAttacksBB(b, White)
		pawnAttacks[Black][sq] = PawnAttacksBB(b, Black)
	}
}

func initRays() {
	for sq := 0; sq < 64; sq++ {
		for dir, d := range dirDelta {
			var ray uint64
			for r, f := sq/8+d[0], sq%8+d[1]; onBoard(r, f); r, f = r+d[0], f+d[1] {
				ray |= 1 << uint(r*8+f)
			}
			rays[dir][sq] = ray
		}
	}
}

func initLines() {
	for a := 0; a < 64; a++ {
		for dir := 0; dir < 8; dir++ {
			ray := rays[dir][a]
			for r := ray; r != 0; {
				b := PopLSB(&r)
				betweenBB[a][b] = ray &^ rays[dir][b] &^ SquareBB(b)
				// full line through both squares, edge to edge
				lineBB[a][b] = ray | rays[oppositeDir[dir]][a] | SquareBB(Square(a))
			}
		}
	}
}

// slidingRay returns the attacks along one ray, stopping at the first blocker.
func slidingRay(dir int, sq Square, occ uint64) uint64 {
	ray := rays[dir][sq]
	blockers := ray & occ
	if blockers == 0 {
		return ray
	}
	var first int
	if dir < dirS {
		first = bits.TrailingZeros64(blockers)
	} else {
		first = 63 - bits.LeadingZeros64(blockers)
	}
	return ray &^ rays[dir][first]
}

// RookAttacks returns rook attacks from sq given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	return slidingRay(dirN, sq, occ) | slidingRay(dirS, sq, occ) |
		slidingRay(dirE, sq, occ) | slidingRay(dirW, sq, occ)
}

// BishopAttacks returns bishop attacks from sq given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return slidingRay(dirNE, sq, occ) | slidingRay(dirNW, sq, occ) |
		slidingRay(dirSE, sq, occ) | slidingRay(dirSW, sq, occ)
}

// QueenAttacks returns queen attacks from sq given occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

func KnightAttacks(sq Square) uint64 { return knightAttacks[sq] }
func KingAttacks(sq Square) uint64   { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }

// PieceAttacks returns the attack set of a piece of type pt and color c on sq.
func PieceAttacks(pt PieceType, c Color, sq Square, occ uint64) uint64 {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return QueenAttacks(sq, occ)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

// Between returns the squares strictly between a and b when they share a
// rank, file or diagonal, and zero otherwise.
func Between(a, b Square) uint64 { return betweenBB[a][b] }

// Line returns the full edge-to-edge line through a and b, or zero when
// the squares are not aligned.
func Line(a, b Square) uint64 { return lineBB[a][b] }

// Aligned reports whether c lies on the line through a and b.
func Aligned(a, b, c Square) bool { return lineBB[a][b]&SquareBB(c) != 0 }
