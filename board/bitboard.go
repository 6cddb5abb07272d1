package board

import "math/bits"

const (
	FileA uint64 = 0x0101010101010101
	FileB        = FileA << 1
	FileG        = FileA << 6
	FileH        = FileA << 7

	Rank1 uint64 = 0xFF
	Rank2        = Rank1 << 8
	Rank3        = Rank1 << 16
	Rank4        = Rank1 << 24
	Rank5        = Rank1 << 32
	Rank6        = Rank1 << 40
	Rank7        = Rank1 << 48
	Rank8        = Rank1 << 56
)

// FileMask returns the bitboard of the given file (0 = a).
func FileMask(file int) uint64 { return FileA << uint(file) }

// RankMask returns the bitboard of the given rank (0 = first rank).
func RankMask(rank int) uint64 { return Rank1 << (8 * uint(rank)) }

// SquareBB returns a bitboard with only sq set.
func SquareBB(sq Square) uint64 { return 1 << uint(sq) }

// PopCount counts set bits.
func PopCount(b uint64) int { return bits.OnesCount64(b) }

// LSB returns the lowest set square. b must be non-zero.
func LSB(b uint64) Square { return Square(bits.TrailingZeros64(b)) }

// MSB returns the highest set square. b must be non-zero.
func MSB(b uint64) Square { return Square(63 - bits.LeadingZeros64(b)) }

// PopLSB removes and returns the lowest set square.
func PopLSB(b *uint64) Square {
	sq := Square(bits.TrailingZeros64(*b))
	*b &= *b - 1
	return sq
}

// MoreThanOne reports whether at least two bits are set.
func MoreThanOne(b uint64) bool { return b&(b-1) != 0 }

func ShiftN(b uint64) uint64  { return b << 8 }
func ShiftS(b uint64) uint64  { return b >> 8 }
func ShiftE(b uint64) uint64  { return (b &^ FileH) << 1 }
func ShiftW(b uint64) uint64  { return (b &^ FileA) >> 1 }
func ShiftNE(b uint64) uint64 { return (b &^ FileH) << 9 }
func ShiftNW(b uint64) uint64 { return (b &^ FileA) << 7 }
func ShiftSE(b uint64) uint64 { return (b &^ FileH) >> 7 }
func ShiftSW(b uint64) uint64 { return (b &^ FileA) >> 9 }

// ShiftForward moves every bit one rank toward c's promotion rank.
func ShiftForward(b uint64, c Color) uint64 {
	if c == White {
		return b << 8
	}
	return b >> 8
}

// PawnAttacksBB returns the squares attacked by all pawns in b belonging to c.
func PawnAttacksBB(b uint64, c Color) uint64 {
	if c == White {
		return ShiftNE(b) | ShiftNW(b)
	}
	return ShiftSE(b) | ShiftSW(b)
}

// FillForward smears every bit toward c's promotion rank, including the origin.
func FillForward(b uint64, c Color) uint64 {
	if c == White {
		b |= b << 8
		b |= b << 16
		b |= b << 32
		return b
	}
	b |= b >> 8
	b |= b >> 16
	b |= b >> 32
	return b
}

// FlipVertical mirrors a bitboard across the horizontal midline.
func FlipVertical(b uint64) uint64 { return bits.ReverseBytes64(b) }
