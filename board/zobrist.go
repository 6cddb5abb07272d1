package board

import "math/rand"

// Zobrist keys. The castling table is built from four per-right keys so that
// castleKeys[a] ^ castleKeys[b] toggles exactly the rights that changed.
var (
	pieceKeys  [16][64]uint64
	castleKeys [16]uint64
	epKeys     [8]uint64
	sideKey    uint64
)

func init() {
	initZobrist()
}

func initZobrist() {
	// Fixed seed so hashes are reproducible across runs and tests.
	rnd := rand.New(rand.NewSource(0xC0DE))

	for p := 0; p < 16; p++ {
		for sq := 0; sq < 64; sq++ {
			pieceKeys[p][sq] = rnd.Uint64()
		}
	}
	var rightKeys [4]uint64
	for i := range rightKeys {
		rightKeys[i] = rnd.Uint64()
	}
	for cr := 0; cr < 16; cr++ {
		for i := 0; i < 4; i++ {
			if cr&(1<<i) != 0 {
				castleKeys[cr] ^= rightKeys[i]
			}
		}
	}
	for f := 0; f < 8; f++ {
		epKeys[f] = rnd.Uint64()
	}
	sideKey = rnd.Uint64()
}

// ComputeHash recalculates the Zobrist key from scratch.
func (p *Position) ComputeHash() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			key ^= pieceKeys[pc][sq]
		}
	}
	if p.side == Black {
		key ^= sideKey
	}
	key ^= castleKeys[p.castling]
	if p.ep != NoSquare {
		key ^= epKeys[p.ep.File()]
	}
	return key
}
