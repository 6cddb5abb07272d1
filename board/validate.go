package board

import (
	"errors"
	"fmt"
)

// Validate checks every redundant piece of state against the others and
// returns the first inconsistency found.
func (p *Position) Validate() error {
	if p.colorBB[White]&p.colorBB[Black] != 0 {
		return errors.New("color bitboards overlap")
	}
	if p.pieceBB[NoPieceType] != 0 {
		return errors.New("sentinel bitboard is not empty")
	}
	var union uint64
	for pt := Pawn; pt <= King; pt++ {
		if union&p.pieceBB[pt] != 0 {
			return fmt.Errorf("%s bitboard overlaps another type", pt)
		}
		union |= p.pieceBB[pt]
	}
	if union != p.Occupied() {
		return errors.New("type and color occupancy disagree")
	}
	for sq := Square(0); sq < 64; sq++ {
		pc := p.squares[sq]
		b := SquareBB(sq)
		if pc == NoPiece {
			if union&b != 0 {
				return fmt.Errorf("square %s empty but set in bitboards", sq)
			}
			continue
		}
		if p.pieceBB[pc.Type()]&b == 0 || p.colorBB[pc.Color()]&b == 0 {
			return fmt.Errorf("square %s holds %s but bitboards disagree", sq, pc)
		}
	}
	for c := White; c <= Black; c++ {
		kings := p.Pieces(c, King)
		if PopCount(kings) != 1 {
			return fmt.Errorf("%s has %d kings", c, PopCount(kings))
		}
		if LSB(kings) != p.kingSq[c] {
			return fmt.Errorf("%s king cache %s, king on %s", c, p.kingSq[c], LSB(kings))
		}
	}
	if p.pieceBB[Pawn]&(Rank1|Rank8) != 0 {
		return errors.New("pawn on back rank")
	}
	if p.ep != NoSquare {
		if p.ep.RelativeRank(p.side) != 5 {
			return fmt.Errorf("en-passant square %s on wrong rank", p.ep)
		}
		if p.squares[p.ep] != NoPiece || p.squares[p.ep-pawnPush[p.side]] != NewPiece(p.side.Other(), Pawn) {
			return fmt.Errorf("en-passant square %s without a pushed pawn", p.ep)
		}
	}
	for c := White; c <= Black; c++ {
		for i := 0; i < 2; i++ {
			if p.castling&castleRight[c][i] == 0 {
				continue
			}
			if p.squares[castleKingSq[c]] != NewPiece(c, King) || p.squares[castleRookSq[c][i]] != NewPiece(c, Rook) {
				return fmt.Errorf("castling right %s without king and rook at home", castleRight[c][i])
			}
		}
	}
	if p.halfmove < 0 || p.fullmove < 1 {
		return fmt.Errorf("bad clocks %d/%d", p.halfmove, p.fullmove)
	}
	if p.gamePly < 0 || p.gamePly > len(p.history) {
		return fmt.Errorf("game ply %d outside history", p.gamePly)
	}
	if h := p.ComputeHash(); h != p.hash {
		return fmt.Errorf("hash %016x, recomputed %016x", p.hash, h)
	}
	return nil
}
