package board

import "strings"

// generation modes
const (
	genTactical = 1 << iota
	genQuiet
	genAll = genTactical | genQuiet
)

var promoTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// GenerateLegal appends every legal move. In check only evasions exist.
func (p *Position) GenerateLegal(ml *MoveList) { p.generate(ml, genAll) }

// GenerateTactical appends legal captures, en-passant captures and all promotions.
func (p *Position) GenerateTactical(ml *MoveList) { p.generate(ml, genTactical) }

// GenerateQuiet appends the legal moves GenerateTactical leaves out.
func (p *Position) GenerateQuiet(ml *MoveList) { p.generate(ml, genQuiet) }

// LegalMoves returns the legal moves as a fresh slice.
func (p *Position) LegalMoves() []Move {
	var ml MoveList
	p.GenerateLegal(&ml)
	return append([]Move(nil), ml.Moves()...)
}

// HasLegalMoves reports whether the side to move can move at all.
func (p *Position) HasLegalMoves() bool {
	var ml MoveList
	p.GenerateLegal(&ml)
	return ml.Len() > 0
}

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool { return p.IsCheck() && !p.HasLegalMoves() }

// IsStalemate reports whether the side to move has no moves and is not in check.
func (p *Position) IsStalemate() bool { return !p.IsCheck() && !p.HasLegalMoves() }

// IsLegal reports whether m is a legal move here. Candidates from hash
// tables or killer slots may come from other positions and are checked
// against the generated set.
func (p *Position) IsLegal(m Move) bool {
	if m == NoMove {
		return false
	}
	pc := p.squares[m.From()]
	if pc == NoPiece || pc.Color() != p.side || pc.Type() != m.Piece() {
		return false
	}
	var ml MoveList
	if m.IsTactical() {
		p.GenerateTactical(&ml)
	} else {
		p.GenerateQuiet(&ml)
	}
	return ml.Contains(m)
}

// ParseMove resolves coordinate text such as "e2e4" or "a7a8q" against the
// legal moves of the position.
func (p *Position) ParseMove(text string) (Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) < 4 || len(text) > 5 {
		return NoMove, &MoveError{Text: text, Reason: "malformed"}
	}
	var ml MoveList
	p.GenerateLegal(&ml)
	for _, m := range ml.Moves() {
		if m.String() == text {
			return m, nil
		}
	}
	return NoMove, &MoveError{Text: text, Reason: "illegal in " + p.FEN()}
}

func (p *Position) generate(ml *MoveList, mode int) {
	us := p.side
	them := us.Other()
	ksq := p.kingSq[us]
	occ := p.Occupied()
	own := p.colorBB[us]
	enemy := p.colorBB[them]
	checkers := p.Checkers()

	// King steps are checked against occupancy without the king so that
	// retreating along a checking ray is rejected.
	kingTargets := kingAttacks[ksq] &^ own
	if mode&genTactical == 0 {
		kingTargets &^= enemy
	}
	if mode&genQuiet == 0 {
		kingTargets &= enemy
	}
	occNoKing := occ &^ SquareBB(ksq)
	for kingTargets != 0 {
		to := PopLSB(&kingTargets)
		if p.squareAttackedOcc(them, to, occNoKing) {
			continue
		}
		if enemy&SquareBB(to) != 0 {
			ml.Add(NewMove(ksq, to, King, NoPieceType, Capture))
		} else {
			ml.Add(NewMove(ksq, to, King, NoPieceType, Quiet))
		}
	}

	if MoreThanOne(checkers) {
		return
	}

	target := ^own
	if checkers != 0 {
		target = betweenBB[ksq][LSB(checkers)] | checkers
	}
	pinned := p.Pinned(us)

	p.genPawnMoves(ml, mode, target, pinned)

	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.Pieces(us, pt)
		if pt == Knight {
			// a pinned knight can never move
			pieces &^= pinned
		}
		for pieces != 0 {
			from := PopLSB(&pieces)
			dests := PieceAttacks(pt, us, from, occ) & target &^ own
			if pinned&SquareBB(from) != 0 {
				dests &= lineBB[ksq][from]
			}
			p.addPieceMoves(ml, mode, from, pt, dests, enemy)
		}
	}

	if checkers == 0 && mode&genQuiet != 0 {
		p.genCastling(ml, occ)
	}
}

func (p *Position) addPieceMoves(ml *MoveList, mode int, from Square, pt PieceType, dests, enemy uint64) {
	if mode&genTactical != 0 {
		for caps := dests & enemy; caps != 0; {
			ml.Add(NewMove(from, PopLSB(&caps), pt, NoPieceType, Capture))
		}
	}
	if mode&genQuiet != 0 {
		for quiets := dests &^ enemy; quiets != 0; {
			ml.Add(NewMove(from, PopLSB(&quiets), pt, NoPieceType, Quiet))
		}
	}
}

func addPromotions(ml *MoveList, from, to Square, kind MoveKind) {
	for _, pt := range promoTypes {
		ml.Add(NewMove(from, to, Pawn, pt, kind))
	}
}

// pawnMoveOK applies the pin restriction for a pawn leaving from.
func (p *Position) pawnMoveOK(from, to Square, pinned uint64) bool {
	return pinned&SquareBB(from) == 0 || lineBB[p.kingSq[p.side]][from]&SquareBB(to) != 0
}

func (p *Position) genPawnMoves(ml *MoveList, mode int, target, pinned uint64) {
	us := p.side
	them := us.Other()
	pawns := p.Pieces(us, Pawn)
	empty := ^p.Occupied()
	enemy := p.colorBB[them]
	push := pawnPush[us]
	promoRank := promotionRank[us]

	single := ShiftForward(pawns, us) & empty
	double := ShiftForward(single, us) & pawnDoubleRank[us] & empty & target
	single &= target

	// promotions by push are tactical
	if mode&genTactical != 0 {
		for b := single & promoRank; b != 0; {
			to := PopLSB(&b)
			if from := to - push; p.pawnMoveOK(from, to, pinned) {
				addPromotions(ml, from, to, Promotion)
			}
		}
	}
	if mode&genQuiet != 0 {
		for b := single &^ promoRank; b != 0; {
			to := PopLSB(&b)
			if from := to - push; p.pawnMoveOK(from, to, pinned) {
				ml.Add(NewMove(from, to, Pawn, NoPieceType, Quiet))
			}
		}
		for b := double; b != 0; {
			to := PopLSB(&b)
			if from := to - 2*push; p.pawnMoveOK(from, to, pinned) {
				ml.Add(NewMove(from, to, Pawn, NoPieceType, DoublePush))
			}
		}
	}
	if mode&genTactical == 0 {
		return
	}

	for b := pawns; b != 0; {
		from := PopLSB(&b)
		caps := pawnAttacks[us][from] & enemy & target
		for caps != 0 {
			to := PopLSB(&caps)
			if !p.pawnMoveOK(from, to, pinned) {
				continue
			}
			if promoRank&SquareBB(to) != 0 {
				addPromotions(ml, from, to, PromotionCapture)
			} else {
				ml.Add(NewMove(from, to, Pawn, NoPieceType, Capture))
			}
		}
	}

	if p.ep == NoSquare {
		return
	}
	capSq := p.ep - push
	// in check, the capture must remove the checker or land on the blocking square
	if target&(SquareBB(p.ep)|SquareBB(capSq)) == 0 {
		return
	}
	ksq := p.kingSq[us]
	diag := (p.pieceBB[Bishop] | p.pieceBB[Queen]) & enemy
	orth := (p.pieceBB[Rook] | p.pieceBB[Queen]) & enemy
	for b := pawnAttacks[them][p.ep] & pawns; b != 0; {
		from := PopLSB(&b)
		// Both pawns leave their squares at once, which can expose the king
		// along the rank; replay the occupancy and test the sliders directly.
		occ := p.Occupied()&^SquareBB(from)&^SquareBB(capSq) | SquareBB(p.ep)
		if BishopAttacks(ksq, occ)&diag != 0 || RookAttacks(ksq, occ)&orth != 0 {
			continue
		}
		ml.Add(NewMove(from, p.ep, Pawn, NoPieceType, EnPassant))
	}
}

func (p *Position) genCastling(ml *MoveList, occ uint64) {
	us := p.side
	them := us.Other()
	ksq := p.kingSq[us]
	if ksq != castleKingSq[us] {
		return
	}
	for i, kind := range [2]MoveKind{KingCastle, QueenCastle} {
		if p.castling&castleRight[us][i] == 0 {
			continue
		}
		rookSq := castleRookSq[us][i]
		if p.squares[rookSq] != NewPiece(us, Rook) || betweenBB[ksq][rookSq]&occ != 0 {
			continue
		}
		to := castleKingTo[us][i]
		path := betweenBB[ksq][to] | SquareBB(to)
		safe := true
		for path != 0 {
			if p.squareAttackedOcc(them, PopLSB(&path), occ) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewMove(ksq, to, King, NoPieceType, kind))
		}
	}
}
