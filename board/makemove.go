package board

import "fmt"

// DebugChecks makes every make/undo call Validate and panic on the first
// inconsistency. Tests switch it on; search leaves it off.
var DebugChecks = false

func (p *Position) debugValidate(op string, m Move) {
	if err := p.Validate(); err != nil {
		panic(fmt.Sprintf("%s %v: %v", op, m, err))
	}
}

// MakeMove plays a legal move. Passing an illegal move corrupts the position.
func (p *Position) MakeMove(m Move) {
	us := p.side
	them := us.Other()
	from, to := m.From(), m.To()
	kind := m.Kind()

	u := &p.history[p.gamePly]
	u.Hash = p.hash
	u.Move = m
	u.Captured = NoPiece
	u.EP = p.ep
	u.Halfmove = p.halfmove
	u.Castling = p.castling

	if p.ep != NoSquare {
		p.hash ^= epKeys[p.ep.File()]
		p.ep = NoSquare
	}

	newRights := p.castling & castleRevoker[from] & castleRevoker[to]
	if newRights != p.castling {
		p.hash ^= castleKeys[p.castling] ^ castleKeys[newRights]
		p.castling = newRights
	}

	p.halfmove++

	switch kind {
	case Quiet:
		p.movePiece(from, to)
	case DoublePush:
		p.movePiece(from, to)
		epSq := from + pawnPush[us]
		// only record an en-passant square that an enemy pawn could use
		if pawnAttacks[us][epSq]&p.Pieces(them, Pawn) != 0 {
			p.ep = epSq
			p.hash ^= epKeys[epSq.File()]
		}
	case Capture:
		u.Captured = p.removePiece(to)
		p.movePiece(from, to)
		p.halfmove = 0
	case EnPassant:
		u.Captured = p.removePiece(to - pawnPush[us])
		p.movePiece(from, to)
	case KingCastle, QueenCastle:
		rookFrom, rookTo := castleRookSquares(us, kind)
		p.movePiece(from, to)
		p.movePiece(rookFrom, rookTo)
	case Promotion:
		p.removePiece(from)
		p.addPiece(to, NewPiece(us, m.Promotion()))
	case PromotionCapture:
		u.Captured = p.removePiece(to)
		p.removePiece(from)
		p.addPiece(to, NewPiece(us, m.Promotion()))
	}
	if m.Piece() == Pawn {
		p.halfmove = 0
	}

	if us == Black {
		p.fullmove++
	}
	p.side = them
	p.hash ^= sideKey
	p.gamePly++

	if DebugChecks {
		p.debugValidate("make", m)
	}
}

// UndoMove takes back the last move played with MakeMove.
func (p *Position) UndoMove() {
	p.gamePly--
	u := &p.history[p.gamePly]
	m := u.Move
	p.side = p.side.Other()
	us := p.side
	from, to := m.From(), m.To()

	switch kind := m.Kind(); kind {
	case Quiet, DoublePush:
		p.movePiece(to, from)
	case Capture:
		p.movePiece(to, from)
		p.addPiece(to, u.Captured)
	case EnPassant:
		p.movePiece(to, from)
		p.addPiece(to-pawnPush[us], u.Captured)
	case KingCastle, QueenCastle:
		rookFrom, rookTo := castleRookSquares(us, kind)
		p.movePiece(rookTo, rookFrom)
		p.movePiece(to, from)
	case Promotion:
		p.removePiece(to)
		p.addPiece(from, NewPiece(us, Pawn))
	case PromotionCapture:
		p.removePiece(to)
		p.addPiece(to, u.Captured)
		p.addPiece(from, NewPiece(us, Pawn))
	}

	if us == Black {
		p.fullmove--
	}
	p.ep = u.EP
	p.halfmove = u.Halfmove
	p.castling = u.Castling
	p.hash = u.Hash

	if DebugChecks {
		p.debugValidate("undo", m)
	}
}

// MakeNullMove passes the turn. The half-move clock restarts so repetition
// scans never reach across a null move.
func (p *Position) MakeNullMove() {
	u := &p.history[p.gamePly]
	u.Hash = p.hash
	u.Move = NoMove
	u.Captured = NoPiece
	u.EP = p.ep
	u.Halfmove = p.halfmove
	u.Castling = p.castling

	if p.ep != NoSquare {
		p.hash ^= epKeys[p.ep.File()]
		p.ep = NoSquare
	}
	p.halfmove = 0
	p.side = p.side.Other()
	p.hash ^= sideKey
	p.gamePly++
}

// UndoNullMove reverses MakeNullMove.
func (p *Position) UndoNullMove() {
	p.gamePly--
	u := &p.history[p.gamePly]
	p.side = p.side.Other()
	p.ep = u.EP
	p.halfmove = u.Halfmove
	p.hash = u.Hash
}

// Apply plays a move given in coordinate text.
func (p *Position) Apply(text string) (Move, error) {
	m, err := p.ParseMove(text)
	if err != nil {
		return NoMove, err
	}
	p.MakeMove(m)
	return m, nil
}
