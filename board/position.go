package board

// MaxGamePly bounds the history stack. The longest game the fifty-move rule
// allows is under 12000 plies.
const MaxGamePly = 12288

// UndoInfo is the snapshot pushed by MakeMove and consumed by UndoMove.
type UndoInfo struct {
	Hash     uint64
	Move     Move
	Captured Piece
	EP       Square
	Halfmove int
	Castling CastlingRights
}

// Position is a mutable chess position. It changes only through MakeMove,
// UndoMove, MakeNullMove and UndoNullMove once built by ParseFEN.
type Position struct {
	// pieceBB is indexed by PieceType; slot 0 is always empty.
	pieceBB [pieceTypeCount]uint64
	colorBB [2]uint64
	squares [64]Piece
	kingSq  [2]Square

	side     Color
	ep       Square
	castling CastlingRights
	halfmove int
	fullmove int
	hash     uint64

	gamePly int
	history []UndoInfo
}

// castling geometry per color, [color][0 = king side, 1 = queen side]
var (
	castleKingTo  = [2][2]Square{{G1, C1}, {G8, C8}}
	castleRookSq  = [2][2]Square{{H1, A1}, {H8, A8}}
	castleRookTo  = [2][2]Square{{F1, D1}, {F8, D8}}
	castleRight   = [2][2]CastlingRights{{WhiteKingSide, WhiteQueenSide}, {BlackKingSide, BlackQueenSide}}
	castleKingSq  = [2]Square{E1, E8}
	castleRevoker [64]CastlingRights
)

func init() {
	for sq := range castleRevoker {
		castleRevoker[sq] = AllCastling
	}
	castleRevoker[E1] &^= WhiteKingSide | WhiteQueenSide
	castleRevoker[H1] &^= WhiteKingSide
	castleRevoker[A1] &^= WhiteQueenSide
	castleRevoker[E8] &^= BlackKingSide | BlackQueenSide
	castleRevoker[H8] &^= BlackKingSide
	castleRevoker[A8] &^= BlackQueenSide
}

func castleRookSquares(c Color, kind MoveKind) (from, to Square) {
	i := 0
	if kind == QueenCastle {
		i = 1
	}
	return castleRookSq[c][i], castleRookTo[c][i]
}

func newPosition() *Position {
	p := &Position{history: make([]UndoInfo, MaxGamePly)}
	p.clear()
	return p
}

// clear empties the board and resets all state.
func (p *Position) clear() {
	hist := p.history
	*p = Position{history: hist}
	p.ep = NoSquare
	p.kingSq = [2]Square{NoSquare, NoSquare}
	p.fullmove = 1
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Clone returns an independent deep copy, history included.
func (p *Position) Clone() *Position {
	c := *p
	c.history = make([]UndoInfo, MaxGamePly)
	copy(c.history[:p.gamePly], p.history[:p.gamePly])
	return &c
}

func (p *Position) addPiece(sq Square, pc Piece) {
	b := SquareBB(sq)
	p.squares[sq] = pc
	p.pieceBB[pc.Type()] |= b
	p.colorBB[pc.Color()] |= b
	p.hash ^= pieceKeys[pc][sq]
	if pc.Type() == King {
		p.kingSq[pc.Color()] = sq
	}
}

func (p *Position) removePiece(sq Square) Piece {
	pc := p.squares[sq]
	b := SquareBB(sq)
	p.squares[sq] = NoPiece
	p.pieceBB[pc.Type()] &^= b
	p.colorBB[pc.Color()] &^= b
	p.hash ^= pieceKeys[pc][sq]
	return pc
}

func (p *Position) movePiece(from, to Square) {
	pc := p.squares[from]
	fromTo := SquareBB(from) | SquareBB(to)
	p.squares[from] = NoPiece
	p.squares[to] = pc
	p.pieceBB[pc.Type()] ^= fromTo
	p.colorBB[pc.Color()] ^= fromTo
	p.hash ^= pieceKeys[pc][from] ^ pieceKeys[pc][to]
	if pc.Type() == King {
		p.kingSq[pc.Color()] = to
	}
}

func (p *Position) SideToMove() Color                   { return p.side }
func (p *Position) EnPassant() Square                   { return p.ep }
func (p *Position) CastlingRights() CastlingRights      { return p.castling }
func (p *Position) HalfmoveClock() int                  { return p.halfmove }
func (p *Position) FullmoveNumber() int                 { return p.fullmove }
func (p *Position) Hash() uint64                        { return p.hash }
func (p *Position) GamePly() int                        { return p.gamePly }
func (p *Position) PieceAt(sq Square) Piece             { return p.squares[sq] }
func (p *Position) KingSquare(c Color) Square           { return p.kingSq[c] }
func (p *Position) Occupied() uint64                    { return p.colorBB[White] | p.colorBB[Black] }
func (p *Position) ByColor(c Color) uint64              { return p.colorBB[c] }
func (p *Position) ByType(pt PieceType) uint64          { return p.pieceBB[pt] }
func (p *Position) Pieces(c Color, pt PieceType) uint64 { return p.pieceBB[pt] & p.colorBB[c] }

// LastMove returns the move that led to the current position, or NoMove.
func (p *Position) LastMove() Move {
	if p.gamePly == 0 {
		return NoMove
	}
	return p.history[p.gamePly-1].Move
}

// AttackersByOcc returns the pieces of both colors attacking sq under the
// given occupancy. Sliders are intersected with occ so that x-ray attackers
// appear once the pieces in front of them are removed from occ.
func (p *Position) AttackersByOcc(sq Square, occ uint64) uint64 {
	diag := p.pieceBB[Bishop] | p.pieceBB[Queen]
	orth := p.pieceBB[Rook] | p.pieceBB[Queen]
	return (pawnAttacks[Black][sq] & p.Pieces(White, Pawn)) |
		(pawnAttacks[White][sq] & p.Pieces(Black, Pawn)) |
		(knightAttacks[sq] & p.pieceBB[Knight]) |
		(kingAttacks[sq] & p.pieceBB[King]) |
		(BishopAttacks(sq, occ) & diag) |
		(RookAttacks(sq, occ) & orth)
}

// Attackers returns the pieces of side that attack sq.
func (p *Position) Attackers(side Color, sq Square) uint64 {
	return p.AttackersByOcc(sq, p.Occupied()) & p.colorBB[side]
}

// SquareAttacked reports whether side attacks sq.
func (p *Position) SquareAttacked(side Color, sq Square) bool {
	return p.squareAttackedOcc(side, sq, p.Occupied())
}

func (p *Position) squareAttackedOcc(side Color, sq Square, occ uint64) bool {
	them := p.colorBB[side]
	if pawnAttacks[side.Other()][sq]&p.pieceBB[Pawn]&them != 0 ||
		knightAttacks[sq]&p.pieceBB[Knight]&them != 0 ||
		kingAttacks[sq]&p.pieceBB[King]&them != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(p.pieceBB[Bishop]|p.pieceBB[Queen])&them != 0 {
		return true
	}
	return RookAttacks(sq, occ)&(p.pieceBB[Rook]|p.pieceBB[Queen])&them != 0
}

// InCheck reports whether c's king is attacked.
func (p *Position) InCheck(c Color) bool {
	return p.SquareAttacked(c.Other(), p.kingSq[c])
}

// IsCheck reports whether the side to move is in check.
func (p *Position) IsCheck() bool { return p.InCheck(p.side) }

// Checkers returns the opposing pieces giving check to the side to move.
func (p *Position) Checkers() uint64 {
	return p.Attackers(p.side.Other(), p.kingSq[p.side])
}

// Pinned returns c's pieces that are pinned to c's king.
func (p *Position) Pinned(c Color) uint64 {
	ksq := p.kingSq[c]
	them := p.colorBB[c.Other()]
	snipers := (RookAttacks(ksq, 0)&(p.pieceBB[Rook]|p.pieceBB[Queen]) |
		BishopAttacks(ksq, 0)&(p.pieceBB[Bishop]|p.pieceBB[Queen])) & them
	occ := p.Occupied()
	var pinned uint64
	for snipers != 0 {
		s := PopLSB(&snipers)
		b := betweenBB[ksq][s] & occ
		if b != 0 && !MoreThanOne(b) {
			pinned |= b & p.colorBB[c]
		}
	}
	return pinned
}

// CanCastle reports whether the castling right is still held.
func (p *Position) CanCastle(cr CastlingRights) bool { return p.castling&cr != 0 }

// HasNonPawnMaterial reports whether c owns a knight, bishop, rook or queen.
func (p *Position) HasNonPawnMaterial(c Color) bool {
	return (p.pieceBB[Knight]|p.pieceBB[Bishop]|p.pieceBB[Rook]|p.pieceBB[Queen])&p.colorBB[c] != 0
}

// IsFiftyMoveDraw reports a fifty-move rule draw.
func (p *Position) IsFiftyMoveDraw() bool { return p.halfmove >= 100 }

// IsRepetition reports whether the current position already occurred since
// the last irreversible move. Only the half-move clock window is scanned:
// positions before a capture, pawn move or null move cannot recur.
func (p *Position) IsRepetition() bool {
	start := max(p.gamePly-p.halfmove, 0)
	for i := p.gamePly - 2; i >= start; i -= 2 {
		if p.history[i].Hash == p.hash {
			return true
		}
	}
	return false
}

// IsThreefold reports whether the current position occurred twice before
// inside the same window.
func (p *Position) IsThreefold() bool {
	start := max(p.gamePly-p.halfmove, 0)
	seen := 0
	for i := p.gamePly - 2; i >= start; i -= 2 {
		if p.history[i].Hash == p.hash {
			seen++
			if seen >= 2 {
				return true
			}
		}
	}
	return false
}

// InsufficientMaterial reports dead positions: bare kings, a single minor
// piece, or bishops that all stand on one square color.
func (p *Position) InsufficientMaterial() bool {
	if p.pieceBB[Pawn]|p.pieceBB[Rook]|p.pieceBB[Queen] != 0 {
		return false
	}
	minors := p.pieceBB[Knight] | p.pieceBB[Bishop]
	if PopCount(minors) <= 1 {
		return true
	}
	if p.pieceBB[Knight] != 0 {
		return false
	}
	const darkSquares uint64 = 0xAA55AA55AA55AA55
	b := p.pieceBB[Bishop]
	return b&darkSquares == 0 || b&^darkSquares == 0
}

// IsDraw combines the rule-based draw tests used inside search.
func (p *Position) IsDraw() bool {
	return p.IsFiftyMoveDraw() || p.IsRepetition() || p.InsufficientMaterial()
}

// Mirror returns the color-flipped position: ranks reflected, colors and
// side to move swapped. History is not carried over.
func (p *Position) Mirror() *Position {
	m := newPosition()
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			m.addPiece(sq.Mirror(), NewPiece(pc.Color().Other(), pc.Type()))
		}
	}
	m.side = p.side.Other()
	m.castling = (p.castling&(WhiteKingSide|WhiteQueenSide))<<2 | (p.castling&(BlackKingSide|BlackQueenSide))>>2
	if p.ep != NoSquare {
		m.ep = p.ep.Mirror()
	}
	m.halfmove = p.halfmove
	m.fullmove = p.fullmove
	m.hash = m.ComputeHash()
	return m
}
