package board

// Color identifies a side. White moves first.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceType is a colorless piece kind used for table lookups.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// pieceTypeCount includes the NoPieceType sentinel so arrays can be indexed directly.
const pieceTypeCount = 7

var pieceTypeChars = [pieceTypeCount]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

func (pt PieceType) String() string {
	if pt > King {
		return "?"
	}
	return string(pieceTypeChars[pt])
}

// Piece is a colored piece.
// Black pieces are encoded as (type | 8) so that
//   - piece & 7 gives the type in [1..6]
//   - piece & 8 != 0 indicates Black
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
)

// NewPiece combines a side and a type.
func NewPiece(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) | Piece(c)<<3
}

// Type returns the colorless type of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the owner of the piece. NoPiece reports White.
func (p Piece) Color() Color { return Color(p >> 3) }

// String returns the FEN letter of the piece.
func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	ch := pieceTypeChars[p.Type()]
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// CastlingRights is a bit set of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := make([]byte, 0, 4)
	if cr&WhiteKingSide != 0 {
		s = append(s, 'K')
	}
	if cr&WhiteQueenSide != 0 {
		s = append(s, 'Q')
	}
	if cr&BlackKingSide != 0 {
		s = append(s, 'k')
	}
	if cr&BlackQueenSide != 0 {
		s = append(s, 'q')
	}
	return string(s)
}

// Square indexes the board from A1 (0) to H8 (63), file-major within a rank.
type Square int8

const NoSquare Square = -1

const (
	A1, B1, C1, D1, E1, F1, G1, H1 Square = 0, 1, 2, 3, 4, 5, 6, 7
	A2, B2, C2, D2, E2, F2, G2, H2 Square = 8, 9, 10, 11, 12, 13, 14, 15
	A3, B3, C3, D3, E3, F3, G3, H3 Square = 16, 17, 18, 19, 20, 21, 22, 23
	A4, B4, C4, D4, E4, F4, G4, H4 Square = 24, 25, 26, 27, 28, 29, 30, 31
	A5, B5, C5, D5, E5, F5, G5, H5 Square = 32, 33, 34, 35, 36, 37, 38, 39
	A6, B6, C6, D6, E6, F6, G6, H6 Square = 40, 41, 42, 43, 44, 45, 46, 47
	A7, B7, C7, D7, E7, F7, G7, H7 Square = 48, 49, 50, 51, 52, 53, 54, 55
	A8, B8, C8, D8, E8, F8, G8, H8 Square = 56, 57, 58, 59, 60, 61, 62, 63
)

// NewSquare builds a square from zero-based file and rank.
func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

func (sq Square) File() int { return int(sq) & 7 }
func (sq Square) Rank() int { return int(sq) >> 3 }

// RelativeRank returns the rank as seen from c's side of the board.
func (sq Square) RelativeRank(c Color) int { return sq.Rank() ^ relativeRankFlip[c] }

// Mirror reflects the square across the horizontal midline.
func (sq Square) Mirror() Square { return sq ^ 56 }

func (sq Square) String() string {
	if sq < 0 || sq > 63 {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare converts algebraic text such as "e4".
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, false
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), true
}

// Color-indexed constants. Logic that depends on the side to move is written
// once and reads its direction and rank data from these tables.
var (
	relativeRankFlip = [2]int{0, 7}
	pawnPush         = [2]Square{8, -8}
	pawnDoubleRank   = [2]uint64{Rank4, Rank5}
	promotionRank    = [2]uint64{Rank8, Rank1}
)

// PawnPush is the square delta of a single pawn step for c.
func PawnPush(c Color) Square { return pawnPush[c] }
