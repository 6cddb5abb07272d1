package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every ParseFEN failure.
var ErrInvalidFEN = errors.New("invalid FEN")

// MoveError reports move text that does not name a legal move.
type MoveError struct {
	Text   string
	Reason string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("invalid move %q: %s", e.Text, e.Reason)
}

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

func pieceFromChar(ch byte) Piece {
	c := White
	if ch >= 'a' && ch <= 'z' {
		c = Black
		ch -= 'a' - 'A'
	}
	switch ch {
	case 'P':
		return NewPiece(c, Pawn)
	case 'N':
		return NewPiece(c, Knight)
	case 'B':
		return NewPiece(c, Bishop)
	case 'R':
		return NewPiece(c, Rook)
	case 'Q':
		return NewPiece(c, Queen)
	case 'K':
		return NewPiece(c, King)
	}
	return NoPiece
}

// ParseFEN builds a position from FEN. The four-field EPD form is accepted
// with the clocks defaulting to 0 and 1. Castling rights whose king or rook
// has left its home square are dropped, as is an en-passant square no pawn
// can capture on.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 4 && len(fields) != 6 {
		return nil, fenError("expected 4 or 6 fields, got %d", len(fields))
	}
	p := newPosition()

	rank, file := 7, 0
	for i := 0; i < len(fields[0]); i++ {
		ch := fields[0][i]
		switch {
		case ch == '/':
			if file != 8 || rank == 0 {
				return nil, fenError("rank %d has %d files", rank+1, file)
			}
			rank--
			file = 0
		case ch >= '1' && ch <= '8':
			file += int(ch - '0')
			if file > 8 {
				return nil, fenError("rank %d overflows", rank+1)
			}
		default:
			pc := pieceFromChar(ch)
			if pc == NoPiece {
				return nil, fenError("bad piece %q", ch)
			}
			if file > 7 {
				return nil, fenError("rank %d overflows", rank+1)
			}
			p.addPiece(NewSquare(file, rank), pc)
			file++
		}
	}
	if rank != 0 || file != 8 {
		return nil, fenError("board field is incomplete")
	}

	switch fields[1] {
	case "w":
		p.side = White
	case "b":
		p.side = Black
	default:
		return nil, fenError("bad side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.castling |= WhiteKingSide
			case 'Q':
				p.castling |= WhiteQueenSide
			case 'k':
				p.castling |= BlackKingSide
			case 'q':
				p.castling |= BlackQueenSide
			default:
				return nil, fenError("bad castling field %q", fields[2])
			}
		}
	}
	for c := White; c <= Black; c++ {
		for i := 0; i < 2; i++ {
			if p.squares[castleKingSq[c]] != NewPiece(c, King) || p.squares[castleRookSq[c][i]] != NewPiece(c, Rook) {
				p.castling &^= castleRight[c][i]
			}
		}
	}

	if fields[3] != "-" {
		sq, ok := ParseSquare(fields[3])
		if !ok {
			return nil, fenError("bad en-passant square %q", fields[3])
		}
		if sq.RelativeRank(p.side) != 5 {
			return nil, fenError("en-passant square %s on wrong rank", fields[3])
		}
		if pawnAttacks[p.side.Other()][sq]&p.Pieces(p.side, Pawn) != 0 {
			p.ep = sq
		}
	}

	if len(fields) == 6 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil || hm < 0 {
			return nil, fenError("bad halfmove clock %q", fields[4])
		}
		fm, err := strconv.Atoi(fields[5])
		if err != nil || fm < 1 {
			return nil, fenError("bad fullmove number %q", fields[5])
		}
		p.halfmove, p.fullmove = hm, fm
	}

	p.hash = p.ComputeHash()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	if p.InCheck(p.side.Other()) {
		return nil, fenError("side not to move is in check")
	}
	return p, nil
}

// FEN renders the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", p.side, p.castling, p.ep, p.halfmove, p.fullmove)
	return sb.String()
}

// String draws the board for debugging.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteString(p.squares[NewSquare(file, rank)].String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	fmt.Fprintf(&sb, "fen: %s\nkey: %016x\n", p.FEN(), p.hash)
	return sb.String()
}
