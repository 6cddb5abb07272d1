// Package epd reads Extended Position Description records as used by
// tactical test suites: a four-field position followed by ';'-terminated
// operations such as bm, am, id and c0..c9.
package epd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chess-core/board"
	chess "github.com/corentings/chess/v2"
)

// ErrInvalidEPD is wrapped by every parse error.
var ErrInvalidEPD = errors.New("invalid EPD")

// Record is one parsed EPD line.
type Record struct {
	Position *board.Position
	ID       string

	// BestMoves and AvoidMoves hold the resolved bm and am operands.
	BestMoves  []board.Move
	AvoidMoves []board.Move

	Comments [10]string

	// Ops keeps every other operation verbatim, keyed by opcode.
	Ops map[string]string
}

func epdError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEPD, fmt.Sprintf(format, args...))
}

// Parse reads a single EPD line.
func Parse(line string) (*Record, error) {
	fields, rest := splitFields(strings.TrimSpace(line), 4)
	if len(fields) < 4 {
		return nil, epdError("need 4 position fields, got %d", len(fields))
	}

	rec := &Record{Ops: make(map[string]string)}
	halfmove, fullmove := "0", "1"
	var bm, am []string

	for _, op := range splitOps(rest) {
		opcode, operands := splitOperation(op)
		switch {
		case opcode == "bm":
			bm = operands
		case opcode == "am":
			am = operands
		case opcode == "id":
			rec.ID = strings.Join(operands, " ")
		case len(opcode) == 2 && opcode[0] == 'c' && opcode[1] >= '0' && opcode[1] <= '9':
			rec.Comments[opcode[1]-'0'] = strings.Join(operands, " ")
		case opcode == "hmvc" || opcode == "fmvn":
			if len(operands) != 1 {
				return nil, epdError("%s needs one operand", opcode)
			}
			if _, err := strconv.Atoi(operands[0]); err != nil {
				return nil, epdError("%s operand %q", opcode, operands[0])
			}
			if opcode == "hmvc" {
				halfmove = operands[0]
			} else {
				fullmove = operands[0]
			}
		default:
			rec.Ops[opcode] = strings.Join(operands, " ")
		}
	}

	fen := strings.Join(fields, " ") + " " + halfmove + " " + fullmove
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEPD, err)
	}
	rec.Position = pos

	if rec.BestMoves, err = resolveMoves(pos, fen, bm); err != nil {
		return nil, err
	}
	if rec.AvoidMoves, err = resolveMoves(pos, fen, am); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load parses a suite, one record per line. Blank lines and lines starting
// with '#' are skipped.
func Load(r io.Reader) ([]*Record, error) {
	var records []*Record
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Solved reports whether m satisfies the record: it must be one of the best
// moves when any are given, and none of the avoid moves.
func (r *Record) Solved(m board.Move) bool {
	for _, a := range r.AvoidMoves {
		if a == m {
			return false
		}
	}
	if len(r.BestMoves) == 0 {
		return len(r.AvoidMoves) > 0
	}
	for _, b := range r.BestMoves {
		if b == m {
			return true
		}
	}
	return false
}

// resolveMoves turns bm/am operands into legal moves. Coordinate text is
// tried first, then SAN.
func resolveMoves(pos *board.Position, fen string, operands []string) ([]board.Move, error) {
	if len(operands) == 0 {
		return nil, nil
	}
	var game *chess.Game
	moves := make([]board.Move, 0, len(operands))
	for _, text := range operands {
		text = strings.TrimRight(text, "!?")
		if m, err := pos.ParseMove(text); err == nil {
			moves = append(moves, m)
			continue
		}
		if game == nil {
			opt, err := chess.FEN(fen)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidEPD, err)
			}
			game = chess.NewGame(opt)
		}
		cm, err := chess.AlgebraicNotation{}.Decode(game.Position(), text)
		if err != nil {
			return nil, epdError("move %q: %v", text, err)
		}
		m, err := pos.ParseMove(chess.UCINotation{}.Encode(game.Position(), cm))
		if err != nil {
			return nil, epdError("move %q: %v", text, err)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// splitFields returns up to n whitespace separated fields and the text after
// them.
func splitFields(s string, n int) ([]string, string) {
	var fields []string
	for len(fields) < n {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			break
		}
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			end = len(s)
		}
		fields = append(fields, s[:end])
		s = s[end:]
	}
	return fields, s
}

// splitOps cuts the operation section at ';' outside double quotes.
func splitOps(s string) []string {
	var ops []string
	var cur strings.Builder
	quoted := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"':
			quoted = !quoted
			cur.WriteByte(ch)
		case ch == ';' && !quoted:
			if op := strings.TrimSpace(cur.String()); op != "" {
				ops = append(ops, op)
			}
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if op := strings.TrimSpace(cur.String()); op != "" {
		ops = append(ops, op)
	}
	return ops
}

// splitOperation separates the opcode from its operands. A quoted operand is
// one token with the quotes removed.
func splitOperation(op string) (string, []string) {
	opcode, rest, _ := strings.Cut(op, " ")
	var operands []string
	rest = strings.TrimSpace(rest)
	for rest != "" {
		if rest[0] == '"' {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				operands = append(operands, rest[1:])
				break
			}
			operands = append(operands, rest[1:end+1])
			rest = strings.TrimSpace(rest[end+2:])
			continue
		}
		tok, tail, _ := strings.Cut(rest, " ")
		operands = append(operands, tok)
		rest = strings.TrimSpace(tail)
	}
	return opcode, operands
}
