package server

import (
	"chess-core/board"
	chess "github.com/corentings/chess/v2"
)

func notationPosition(fen string) *chess.Position {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil
	}
	return chess.NewGame(opt).Position()
}

// sanLine renders moves played from fen in standard algebraic notation. It
// stops at the first move the notation library does not recognise.
func sanLine(fen string, moves []board.Move) []string {
	pos := notationPosition(fen)
	if pos == nil {
		return nil
	}
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		cm := findMove(pos, m.String())
		if cm == nil {
			break
		}
		out = append(out, chess.AlgebraicNotation{}.Encode(pos, cm))
		pos = pos.Update(cm)
	}
	return out
}

// legalSAN maps the coordinate text of every legal move in fen to its SAN.
func legalSAN(fen string) map[string]string {
	out := make(map[string]string)
	pos := notationPosition(fen)
	if pos == nil {
		return out
	}
	for _, m := range pos.ValidMoves() {
		out[chess.UCINotation{}.Encode(pos, &m)] = chess.AlgebraicNotation{}.Encode(pos, &m)
	}
	return out
}

func findMove(pos *chess.Position, uci string) *chess.Move {
	for _, m := range pos.ValidMoves() {
		if (chess.UCINotation{}).Encode(pos, &m) == uci {
			return &m
		}
	}
	return nil
}
