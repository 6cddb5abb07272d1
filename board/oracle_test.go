package board_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"

	"chess-core/board"
)

func ourMoves(p *board.Position) []string {
	var out []string
	for _, m := range p.LegalMoves() {
		out = append(out, fmt.Sprintf("%d-%d-%d", m.From(), m.To(), m.Promotion()))
	}
	slices.Sort(out)
	return out
}

func dragontoothMoves(fen string) []string {
	b := dragontoothmg.ParseFen(fen)
	var out []string
	for _, m := range b.GenerateLegalMoves() {
		out = append(out, fmt.Sprintf("%d-%d-%d", m.From(), m.To(), m.Promote()))
	}
	slices.Sort(out)
	return out
}

func corentingsMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("chess.FEN(%q): %v", fen, err)
	}
	g := chess.NewGame(opt)
	var out []string
	for _, m := range g.ValidMoves() {
		out = append(out, chess.UCINotation{}.Encode(g.Position(), &m))
	}
	slices.Sort(out)
	return out
}

func coordinateMoves(p *board.Position) []string {
	var out []string
	for _, m := range p.LegalMoves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

// Sliders pinned along every diagonal direction, plus open middlegames where
// queens and bishops line up against the kings.
var pinFENs = []string{
	"4k3/8/8/q7/8/2Q5/3K4/8 w - - 0 1",
	"k7/8/8/6b1/8/4Q3/3K4/8 w - - 0 1",
	"7k/8/8/3K4/4R3/8/6b1/8 w - - 0 1",
	"7k/8/8/4K3/3Q4/8/1q6/8 w - - 0 1",
	"4k3/3q4/8/1B6/8/8/8/4K3 b - - 0 1",
	"r3k2r/pb3ppp/1p2pq2/2b5/2B5/1P2PQ2/PB3PPP/R3K2R w KQkq - 0 1",
	"2kr3r/ppq2ppp/2n1bn2/2bpp3/4P3/1BNP1Q2/PPPB1PPP/R3K2R w KQ - 0 1",
}

// randomWalk plays seeded random games from each reference position and
// hands every visited position to check.
func randomWalk(t *testing.T, games, plies int, check func(p *board.Position)) {
	rng := rand.New(rand.NewSource(7))
	seeds := slices.Clone(pinFENs)
	for _, tc := range perftCases {
		seeds = append(seeds, tc.fen)
	}
	for _, fen := range seeds {
		for g := 0; g < games; g++ {
			p := mustFEN(t, fen)
			for ply := 0; ply < plies; ply++ {
				check(p)
				moves := p.LegalMoves()
				if len(moves) == 0 {
					break
				}
				m := moves[rng.Intn(len(moves))]
				p.MakeMove(m)
				if p.InCheck(p.SideToMove().Other()) {
					t.Fatalf("%s left its own king in check", m)
				}
			}
		}
	}
}

func TestLegalMovesMatchDragontooth(t *testing.T) {
	games := 20
	if testing.Short() {
		games = 4
	}
	randomWalk(t, games, 80, func(p *board.Position) {
		fen := p.FEN()
		got, want := ourMoves(p), dragontoothMoves(fen)
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("%s\n got  %v\n want %v", fen, got, want)
		}
	})
}

func TestLegalMovesMatchCorentings(t *testing.T) {
	games := 10
	if testing.Short() {
		games = 2
	}
	randomWalk(t, games, 60, func(p *board.Position) {
		fen := p.FEN()
		got, want := coordinateMoves(p), corentingsMoves(t, fen)
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("%s\n got  %v\n want %v", fen, got, want)
		}
	})
}

func TestPerftMatchesDragontooth(t *testing.T) {
	for _, tc := range perftCases {
		dt := dragontoothmg.ParseFen(tc.fen)
		p := mustFEN(t, tc.fen)
		if got, want := p.Perft(2), dragontoothPerft(&dt, 2); got != want {
			t.Fatalf("%s perft(2): got %d want %d", tc.name, got, want)
		}
	}
	for _, fen := range pinFENs {
		dt := dragontoothmg.ParseFen(fen)
		p := mustFEN(t, fen)
		if got, want := p.Perft(3), dragontoothPerft(&dt, 3); got != want {
			t.Fatalf("%s perft(3): got %d want %d", fen, got, want)
		}
	}
}

func TestDiagonallyPinnedSliders(t *testing.T) {
	tests := []struct {
		fen    string
		king   board.Square
		pinned board.Square
		pinner board.Square
	}{
		{"4k3/8/8/q7/8/2Q5/3K4/8 w - - 0 1", board.D2, board.C3, board.A5},
		{"k7/8/8/6b1/8/4Q3/3K4/8 w - - 0 1", board.D2, board.E3, board.G5},
		{"7k/8/8/3K4/4R3/8/6b1/8 w - - 0 1", board.D5, board.E4, board.G2},
		{"7k/8/8/4K3/3Q4/8/1q6/8 w - - 0 1", board.E5, board.D4, board.B2},
	}
	for _, tt := range tests {
		p := mustFEN(t, tt.fen)
		if got := p.Pinned(board.White); got != board.SquareBB(tt.pinned) {
			t.Fatalf("%s: pinned %x, want %s", tt.fen, got, tt.pinned)
		}
		for _, m := range p.LegalMoves() {
			if m.From() == tt.pinned && !board.Aligned(tt.king, tt.pinner, m.To()) {
				t.Errorf("%s: %s leaves the pin line", tt.fen, m)
			}
			p.MakeMove(m)
			if p.InCheck(board.White) {
				t.Errorf("%s: %s leaves the king in check", tt.fen, m)
			}
			p.UndoMove()
		}
		got, want := ourMoves(p), dragontoothMoves(tt.fen)
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("%s\n got  %v\n want %v", tt.fen, got, want)
		}
	}
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		undo := b.Apply(m)
		n += dragontoothPerft(b, depth-1)
		undo()
	}
	return n
}
