package epd_test

import (
	"errors"
	"strings"
	"testing"

	"chess-core/board"
	"chess-core/epd"
	"golang.org/x/exp/slices"
)

func moveTexts(moves []board.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func TestParseSuiteRecords(t *testing.T) {
	cases := []struct {
		line string
		id   string
		bm   []string
	}{
		{`2rr3k/pp3pp1/1nnqbN1p/3pN3/2pP4/2P3Q1/PPB4P/R4RK1 w - - bm Qg6; id "WAC.001";`, "WAC.001", []string{"g3g6"}},
		{`8/7p/5k2/5p2/p1p2P2/Pr1pPK2/1P1R3P/8 b - - bm Rxb2; id "WAC.002";`, "WAC.002", []string{"b3b2"}},
		{`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - bm d4 Nf3 e2e4;`, "", []string{"d2d4", "g1f3", "e2e4"}},
	}
	for _, tc := range cases {
		rec, err := epd.Parse(tc.line)
		if err != nil {
			t.Fatalf("%s: %v", tc.line, err)
		}
		if rec.ID != tc.id {
			t.Fatalf("id %q want %q", rec.ID, tc.id)
		}
		if got := moveTexts(rec.BestMoves); !slices.Equal(got, tc.bm) {
			t.Fatalf("bm %v want %v", got, tc.bm)
		}
	}
}

func TestParseOperations(t *testing.T) {
	rec, err := epd.Parse(`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - am e4; c0 "quiet; please"; c7 x; hmvc 12; fmvn 30; acd 20;`)
	if err != nil {
		t.Fatal(err)
	}
	if got := moveTexts(rec.AvoidMoves); !slices.Equal(got, []string{"e2e4"}) {
		t.Fatalf("am %v", got)
	}
	if rec.Comments[0] != "quiet; please" || rec.Comments[7] != "x" {
		t.Fatalf("comments %q", rec.Comments)
	}
	if rec.Position.HalfmoveClock() != 12 || rec.Position.FullmoveNumber() != 30 {
		t.Fatalf("clocks %d %d", rec.Position.HalfmoveClock(), rec.Position.FullmoveNumber())
	}
	if rec.Ops["acd"] != "20" {
		t.Fatalf("ops %v", rec.Ops)
	}
}

func TestParseRejectsBadRecords(t *testing.T) {
	for _, line := range []string{
		"",
		"8/8/8/8 w -",
		`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - bm Qh5;`,
		`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - hmvc x;`,
		`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - id "bad";`,
	} {
		if _, err := epd.Parse(line); !errors.Is(err, epd.ErrInvalidEPD) {
			t.Errorf("%q: got %v want ErrInvalidEPD", line, err)
		}
	}
}

func TestSolved(t *testing.T) {
	rec, err := epd.Parse(`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - bm d4; am e4;`)
	if err != nil {
		t.Fatal(err)
	}
	p := rec.Position
	for text, want := range map[string]bool{"d2d4": true, "e2e4": false, "g1f3": false} {
		m, err := p.ParseMove(text)
		if err != nil {
			t.Fatal(err)
		}
		if got := rec.Solved(m); got != want {
			t.Errorf("Solved(%s) = %v want %v", text, got, want)
		}
	}
}

func TestLoad(t *testing.T) {
	suite := `# two records
2rr3k/pp3pp1/1nnqbN1p/3pN3/2pP4/2P3Q1/PPB4P/R4RK1 w - - bm Qg6; id "WAC.001";

8/7p/5k2/5p2/p1p2P2/Pr1pPK2/1P1R3P/8 b - - bm Rxb2; id "WAC.002";
`
	recs, err := epd.Load(strings.NewReader(suite))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[1].ID != "WAC.002" {
		t.Fatalf("loaded %d records", len(recs))
	}

	_, err = epd.Load(strings.NewReader(suite + "not a record\n"))
	if err == nil || !strings.Contains(err.Error(), "line 5") || !errors.Is(err, epd.ErrInvalidEPD) {
		t.Fatalf("got %v", err)
	}
}
