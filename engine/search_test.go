package engine

import (
	"context"
	"testing"
	"time"

	"chess-core/board"
)

func newTestEngine() *Engine {
	return NewEngine(Options{HashMB: 8})
}

func TestSearchFindsMateInOne(t *testing.T) {
	p := mustFEN(t, "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")
	res := newTestEngine().Search(context.Background(), p, Limits{Depth: 4}, nil)
	if res.Score != MateIn(1) {
		t.Fatalf("score %d (%s) want mate in 1", res.Score, FormatScore(res.Score))
	}
	if _, err := p.Apply(res.BestMove.String()); err != nil {
		t.Fatal(err)
	}
	if !p.IsCheckmate() {
		t.Fatalf("%s does not mate", res.BestMove)
	}
}

func TestSearchWinsHangingQueen(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	res := newTestEngine().Search(context.Background(), p, Limits{Depth: 5}, nil)
	if res.BestMove.String() != "d2d5" {
		t.Fatalf("best move %s want d2d5", res.BestMove)
	}
	if res.Score < 300 {
		t.Fatalf("score %d after winning the queen", res.Score)
	}
}

func TestSearchTerminalRoots(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		score int
	}{
		{"checkmate", "7k/6Q1/6K1/8/8/8/8/8 b - - 0 1", -MateScore},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := newTestEngine().Search(context.Background(), mustFEN(t, tc.fen), Limits{Depth: 3}, nil)
			if res.BestMove != board.NoMove || res.Score != tc.score {
				t.Fatalf("got %s %d want 0000 %d", res.BestMove, res.Score, tc.score)
			}
		})
	}
}

func TestSearchDepthLimitAndInfo(t *testing.T) {
	p := board.NewPosition()
	before := p.FEN()
	var infos []Info
	res := newTestEngine().Search(context.Background(), p, Limits{Depth: 4}, func(i Info) {
		infos = append(infos, i)
	})
	if res.Depth != 4 || len(infos) != 4 {
		t.Fatalf("depth %d with %d info lines", res.Depth, len(infos))
	}
	for i, info := range infos {
		if info.Depth != i+1 {
			t.Fatalf("info %d has depth %d", i, info.Depth)
		}
		if len(info.PV) == 0 {
			t.Fatalf("empty PV at depth %d", info.Depth)
		}
	}
	if p.FEN() != before {
		t.Fatalf("search mutated its input: %s", p.FEN())
	}

	// the PV is a legal line from the root
	for _, m := range res.PV {
		if !p.IsLegal(m) {
			t.Fatalf("PV move %s illegal in %s", m, p.FEN())
		}
		p.MakeMove(m)
	}
}

func TestSearchNodeLimit(t *testing.T) {
	const limit = 5000
	res := newTestEngine().Search(context.Background(), board.NewPosition(), Limits{Nodes: limit}, nil)
	if res.Nodes > limit+pollInterval {
		t.Fatalf("searched %d nodes with a limit of %d", res.Nodes, limit)
	}
	if res.BestMove == board.NoMove {
		t.Fatalf("no move reported")
	}
}

func TestSearchCancelledContextStillReturnsMove(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := board.NewPosition()
	res := newTestEngine().Search(ctx, p, Limits{Infinite: true}, nil)
	if !p.IsLegal(res.BestMove) {
		t.Fatalf("fallback move %s is not legal", res.BestMove)
	}
}

func TestSearchStopFromAnotherGoroutine(t *testing.T) {
	e := newTestEngine()
	done := make(chan Result)
	go func() {
		done <- e.Search(context.Background(), board.NewPosition(), Limits{Infinite: true}, nil)
	}()
	time.Sleep(50 * time.Millisecond)
	e.Stop()
	select {
	case res := <-done:
		if res.BestMove == board.NoMove {
			t.Fatalf("no move after stop")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("search ignored Stop")
	}
}

func TestSearchMoveTime(t *testing.T) {
	start := time.Now()
	newTestEngine().Search(context.Background(), board.NewPosition(), Limits{MoveTime: 100 * time.Millisecond}, nil)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("movetime 100ms took %v", elapsed)
	}
}

func TestNewGameClearsTables(t *testing.T) {
	e := NewEngine(Options{HashMB: 1})
	e.Search(context.Background(), board.NewPosition(), Limits{Depth: 5}, nil)
	if e.HashFull() == 0 {
		t.Fatalf("hash empty after a search")
	}
	e.NewGame()
	if e.HashFull() != 0 {
		t.Fatalf("hashfull %d after NewGame", e.HashFull())
	}
}
