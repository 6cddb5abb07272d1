package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"chess-core/board"
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/sync/errgroup"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	parallel := flag.Bool("parallel", false, "Count each root move on its own goroutine")
	verify := flag.Bool("verify", false, "Cross-check every root move count against dragontoothmg")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}
	pos, err := board.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatalf("creating cpuprofile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("start cpu profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	start := time.Now()
	var entries []board.DivideEntry
	if *parallel {
		if entries, err = parallelDivide(pos, *depth); err != nil {
			log.Fatal(err)
		}
	} else {
		entries = pos.Divide(*depth)
	}
	elapsed := time.Since(start)
	total := board.DivideTotal(entries)

	if *divide {
		for _, e := range entries {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
		}
		fmt.Printf("Total: %d\n", total)
	}

	// Single line: Depth Nodes Time NPS
	nps := float64(total) / elapsed.Seconds()
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, total, elapsed, nps)

	if *verify {
		if bad := verifyDivide(*fen, *depth, entries); bad > 0 {
			fmt.Fprintf(os.Stderr, "%d root moves disagree with dragontoothmg\n", bad)
			os.Exit(1)
		}
		fmt.Println("verify: ok")
	}
}

// parallelDivide counts every root move on its own clone of pos.
func parallelDivide(pos *board.Position, depth int) ([]board.DivideEntry, error) {
	moves := pos.LegalMoves()
	entries := make([]board.DivideEntry, len(moves))
	var g errgroup.Group
	for i, m := range moves {
		child := pos.Clone()
		g.Go(func() error {
			child.MakeMove(m)
			entries[i] = board.DivideEntry{Move: m, Nodes: child.Perft(depth - 1)}
			return child.Validate()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	board.SortDivide(entries)
	return entries, nil
}

// verifyDivide compares entries with an independent generator and reports
// the number of mismatching root moves.
func verifyDivide(fen string, depth int, entries []board.DivideEntry) int {
	b := dragontoothmg.ParseFen(fen)
	want := make(map[string]uint64)
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		want[m.String()] = referencePerft(&b, depth-1)
		unapply()
	}

	bad := 0
	for _, e := range entries {
		n, ok := want[e.Move.String()]
		if !ok || n != e.Nodes {
			fmt.Fprintf(os.Stderr, "%s: got %d, want %d\n", e.Move, e.Nodes, n)
			bad++
		}
		delete(want, e.Move.String())
	}
	for m, n := range want {
		fmt.Fprintf(os.Stderr, "%s: missing, want %d\n", m, n)
		bad++
	}
	return bad
}

func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}
