package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"chess-core/board"
	"chess-core/engine"
)

var benchPositions = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
	"6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1",
}

func main() {
	depthFlag := flag.Int("depth", 8, "search depth in plies")
	hashFlag := flag.Int("hash", engine.DefaultHashMB, "transposition table size in MiB")
	fenFlag := flag.String("fen", "", "search only this FEN")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fens := benchPositions
	if *fenFlag != "" {
		fens = []string{*fenFlag}
	}

	eng := engine.NewEngine(engine.Options{HashMB: *hashFlag})
	fmt.Printf("searchbench: positions=%d depth=%d hash=%dMB\n", len(fens), *depthFlag, *hashFlag)

	var totalNodes uint64
	startAll := time.Now()
	for i, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			log.Fatalf("position %d: %v", i+1, err)
		}
		eng.NewGame()

		start := time.Now()
		res := eng.Search(context.Background(), pos, engine.Limits{Depth: *depthFlag}, nil)
		elapsed := time.Since(start)
		totalNodes += res.Nodes

		fmt.Printf("position %d: bestmove %s score %s depth %d nodes %d time=%v\n",
			i+1, res.BestMove, engine.FormatScore(res.Score), res.Depth, res.Nodes, elapsed.Round(time.Millisecond))
	}
	totalElapsed := time.Since(startAll)
	nps := uint64(float64(totalNodes) / totalElapsed.Seconds())
	fmt.Printf("total nodes: %d\ntotal time: %v\nnps: %d\n", totalNodes, totalElapsed.Round(time.Millisecond), nps)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
