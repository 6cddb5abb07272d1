package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"chess-core/engine"
	"chess-core/epd"
)

func main() {
	file := flag.String("file", "", "EPD suite to run (required)")
	moveTime := flag.Duration("movetime", time.Second, "time per position")
	depth := flag.Int("depth", 0, "fixed depth per position (0 = use movetime only)")
	hash := flag.Int("hash", engine.DefaultHashMB, "transposition table size in MiB")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "-file is required")
		os.Exit(2)
	}
	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open suite: %v", err)
	}
	records, err := epd.Load(f)
	f.Close()
	if err != nil {
		log.Fatalf("load suite: %v", err)
	}

	eng := engine.NewEngine(engine.Options{HashMB: *hash})
	limits := engine.Limits{MoveTime: *moveTime, Depth: *depth}

	solved := 0
	var nodes uint64
	start := time.Now()
	for i, rec := range records {
		eng.NewGame()
		res := eng.Search(context.Background(), rec.Position, limits, nil)
		nodes += res.Nodes

		id := rec.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i+1)
		}
		status := "FAIL"
		if rec.Solved(res.BestMove) {
			status = "ok"
			solved++
		}
		fmt.Printf("%-4s %-12s bestmove %-6s score %-8s depth %d\n",
			status, id, res.BestMove, engine.FormatScore(res.Score), res.Depth)
	}
	fmt.Printf("\nsolved %d/%d  nodes %d  time %v\n", solved, len(records), nodes, time.Since(start).Round(time.Millisecond))
}
