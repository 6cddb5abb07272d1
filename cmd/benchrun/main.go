package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
)

// run executes a command and prints its combined output. Returns exit code.
func run(name string, args ...string) int {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	fmt.Print(out.String())
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error running %s: %v\n", name, err)
	return 1
}

var perftSuite = []struct {
	label string
	fen   string
	depth string
}{
	{"Initial", "", "4"},
	{"Initial", "", "5"},
	{"Kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "3"},
	{"Kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "4"},
	{"Position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", "5"},
}

// Runs the micro benchmarks in ./bench, the perft suite and the search
// bench. Usage: go run ./cmd/benchrun [-benchtime 1s] [-searchdepth 8]
func main() {
	benchtime := flag.String("benchtime", "1s", "go test -benchtime value")
	searchDepth := flag.String("searchdepth", "8", "depth passed to searchbench")
	flag.Parse()

	// Format: BenchmarkName  Iterations  ns/op  B/op  allocs/op
	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	code := run("go", "test", "./bench", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime="+*benchtime)
	if code != 0 {
		os.Exit(code)
	}

	fmt.Println("\nPerft Performance:")
	fmt.Println("TEST \t\tDepth \t\tNodes \t\tTime \tNPS")
	for _, p := range perftSuite {
		args := []string{"run", "./cmd/perft", "-depth", p.depth, "-label", p.label}
		if p.fen != "" {
			args = append(args, "-fen", p.fen)
		}
		run("go", args...)
	}

	fmt.Println("\nSearch Performance:")
	os.Exit(run("go", "run", "./cmd/searchbench", "-depth", *searchDepth))
}
