package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"chess-core/board"
	"chess-core/engine"
)

const (
	engineName   = "chess-core"
	engineAuthor = "the chess-core authors"
	minHashMB    = 1
	maxHashMB    = 4096
)

func main() {
	newUCI(os.Stdout).loop(os.Stdin)
}

// uci drives one engine from protocol commands. Searches run on their own
// goroutine; every line of output goes through println so info and
// bestmove lines never interleave.
type uci struct {
	outMu sync.Mutex
	out   io.Writer

	engine *engine.Engine
	pos    *board.Position
	hashMB int

	cancel   context.CancelFunc
	done     chan struct{}
	infinite bool
}

func newUCI(out io.Writer) *uci {
	return &uci{
		out:    out,
		engine: engine.NewEngine(engine.Options{HashMB: engine.DefaultHashMB}),
		pos:    board.NewPosition(),
		hashMB: engine.DefaultHashMB,
	}
}

func (u *uci) println(a ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, a...)
}

func (u *uci) printf(format string, a ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, a...)
}

// loop reads commands until quit or end of input. At end of input a running
// fixed search is allowed to finish; an infinite one is stopped.
func (u *uci) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		if !u.handle(tokens) {
			u.stopSearch()
			return
		}
	}
	if u.infinite {
		u.stopSearch()
	}
	u.waitSearch()
}

// handle runs one command and reports whether the loop should continue.
func (u *uci) handle(tokens []string) bool {
	switch strings.ToLower(tokens[0]) {
	case "uci":
		u.println("id name", engineName)
		u.println("id author", engineAuthor)
		u.printf("option name Hash type spin default %d min %d max %d\n", engine.DefaultHashMB, minHashMB, maxHashMB)
		u.println("option name Clear Hash type button")
		u.println("uciok")
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.stopSearch()
		u.engine.NewGame()
		u.pos = board.NewPosition()
	case "position":
		u.stopSearch()
		pos, err := parsePosition(tokens[1:])
		if err != nil {
			u.println("info string", err)
			return true
		}
		u.pos = pos
	case "go":
		u.stopSearch()
		limits, perft := parseGo(tokens[1:], func(msg string) { u.println("info string", msg) })
		if perft > 0 {
			u.perft(perft)
			return true
		}
		u.startSearch(limits)
	case "stop":
		u.stopSearch()
	case "setoption":
		u.stopSearch()
		u.setOption(tokens[1:])
	case "d":
		u.display()
	case "eval":
		u.printf("info string eval %d phase %d\n", engine.Evaluate(u.pos), engine.GamePhase(u.pos))
	case "quit":
		return false
	default:
		u.println("info string Unknown command", tokens[0])
	}
	return true
}

// parsePosition handles "startpos [moves ...]" and "fen <fields> [moves ...]".
func parsePosition(args []string) (*board.Position, error) {
	if len(args) == 0 {
		return nil, errors.New("Malformed position command")
	}
	var (
		pos  *board.Position
		rest []string
		err  error
	)
	switch strings.ToLower(args[0]) {
	case "startpos":
		pos = board.NewPosition()
		rest = args[1:]
	case "fen":
		i := 1
		for i < len(args) && strings.ToLower(args[i]) != "moves" {
			i++
		}
		if i == 1 {
			return nil, errors.New("Invalid fen position")
		}
		if pos, err = board.ParseFEN(strings.Join(args[1:i], " ")); err != nil {
			return nil, err
		}
		rest = args[i:]
	default:
		return nil, fmt.Errorf("Invalid position subcommand %s", args[0])
	}
	if len(rest) == 0 || strings.ToLower(rest[0]) != "moves" {
		return pos, nil
	}
	for _, text := range rest[1:] {
		if _, err := pos.Apply(strings.ToLower(text)); err != nil {
			return nil, fmt.Errorf("Move %s not found for position %s", text, pos.FEN())
		}
	}
	return pos, nil
}

// parseGo converts go arguments into search limits. A positive perft depth
// asks for a move path enumeration instead of a search.
func parseGo(args []string, warn func(string)) (limits engine.Limits, perft int) {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	for i := 0; i < len(args); i++ {
		name := strings.ToLower(args[i])
		switch name {
		case "infinite":
			limits.Infinite = true
			continue
		case "ponder":
			continue
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "nodes", "movetime", "perft":
		default:
			warn("Unknown go subcommand " + name)
			continue
		}
		if i+1 >= len(args) {
			warn("Malformed go command option " + name)
			continue
		}
		i++
		v, err := strconv.Atoi(args[i])
		if err != nil {
			warn("Malformed go command option; could not convert " + name)
			continue
		}
		switch name {
		case "wtime":
			limits.WTime = ms(v)
		case "btime":
			limits.BTime = ms(v)
		case "winc":
			limits.WInc = ms(v)
		case "binc":
			limits.BInc = ms(v)
		case "movestogo":
			limits.MovesToGo = v
		case "depth":
			limits.Depth = v
		case "nodes":
			limits.Nodes = uint64(max(v, 0))
		case "movetime":
			limits.MoveTime = ms(v)
		case "perft":
			perft = v
		}
	}
	return limits, perft
}

func (u *uci) startSearch(limits engine.Limits) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	u.cancel, u.done, u.infinite = cancel, done, limits.Infinite
	pos := u.pos.Clone()

	go func() {
		defer close(done)
		res := u.engine.Search(ctx, pos, limits, u.printInfo)
		if limits.Infinite {
			// bestmove may only follow stop in infinite mode
			<-ctx.Done()
		}
		u.println("bestmove", res.BestMove)
	}()
}

func (u *uci) stopSearch() {
	if u.cancel != nil {
		u.cancel()
	}
	u.waitSearch()
}

func (u *uci) waitSearch() {
	if u.done == nil {
		return
	}
	<-u.done
	u.cancel()
	u.cancel, u.done, u.infinite = nil, nil, false
}

func (u *uci) printInfo(info engine.Info) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d score %s nodes %d nps %d hashfull %d time %d",
		info.Depth, info.SelDepth, engine.FormatScore(info.Score), info.Nodes, info.NPS,
		info.HashFull, info.Time.Milliseconds())
	if len(info.PV) > 0 {
		sb.WriteString(" pv ")
		sb.WriteString(engine.FormatPV(info.PV))
	}
	u.println(sb.String())
}

func (u *uci) perft(depth int) {
	start := time.Now()
	entries := u.pos.Divide(depth)
	for _, e := range entries {
		u.printf("%s: %d\n", e.Move, e.Nodes)
	}
	u.printf("\nNodes searched: %d\n", board.DivideTotal(entries))
	u.printf("info string perft %d took %s\n", depth, time.Since(start).Round(time.Millisecond))
}

// setOption handles "name <id...> [value <x>]".
func (u *uci) setOption(args []string) {
	var name, value []string
	target := &name
	for _, tok := range args {
		switch strings.ToLower(tok) {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, tok)
		}
	}
	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		mb, err := strconv.Atoi(strings.Join(value, ""))
		if err != nil {
			u.println("info string Malformed Hash value")
			return
		}
		u.hashMB = engine.Clamp(mb, minHashMB, maxHashMB)
		u.engine.SetHashSize(u.hashMB)
	case "clear hash":
		u.engine.NewGame()
	default:
		u.println("info string Unknown option", strings.Join(name, " "))
	}
}

func (u *uci) display() {
	status := "ok"
	if err := u.pos.Validate(); err != nil {
		status = err.Error()
	}
	u.printf("%s\nFen: %s\nKey: %016X\nCheckers: %v\nValidate: %s\n",
		u.pos, u.pos.FEN(), u.pos.Hash(), u.pos.IsCheck(), status)
}
