package board

import "testing"

type snapshot struct {
	pieceBB  [pieceTypeCount]uint64
	colorBB  [2]uint64
	squares  [64]Piece
	kingSq   [2]Square
	side     Color
	ep       Square
	castling CastlingRights
	halfmove int
	fullmove int
	hash     uint64
	gamePly  int
}

func snap(p *Position) snapshot {
	return snapshot{p.pieceBB, p.colorBB, p.squares, p.kingSq, p.side, p.ep, p.castling, p.halfmove, p.fullmove, p.hash, p.gamePly}
}

var roundTripFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

// walk makes and undoes every move to the given depth and checks the
// position is restored exactly after each undo.
func walk(t *testing.T, p *Position, depth int) {
	if depth == 0 {
		return
	}
	var ml MoveList
	p.GenerateLegal(&ml)
	for _, m := range ml.Moves() {
		before := snap(p)
		p.MakeMove(m)
		if p.InCheck(p.side.Other()) {
			t.Fatalf("%s left the mover in check: %s", m, p.FEN())
		}
		if h := p.ComputeHash(); h != p.hash {
			t.Fatalf("after %s hash %016x, recomputed %016x", m, p.hash, h)
		}
		walk(t, p, depth-1)
		p.UndoMove()
		if after := snap(p); after != before {
			t.Fatalf("undo %s did not restore the position: %s", m, p.FEN())
		}
	}
}

func TestMakeUndoRoundTrip(t *testing.T) {
	DebugChecks = true
	defer func() { DebugChecks = false }()
	depth := 3
	if testing.Short() {
		depth = 2
	}
	for _, fen := range roundTripFENs {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		walk(t, p, depth)
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	p, err := ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if err != nil {
		t.Fatal(err)
	}
	if p.ep != E3 {
		t.Fatalf("ep: got %s want e3", p.ep)
	}
	before := snap(p)
	p.MakeNullMove()
	if p.side != White || p.ep != NoSquare || p.halfmove != 0 {
		t.Fatalf("null move state: side %s ep %s halfmove %d", p.side, p.ep, p.halfmove)
	}
	if p.hash != p.ComputeHash() {
		t.Fatalf("null move hash mismatch")
	}
	p.UndoNullMove()
	if snap(p) != before {
		t.Fatalf("undo null move did not restore the position")
	}
}

func TestCastlingRightsRevokedForever(t *testing.T) {
	p, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	for _, mv := range []string{"h1h2", "a8a7", "h2h1", "a7a8"} {
		if _, err := p.Apply(mv); err != nil {
			t.Fatal(err)
		}
	}
	if got := p.castling; got != WhiteQueenSide|BlackKingSide {
		t.Fatalf("castling after rook round trips: got %s want Qk", got)
	}
	if _, err := p.ParseMove("e1g1"); err == nil {
		t.Fatalf("e1g1 accepted after the h1 rook moved")
	}
	if _, err := p.ParseMove("e1c1"); err != nil {
		t.Fatalf("e1c1 rejected: %v", err)
	}
}

func TestCaptureOfRookRevokesRight(t *testing.T) {
	p, err := ParseFEN("r3k2r/8/8/8/8/8/6b1/R3K2R b KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, err := p.Apply("g2h1")
	if err != nil {
		t.Fatal(err)
	}
	if m.Kind() != Capture {
		t.Fatalf("kind: got %s want capture", m.Kind())
	}
	if p.CanCastle(WhiteKingSide) || !p.CanCastle(WhiteQueenSide) {
		t.Fatalf("castling after Bxh1: got %s", p.castling)
	}
	p.UndoMove()
	if p.squares[H1] != WhiteRook || !p.CanCastle(WhiteKingSide) {
		t.Fatalf("undo did not restore the rook and right")
	}
}

func TestPromotionAndEnPassantUndo(t *testing.T) {
	p, err := ParseFEN("1n5k/P7/8/3pP3/8/8/8/7K w - d6 0 2")
	if err != nil {
		t.Fatal(err)
	}
	before := snap(p)
	m, err := p.Apply("a7b8n")
	if err != nil {
		t.Fatal(err)
	}
	if m.Kind() != PromotionCapture || p.squares[B8] != WhiteKnight {
		t.Fatalf("promotion capture: kind %s, b8 %s", m.Kind(), p.squares[B8])
	}
	p.UndoMove()
	if snap(p) != before {
		t.Fatalf("promotion undo mismatch")
	}
	m, err = p.Apply("e5d6")
	if err != nil {
		t.Fatal(err)
	}
	if m.Kind() != EnPassant || p.squares[D5] != NoPiece || p.halfmove != 0 {
		t.Fatalf("en passant: kind %s d5 %s halfmove %d", m.Kind(), p.squares[D5], p.halfmove)
	}
	p.UndoMove()
	if snap(p) != before {
		t.Fatalf("en passant undo mismatch")
	}
}

func TestDoublePushSetsEnPassantOnlyWhenCapturable(t *testing.T) {
	p := NewPosition()
	if _, err := p.Apply("e2e4"); err != nil {
		t.Fatal(err)
	}
	if p.ep != NoSquare {
		t.Fatalf("e2e4 from the start set ep %s", p.ep)
	}
	p, err := ParseFEN("4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Apply("e2e4"); err != nil {
		t.Fatal(err)
	}
	if p.ep != E3 {
		t.Fatalf("ep: got %s want e3", p.ep)
	}
	if _, err := p.Apply("d4e3"); err != nil {
		t.Fatal(err)
	}
}

func TestHistoryOverflowPanics(t *testing.T) {
	p := NewPosition()
	p.gamePly = MaxGamePly
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on history overflow")
		}
	}()
	p.MakeNullMove()
}
