package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

const mateInOneFEN = "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(Config{HashMB: 1, MaxDepth: 4, AccessLog: io.Discard}))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getURL(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := getURL(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "ok" {
		t.Fatalf("body %v", body)
	}
}

func TestLegalStartPosition(t *testing.T) {
	ts := newTestServer(t)
	resp := getURL(t, ts.URL+"/api/legal")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var lr LegalResponse
	decode(t, resp, &lr)
	if len(lr.Moves) != 20 {
		t.Fatalf("got %d moves, want 20", len(lr.Moves))
	}
	want := map[string]string{"e2e4": "e4", "g1f3": "Nf3", "b1a3": "Na3"}
	for _, m := range lr.Moves {
		if san, ok := want[m.UCI]; ok && m.SAN != san {
			t.Errorf("%s: SAN %q, want %q", m.UCI, m.SAN, san)
		}
	}
	if lr.Check || lr.Checkmate || lr.Stalemate {
		t.Fatalf("unexpected flags %+v", lr)
	}
}

func TestLegalFlags(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		fen    string
		check  bool
		mate   bool
		stalem bool
	}{
		{"7k/6Q1/6K1/8/8/8/8/8 b - - 0 1", true, true, false},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, false, true},
		{"4k3/8/8/8/8/8/4Q3/4K3 b - - 0 1", true, false, false},
	}
	for _, tt := range tests {
		resp := getURL(t, ts.URL+"/api/legal?fen="+strings.ReplaceAll(tt.fen, " ", "+"))
		var lr LegalResponse
		decode(t, resp, &lr)
		if lr.Check != tt.check || lr.Checkmate != tt.mate || lr.Stalemate != tt.stalem {
			t.Errorf("%s: got %+v", tt.fen, lr)
		}
		if (tt.mate || tt.stalem) && len(lr.Moves) != 0 {
			t.Errorf("%s: terminal position lists %d moves", tt.fen, len(lr.Moves))
		}
	}
}

func TestLegalRejectsBadFEN(t *testing.T) {
	ts := newTestServer(t)
	resp := getURL(t, ts.URL+"/api/legal?fen=not+a+fen")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	var body errorResponse
	decode(t, resp, &body)
	if body.Error == "" {
		t.Fatal("missing error message")
	}
}

func TestPerft(t *testing.T) {
	ts := newTestServer(t)

	var pr PerftResponse
	resp := postJSON(t, ts.URL+"/api/perft", PerftRequest{Depth: 3})
	decode(t, resp, &pr)
	if pr.Nodes != 8902 || len(pr.Divide) != 0 {
		t.Fatalf("got %+v, want 8902 nodes without divide", pr)
	}

	resp = postJSON(t, ts.URL+"/api/perft", PerftRequest{Depth: 2, Divide: true})
	pr = PerftResponse{}
	decode(t, resp, &pr)
	if pr.Nodes != 400 || len(pr.Divide) != 20 {
		t.Fatalf("got %d nodes and %d entries", pr.Nodes, len(pr.Divide))
	}
	for _, e := range pr.Divide {
		if e.Nodes != 20 {
			t.Errorf("%s: %d nodes, want 20", e.Move, e.Nodes)
		}
	}
}

func TestPerftRejectsDepth(t *testing.T) {
	ts := newTestServer(t)
	for _, depth := range []int{0, maxPerftDepth + 1} {
		resp := postJSON(t, ts.URL+"/api/perft", PerftRequest{Depth: depth})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("depth %d: status %d, want 400", depth, resp.StatusCode)
		}
	}
}

func TestBadJSON(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/perft", "/api/analyze"} {
		resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader("{"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestAnalyzeFindsMate(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/analyze", AnalyzeRequest{FEN: mateInOneFEN, Depth: 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var res AnalysisResult
	decode(t, resp, &res)
	if res.BestMove != "d1d8" {
		t.Fatalf("bestmove %s, want d1d8", res.BestMove)
	}
	if res.ScoreText != "mate 1" {
		t.Errorf("score %q, want mate 1", res.ScoreText)
	}
	if len(res.PVSAN) == 0 || res.PVSAN[0] != "Rd8#" {
		t.Errorf("pv_san %v", res.PVSAN)
	}
	if res.ID == "" {
		t.Fatal("missing id")
	}

	var stored AnalysisResult
	decode(t, getURL(t, ts.URL+"/api/analyze/"+res.ID), &stored)
	if stored.ID != res.ID || stored.BestMove != res.BestMove {
		t.Fatalf("stored %+v, want %+v", stored, res)
	}
}

func TestAnalyzeUnknownID(t *testing.T) {
	ts := newTestServer(t)
	resp := getURL(t, ts.URL+"/api/analyze/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
}

func TestAnalyzeAppliesMoves(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/analyze", AnalyzeRequest{Moves: []string{"e2e4", "e7e5"}, Depth: 2})
	var res AnalysisResult
	decode(t, resp, &res)
	if !strings.HasPrefix(res.FEN, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w") {
		t.Fatalf("fen %q", res.FEN)
	}
	if res.Depth > 2 || res.BestMove == "0000" {
		t.Fatalf("result %+v", res)
	}

	resp = postJSON(t, ts.URL+"/api/analyze", AnalyzeRequest{Moves: []string{"e2e5"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("illegal move: status %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeCapsDepth(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/analyze", AnalyzeRequest{Depth: 50})
	var res AnalysisResult
	decode(t, resp, &res)
	if res.Depth > 4 {
		t.Fatalf("depth %d exceeds server maximum 4", res.Depth)
	}
}

func TestAnalyzeTerminal(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/analyze", AnalyzeRequest{FEN: "7k/6Q1/6K1/8/8/8/8/8 b - - 0 1"})
	var res AnalysisResult
	decode(t, resp, &res)
	if res.BestMove != "0000" {
		t.Fatalf("bestmove %s in checkmate", res.BestMove)
	}
}

func TestWebsocketStreamsInfo(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	if err := conn.WriteJSON(AnalyzeRequest{FEN: mateInOneFEN, Depth: 3}); err != nil {
		t.Fatal(err)
	}
	infos := 0
	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type == "info" {
			infos++
			continue
		}
		if msg.Type != "bestmove" || msg.Result == nil {
			t.Fatalf("unexpected message %+v", msg)
		}
		if msg.Result.BestMove != "d1d8" {
			t.Fatalf("bestmove %s", msg.Result.BestMove)
		}
		break
	}
	if infos == 0 {
		t.Fatal("no info messages before bestmove")
	}

	if err := conn.WriteJSON(AnalyzeRequest{FEN: "bad"}); err != nil {
		t.Fatal(err)
	}
	var msg StreamMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "error" || msg.Error == "" {
		t.Fatalf("got %+v, want error", msg)
	}
}

func TestJobStore(t *testing.T) {
	s := NewJobStore()
	a := &AnalysisResult{BestMove: "e2e4"}
	b := &AnalysisResult{BestMove: "d2d4"}
	ida, idb := s.Add(a), s.Add(b)
	if ida == idb || a.ID != ida {
		t.Fatalf("ids %q %q", ida, idb)
	}
	got, err := s.Get(idb)
	if err != nil || got.BestMove != "d2d4" {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := s.Get("missing"); err != errJobNotFound {
		t.Fatalf("err %v, want errJobNotFound", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len %d", s.Len())
	}
}
