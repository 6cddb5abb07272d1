package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"chess-core/board"
	"chess-core/engine"
	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// loadPosition parses fen (the start position when empty) and plays moves
// on top of it.
func loadPosition(fen string, moves []string) (*board.Position, error) {
	if fen == "" {
		fen = board.StartFEN
	}
	p, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	for _, text := range moves {
		if _, err := p.Apply(text); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	p, err := loadPosition(r.URL.Query().Get("fen"), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fen := p.FEN()
	legal := p.LegalMoves()
	resp := LegalResponse{
		FEN:       fen,
		Moves:     make([]LegalMove, 0, len(legal)),
		Check:     p.IsCheck(),
		Checkmate: p.IsCheckmate(),
		Stalemate: p.IsStalemate(),
	}
	san := legalSAN(fen)
	for _, m := range legal {
		resp.Moves = append(resp.Moves, LegalMove{UCI: m.String(), SAN: san[m.String()]})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePerft(w http.ResponseWriter, r *http.Request) {
	var req PerftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Depth < 1 || req.Depth > maxPerftDepth {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("depth must be between 1 and %d", maxPerftDepth))
		return
	}
	p, err := loadPosition(req.FEN, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Divide {
		writeJSON(w, http.StatusOK, PerftResponse{Nodes: p.Perft(req.Depth)})
		return
	}
	entries := p.Divide(req.Depth)
	resp := PerftResponse{
		Nodes:  board.DivideTotal(entries),
		Divide: make([]PerftEntry, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Divide = append(resp.Divide, PerftEntry{Move: e.Move.String(), Nodes: e.Nodes})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	res, err := s.analyze(r.Context(), req, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jobs.Add(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	res, err := s.jobs.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// limitsFor turns a request into search limits. Depth is always capped at
// the server maximum so a request without limits still terminates.
func (s *Server) limitsFor(req AnalyzeRequest) engine.Limits {
	depth := req.Depth
	if depth <= 0 || depth > s.maxDepth {
		depth = s.maxDepth
	}
	l := engine.Limits{Depth: depth, Nodes: req.Nodes}
	if req.MoveTime > 0 {
		l.MoveTime = time.Duration(req.MoveTime) * time.Millisecond
	}
	return l
}

func (s *Server) analyze(ctx context.Context, req AnalyzeRequest, onInfo func(engine.Info)) (*AnalysisResult, error) {
	if req.Depth < 0 {
		return nil, errors.New("depth must not be negative")
	}
	p, err := loadPosition(req.FEN, req.Moves)
	if err != nil {
		return nil, err
	}
	fen := p.FEN()
	start := time.Now()
	r := s.engine.Search(ctx, p, s.limitsFor(req), onInfo)

	res := &AnalysisResult{
		FEN:       fen,
		BestMove:  "0000",
		Score:     r.Score,
		ScoreText: engine.FormatScore(r.Score),
		Depth:     r.Depth,
		Nodes:     r.Nodes,
		TimeMs:    time.Since(start).Milliseconds(),
		PV:        moveStrings(r.PV),
		PVSAN:     sanLine(fen, r.PV),
	}
	if r.BestMove != board.NoMove {
		res.BestMove = r.BestMove.String()
	}
	return res, nil
}

func moveStrings(moves []board.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
