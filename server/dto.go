package server

// AnalyzeRequest is the body of POST /api/analyze and of every websocket
// message. An empty FEN means the start position.
type AnalyzeRequest struct {
	FEN      string   `json:"fen"`
	Moves    []string `json:"moves"`
	Depth    int      `json:"depth"`
	MoveTime int64    `json:"movetime"` // milliseconds
	Nodes    uint64   `json:"nodes"`
}

// AnalysisResult is returned by POST /api/analyze and kept in the job store.
type AnalysisResult struct {
	ID        string   `json:"id"`
	FEN       string   `json:"fen"`
	BestMove  string   `json:"bestmove"`
	Score     int      `json:"score"`
	ScoreText string   `json:"score_text"`
	Depth     int      `json:"depth"`
	Nodes     uint64   `json:"nodes"`
	TimeMs    int64    `json:"time_ms"`
	PV        []string `json:"pv"`
	PVSAN     []string `json:"pv_san"`
}

type LegalMove struct {
	UCI string `json:"uci"`
	SAN string `json:"san"`
}

type LegalResponse struct {
	FEN       string      `json:"fen"`
	Moves     []LegalMove `json:"moves"`
	Check     bool        `json:"check"`
	Checkmate bool        `json:"checkmate"`
	Stalemate bool        `json:"stalemate"`
}

type PerftRequest struct {
	FEN    string `json:"fen"`
	Depth  int    `json:"depth"`
	Divide bool   `json:"divide"`
}

type PerftEntry struct {
	Move  string `json:"move"`
	Nodes uint64 `json:"nodes"`
}

type PerftResponse struct {
	Nodes  uint64       `json:"nodes"`
	Divide []PerftEntry `json:"divide,omitempty"`
}

// StreamMessage is one websocket frame: "info" per completed depth, then
// "bestmove", or "error".
type StreamMessage struct {
	Type     string          `json:"type"`
	Depth    int             `json:"depth,omitempty"`
	SelDepth int             `json:"seldepth,omitempty"`
	Score    string          `json:"score,omitempty"`
	Nodes    uint64          `json:"nodes,omitempty"`
	NPS      uint64          `json:"nps,omitempty"`
	PV       []string        `json:"pv,omitempty"`
	Result   *AnalysisResult `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
