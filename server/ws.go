package server

import (
	"fmt"
	"net/http"

	"chess-core/engine"
	"github.com/gorilla/websocket"
)

// handleWS reads one AnalyzeRequest per message and streams an "info" frame
// per completed iteration followed by a "bestmove" frame.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	fmt.Fprintf(s.logOut, "websocket connection from %s\n", conn.RemoteAddr())

	for {
		var req AnalyzeRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				fmt.Fprintf(s.logOut, "websocket read: %v\n", err)
			}
			return
		}

		var writeErr error
		onInfo := func(info engine.Info) {
			if writeErr != nil {
				return
			}
			writeErr = conn.WriteJSON(StreamMessage{
				Type:     "info",
				Depth:    info.Depth,
				SelDepth: info.SelDepth,
				Score:    engine.FormatScore(info.Score),
				Nodes:    info.Nodes,
				NPS:      info.NPS,
				PV:       moveStrings(info.PV),
			})
		}
		res, err := s.analyze(r.Context(), req, onInfo)
		if err != nil {
			writeErr = conn.WriteJSON(StreamMessage{Type: "error", Error: err.Error()})
		} else if writeErr == nil {
			s.jobs.Add(res)
			writeErr = conn.WriteJSON(StreamMessage{Type: "bestmove", Result: res})
		}
		if writeErr != nil {
			fmt.Fprintf(s.logOut, "websocket write: %v\n", writeErr)
			return
		}
	}
}
