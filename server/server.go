// Package server exposes the engine over HTTP and websockets for analysis
// front ends.
package server

import (
	"io"
	"net/http"
	"os"

	"chess-core/engine"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	DefaultMaxDepth = 12
	maxPerftDepth   = 6
)

// Config configures a Server. AccessLog defaults to stdout.
type Config struct {
	HashMB    int
	MaxDepth  int
	AccessLog io.Writer
}

// Server routes the analysis API. All searches share one engine and are
// therefore serialized.
type Server struct {
	router   *mux.Router
	engine   *engine.Engine
	jobs     *JobStore
	upgrader websocket.Upgrader
	maxDepth int
	logOut   io.Writer
}

func NewServer(cfg Config) *Server {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.AccessLog == nil {
		cfg.AccessLog = os.Stdout
	}
	s := &Server{
		router:   mux.NewRouter(),
		engine:   engine.NewEngine(engine.Options{HashMB: cfg.HashMB}),
		jobs:     NewJobStore(),
		maxDepth: cfg.MaxDepth,
		logOut:   cfg.AccessLog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.router.NotFoundHandler = s.accessLogger(http.HandlerFunc(notFound))
	s.router.Use(s.accessLogger)
	s.router.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/legal", s.handleLegal).Methods(http.MethodGet)
	api.HandleFunc("/perft", s.handlePerft).Methods(http.MethodPost)
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/analyze/{id}", s.handleGetAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/ws", s.handleWS)
	return s
}

func (s *Server) accessLogger(next http.Handler) http.Handler {
	return handlers.LoggingHandler(s.logOut, next)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}
