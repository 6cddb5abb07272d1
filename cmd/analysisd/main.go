package main

import (
	"flag"
	"log"
	"net/http"

	"chess-core/engine"
	"chess-core/server"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	hash := flag.Int("hash", engine.DefaultHashMB, "transposition table size in MiB")
	maxDepth := flag.Int("max-depth", server.DefaultMaxDepth, "upper bound on requested search depth")
	flag.Parse()

	srv := server.NewServer(server.Config{HashMB: *hash, MaxDepth: *maxDepth})
	log.Printf("analysis server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
