package main

import (
	"log"

	"github.com/joho/godotenv"

	"delivery-dashboard/internal/config"
	"delivery-dashboard/internal/dashboard"
	"delivery-dashboard/internal/httpx"
	"delivery-dashboard/internal/server"
	"delivery-dashboard/internal/snapshot"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	fetcher := snapshot.NewHTTPFetcher(cfg.SnapshotURL)
	if cfg.FetchAttempts > 1 {
		fetcher.Retry = httpx.Attempts(cfg.FetchAttempts)
	}

	pipeline := dashboard.New(fetcher)
	r := server.New(pipeline)

	log.Printf("dashboardd listening on %s (snapshot: %s)", cfg.ListenAddr, cfg.SnapshotURL)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
