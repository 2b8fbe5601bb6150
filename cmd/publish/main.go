// publish runs one pipeline pass and writes the report JSON to disk,
// optionally pushing it to the team's SFTP drop.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"delivery-dashboard/internal/config"
	"delivery-dashboard/internal/dashboard"
	"delivery-dashboard/internal/devutil"
	"delivery-dashboard/internal/httpx"
	"delivery-dashboard/internal/sftpclient"
	"delivery-dashboard/internal/snapshot"
)

func main() {
	var (
		outPath    = flag.String("out", "dashboard.json", "output json path")
		year       = flag.Int("ano", 0, "filter by calendar year (0 = all years)")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated report via SFTP")
		timeout    = flag.Duration("timeout", 5*time.Minute, "overall timeout")
	)
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := config.Load()

	if dir := filepath.Dir(*outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	fetcher := snapshot.NewHTTPFetcher(cfg.SnapshotURL)
	if cfg.FetchAttempts > 1 {
		fetcher.Retry = httpx.Attempts(cfg.FetchAttempts)
	}

	var yearFilter *int
	if *year != 0 {
		yearFilter = year
	}

	report, err := dashboard.New(fetcher).Run(ctx, yearFilter)
	if err != nil {
		log.Fatalf("pipeline error: %v", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("marshal error: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}

	log.Printf("wrote %s (%d bytes): %v", *outPath, len(data),
		devutil.Pick(report, "anoFiltrado", "gerado_em"))
	log.Printf("courses=%d calendar=%d notifications=%d",
		len(report.Courses), len(report.Calendar), len(report.Notifications))

	if *uploadSFTP {
		upCtx, upCancel := context.WithTimeout(ctx, 2*time.Minute)
		defer upCancel()

		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}
		remoteName := filepath.Base(*outPath)
		if err := sftpclient.Upload(upCtx, upCfg, remoteName, data); err != nil {
			log.Fatalf("sftp upload error: %v", err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	}
}
