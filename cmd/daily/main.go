// One-shot variant: reports today's disclosures and exits. Meant to be
// run from cron or by hand; it does not diff against or update the stored
// snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"capitol-monitor/internal/enrich"
	"capitol-monitor/internal/logger"
	"capitol-monitor/internal/monitor"
	"capitol-monitor/internal/notify"
	"capitol-monitor/internal/scraper"
	"capitol-monitor/internal/snapshot"
	"capitol-monitor/internal/store"
	"capitol-monitor/internal/trace"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx := context.Background()
	defer func() { _ = trace.Shutdown(ctx) }()

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	fetcher := scraper.New(
		cfg.SourceURL,
		cfg.Scrape.ExpectDateColumn,
		time.Duration(cfg.Scrape.TimeoutSeconds)*time.Second,
	)

	var news enrich.NewsProvider
	if cfg.News.Enabled {
		if apiKey := os.Getenv(cfg.News.APIKeyEnv); apiKey != "" {
			news = enrich.NewNewsAPIClient(
				cfg.News.BaseURL,
				apiKey,
				time.Duration(cfg.News.TimeoutSeconds)*time.Second,
				time.Duration(cfg.News.CacheSeconds)*time.Second,
			)
		}
	}

	senders := []notify.Sender{notify.NewConsoleSender()}
	if cfg.Discord.Enabled {
		if url := os.Getenv(cfg.Discord.WebhookURLEnv); url != "" {
			senders = append(senders, notify.NewDiscordSender(url))
		}
	}

	m := monitor.New(monitor.Config{
		Mode:      monitor.ModeTodayOnly,
		ChunkSize: cfg.Report.ChunkSize,
	},
		fetcher,
		snapshot.NewStore(cfg.Snapshot.Path),
		enrich.NewEngine(news, time.Now),
		notify.NewDispatcher(senders...),
		nil,
	)

	if err := m.RunCycle(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Daily report failed", err)
		os.Exit(1)
	}
}
