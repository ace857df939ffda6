package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"capitol-monitor/internal/enrich"
	"capitol-monitor/internal/logger"
	"capitol-monitor/internal/monitor"
	"capitol-monitor/internal/notify"
	"capitol-monitor/internal/reportlog"
	"capitol-monitor/internal/scraper"
	"capitol-monitor/internal/snapshot"
	"capitol-monitor/internal/store"
	"capitol-monitor/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem loads the environment and brings up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// buildMonitor wires the pipeline from config. Credentials are read from
// the environment here, at the edge, and passed in as plain parameters;
// the components themselves never touch ambient state.
func buildMonitor(ctx context.Context, cfg *store.Config) *monitor.Monitor {
	fetcher := scraper.New(
		cfg.SourceURL,
		cfg.Scrape.ExpectDateColumn,
		time.Duration(cfg.Scrape.TimeoutSeconds)*time.Second,
	)
	st := snapshot.NewStore(cfg.Snapshot.Path)

	var news enrich.NewsProvider
	if cfg.News.Enabled {
		apiKey := os.Getenv(cfg.News.APIKeyEnv)
		if apiKey == "" {
			logger.Warn(ctx, "News enrichment enabled but API key env is empty, disabling",
				"env", cfg.News.APIKeyEnv)
		} else {
			news = enrich.NewNewsAPIClient(
				cfg.News.BaseURL,
				apiKey,
				time.Duration(cfg.News.TimeoutSeconds)*time.Second,
				time.Duration(cfg.News.CacheSeconds)*time.Second,
			)
		}
	}
	engine := enrich.NewEngine(news, time.Now)

	dispatcher := notify.NewDispatcher(buildSenders(ctx, cfg)...)

	var archive *reportlog.Log
	if cfg.ReportLog.Enabled {
		archive = reportlog.New(cfg.ReportLog.Dir)
		if err := archive.CompressOlder(cfg.ReportLog.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old report logs", "error", err)
		}
	}

	return monitor.New(monitor.Config{
		Mode:         monitor.Mode(cfg.Mode),
		ChunkSize:    cfg.Report.ChunkSize,
		PollInterval: time.Duration(cfg.PollSeconds) * time.Second,
	}, fetcher, st, engine, dispatcher, archive)
}

func buildSenders(ctx context.Context, cfg *store.Config) []notify.Sender {
	var senders []notify.Sender

	if cfg.Discord.Enabled {
		url := os.Getenv(cfg.Discord.WebhookURLEnv)
		if url == "" {
			logger.Warn(ctx, "Discord enabled but webhook URL env is empty, skipping channel",
				"env", cfg.Discord.WebhookURLEnv)
		} else {
			senders = append(senders, notify.NewDiscordSender(url))
		}
	}

	if cfg.Email.Enabled {
		senders = append(senders, notify.NewEmailSender(notify.EmailConfig{
			SMTPServer: cfg.Email.SMTPServer,
			SMTPPort:   cfg.Email.SMTPPort,
			Sender:     cfg.Email.Sender,
			Password:   os.Getenv(cfg.Email.PasswordEnv),
			Recipient:  cfg.Email.Recipient,
		}))
	}

	if len(senders) == 0 {
		logger.Warn(ctx, "No notification channels configured, reports will only be archived")
	}
	return senders
}
