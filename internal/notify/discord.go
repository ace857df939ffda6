package notify

import (
	"context"
	"fmt"
	"time"

	"capitol-monitor/internal/api"
	"capitol-monitor/internal/logger"
)

// DiscordSender delivers each report chunk as its own webhook payload,
// wrapped in a fixed-width code block.
type DiscordSender struct {
	webhookURL string
	client     *api.Client
}

// NewDiscordSender creates a sender for the given webhook URL with a
// default 10-second HTTP timeout.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client: api.NewClient(
			api.WithTimeout(10*time.Second),
			api.WithLogging(true),
		),
	}
}

// Send posts every chunk in order. A failed chunk is recorded but the
// remaining chunks are still attempted.
func (d *DiscordSender) Send(ctx context.Context, r Report) error {
	var firstErr error
	for i, chunk := range r.Chunks {
		if err := d.postChunk(ctx, chunk); err != nil {
			logger.Warn(ctx, "Discord chunk delivery failed", "chunk", i, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (d *DiscordSender) postChunk(ctx context.Context, chunk string) error {
	payload := map[string]string{
		"content": fmt.Sprintf("```%s```", chunk),
	}

	resp, err := d.client.POST(ctx, d.webhookURL, payload)
	if err != nil {
		return fmt.Errorf("discord: %w", err)
	}

	// Discord returns 204 No Content on success.
	logger.Debug(ctx, "Discord response", "status", resp.StatusCode)
	return nil
}

// Name returns the channel identifier.
func (d *DiscordSender) Name() string {
	return "discord"
}
