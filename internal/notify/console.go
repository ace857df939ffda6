package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ConsoleSender prints the report to a writer. Used by the one-shot
// binary so the report is visible even with no outbound channels.
type ConsoleSender struct {
	w io.Writer
}

// NewConsoleSender creates a sender writing to stdout.
func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{w: os.Stdout}
}

// Send writes the full report text.
func (c *ConsoleSender) Send(ctx context.Context, r Report) error {
	fmt.Fprintln(c.w, "-------------------------------------------")
	for _, chunk := range r.Chunks {
		fmt.Fprint(c.w, chunk)
	}
	fmt.Fprintln(c.w, "\n-------------------------------------------")
	return nil
}

// Name returns the channel identifier.
func (c *ConsoleSender) Name() string {
	return "console"
}
