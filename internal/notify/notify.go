/*
Package notify delivers rendered reports to the configured outbound
channels. Channels are independent: a failure in one never prevents
delivery attempts to the others, and never aborts the cycle.
*/
package notify

import (
	"context"
	"fmt"
	"strings"

	"capitol-monitor/internal/logger"
)

// Report is one rendered notification payload. Chunks carry the size-bounded
// plain-text form for chat channels; HTML carries the single-message form
// for the email channel.
type Report struct {
	Subject string
	HTML    string
	Chunks  []string
}

// Sender is one outbound notification channel.
type Sender interface {
	// Send delivers the report. Implementations own their transport
	// timeouts; a timeout is a failure of the send, not of the cycle.
	Send(ctx context.Context, r Report) error
	// Name returns a human-readable channel identifier.
	Name() string
}

// Dispatcher fans a report out to every configured sender.
type Dispatcher struct {
	senders []Sender
}

// NewDispatcher creates a dispatcher over the given senders. Zero senders
// is valid; Dispatch then does nothing.
func NewDispatcher(senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders}
}

// Dispatch attempts delivery on every channel. Failures are isolated and
// logged per channel; the aggregate error exists for observability only
// and callers must not let it fail the cycle.
func (d *Dispatcher) Dispatch(ctx context.Context, r Report) error {
	var errs []string
	for _, s := range d.senders {
		err := s.Send(ctx, r)
		logger.Delivery(ctx, s.Name(), len(r.Chunks), err)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d channel(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
