// Package monitor orchestrates one fetch, diff, enrich, render, dispatch,
// persist cycle and the continuous loop around it.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"capitol-monitor/internal/diff"
	"capitol-monitor/internal/logger"
	"capitol-monitor/internal/notify"
	"capitol-monitor/internal/report"
	"capitol-monitor/internal/reportlog"
	"capitol-monitor/internal/types"
)

// Mode selects which records a cycle reports on.
type Mode string

const (
	// ModeAllTrades notifies on any drift from the stored snapshot and
	// persists the new one afterwards.
	ModeAllTrades Mode = "ALL_TRADES"
	// ModeTodayOnly reports same-day disclosures on every invocation,
	// including an explicit empty report, and never persists.
	ModeTodayOnly Mode = "TODAY_ONLY"
)

const (
	subjectNew   = "New Political Stock Transactions Detected"
	subjectToday = "Today's Political Stock Transactions"
)

// Fetcher retrieves the current snapshot from the source.
type Fetcher interface {
	Fetch(ctx context.Context) (types.Snapshot, error)
}

// Store owns the durable snapshot between cycles.
type Store interface {
	Load(ctx context.Context) types.Snapshot
	Save(ctx context.Context, snap types.Snapshot) error
}

// Annotator attaches enrichment fields to the records being reported.
type Annotator interface {
	Annotate(ctx context.Context, records, fullSnapshot types.Snapshot) types.Snapshot
}

// Dispatcher fans the rendered report out to the configured channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, r notify.Report) error
}

// Config holds the orchestration knobs; credentials and transports live in
// the injected collaborators, never read from the environment here.
type Config struct {
	Mode         Mode
	ChunkSize    int
	PollInterval time.Duration
	Now          func() time.Time
}

// Monitor runs cycles. A single cycle owns the snapshot for its duration;
// the external trigger ensures cycles do not overlap.
type Monitor struct {
	cfg        Config
	fetcher    Fetcher
	store      Store
	enricher   Annotator
	dispatcher Dispatcher
	archive    *reportlog.Log
}

// New wires a monitor. enricher may be nil (records flow through with
// empty enrichment fields); archive may be nil to disable report logging.
func New(cfg Config, f Fetcher, st Store, e Annotator, d Dispatcher, archive *reportlog.Log) *Monitor {
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = report.DefaultChunkSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Monitor{
		cfg:        cfg,
		fetcher:    f,
		store:      st,
		enricher:   e,
		dispatcher: d,
		archive:    archive,
	}
}

// RunCycle performs exactly one cycle. Delivery failures are logged and
// isolated; the returned error reflects only conditions the invoker must
// know about: a failed source fetch, or a failed snapshot write (silent
// loss of the snapshot would repeat every notification next cycle).
func (m *Monitor) RunCycle(ctx context.Context) error {
	op := logger.StartOperation(ctx, "monitor.cycle", "mode", string(m.cfg.Mode))
	ctx = op.GetContext()

	fresh, err := m.fetcher.Fetch(ctx)
	if err != nil {
		op.EndWithError(err)
		return fmt.Errorf("source fetch failed: %w", err)
	}

	var (
		selected types.Snapshot
		header   string
		subject  string
	)
	switch m.cfg.Mode {
	case ModeTodayOnly:
		selected = diff.TodayOnly(fresh, m.cfg.Now())
		header = report.HeaderToday
		subject = subjectToday
	default:
		if !diff.HasChanged(fresh, m.store.Load(ctx)) {
			logger.Cycle(ctx, false, len(fresh))
			op.End("changed", false)
			return nil
		}
		selected = fresh
		header = report.HeaderNew
		subject = subjectNew
	}

	if m.enricher != nil {
		selected = m.enricher.Annotate(ctx, selected, fresh)
	}

	text := report.Render(selected, header)
	chunks := report.Chunk(text, m.cfg.ChunkSize)
	html, err := report.RenderHTML(selected, strings.Trim(header, "*"))
	if err != nil {
		logger.ErrorWithErr(ctx, "HTML render failed, email body degraded", err)
		html = text
	}

	// Delivery outcome deliberately does not gate persistence: the
	// snapshot is saved once dispatch has been attempted.
	if err := m.dispatcher.Dispatch(ctx, notify.Report{
		Subject: subject,
		HTML:    html,
		Chunks:  chunks,
	}); err != nil {
		logger.Warn(ctx, "Some channels failed", "error", err)
	}

	if m.archive != nil {
		if err := m.archive.Append(reportlog.Entry{
			Mode:    string(m.cfg.Mode),
			Records: len(selected),
			Chunks:  len(chunks),
			Report:  text,
		}); err != nil {
			logger.Warn(ctx, "Report archive write failed", "error", err)
		}
	}

	if m.cfg.Mode != ModeTodayOnly {
		if err := m.store.Save(ctx, fresh); err != nil {
			op.EndWithError(err)
			return fmt.Errorf("snapshot write failed: %w", err)
		}
	}

	logger.Cycle(ctx, true, len(selected))
	op.End("changed", true, "records", len(selected))
	return nil
}

// Run executes one cycle immediately, then one per poll interval until the
// context is cancelled. Cycle errors are logged, never fatal to the loop.
func (m *Monitor) Run(ctx context.Context) {
	if err := m.RunCycle(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Cycle failed", err)
	}

	tick := time.NewTicker(m.cfg.PollInterval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if err := m.RunCycle(ctx); err != nil {
				logger.ErrorWithErr(ctx, "Cycle failed", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
