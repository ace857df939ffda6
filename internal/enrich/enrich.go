// Package enrich attaches a market-context headline and a trend
// classification to newly detected trade records.
package enrich

import (
	"context"
	"time"

	"capitol-monitor/internal/logger"
	"capitol-monitor/internal/types"
)

// Trend labels. The trend heuristic is a simple strict-majority count over
// the actor's trailing window; a tie or an empty window is "no trend".
const (
	trendBuying  = "This politician has been consistently buying this stock in recent weeks."
	trendSelling = "This politician has been offloading shares of this stock recently."
	trendNone    = "No clear trend detected."
)

const (
	trendWindowDays = 30
	dateLayout      = "2006-01-02"
)

// Engine annotates records with market context and trend notes. A nil
// news provider disables context lookups; records still flow through.
type Engine struct {
	news NewsProvider
	now  func() time.Time
}

// NewEngine creates an engine. news may be nil to disable market context.
func NewEngine(news NewsProvider, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{news: news, now: now}
}

// Annotate fills the enrichment fields of every record. The trend note is
// derived from fullSnapshot, the complete currently-known universe of
// trades, not just the records being annotated. Per-record news failures
// are independent and never abort the pass.
func (e *Engine) Annotate(ctx context.Context, records, fullSnapshot types.Snapshot) types.Snapshot {
	out := make(types.Snapshot, len(records))
	copy(out, records)

	for i := range out {
		if e.news != nil {
			out[i].MarketContext = e.news.MarketContext(ctx, out[i].Ticker)
		}
		out[i].TrendNote = e.TrendNote(out[i].Politician, fullSnapshot)
	}

	logger.Debug(ctx, "Records annotated", "count", len(out))
	return out
}

// TrendNote classifies the actor's recent bias: every record by the same
// politician dated within the trailing 30 calendar days of today is
// counted by direction, and only a strict majority yields a label.
func (e *Engine) TrendNote(politician string, fullSnapshot types.Snapshot) string {
	cutoff := e.now().AddDate(0, 0, -trendWindowDays).Format(dateLayout)
	today := e.now().Format(dateLayout)

	var buys, sells int
	for _, r := range fullSnapshot {
		if r.Politician != politician || r.TradeDate == "" {
			continue
		}
		// ISO dates compare correctly as strings.
		if r.TradeDate < cutoff || r.TradeDate > today {
			continue
		}
		switch r.Direction {
		case types.DirectionBuy:
			buys++
		case types.DirectionSell:
			sells++
		case types.DirectionUnknown:
			// Unclassifiable trades carry no directional signal.
		}
	}

	switch {
	case buys > sells:
		return trendBuying
	case sells > buys:
		return trendSelling
	default:
		return trendNone
	}
}
