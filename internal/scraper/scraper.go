package scraper

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"capitol-monitor/internal/logger"
	"capitol-monitor/internal/types"
)

// Scraper extracts disclosed transactions from the source's tabular page.
type Scraper struct {
	sourceURL  string
	expectDate bool
	timeout    time.Duration
}

// New creates a scraper for the given source URL. expectDate selects the
// 7-column table layout (with a trade-date column) over the 6-column one.
func New(sourceURL string, expectDate bool, timeout time.Duration) *Scraper {
	return &Scraper{
		sourceURL:  sourceURL,
		expectDate: expectDate,
		timeout:    timeout,
	}
}

// Fetch retrieves the source page and extracts all table rows in document
// order. Rows with fewer than the minimum column count are skipped.
func (s *Scraper) Fetch(ctx context.Context) (types.Snapshot, error) {
	logger.Info(ctx, "Fetching source page", "url", s.sourceURL)

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(s.sourceURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	// Set user agent to avoid being blocked
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	var trades types.Snapshot
	c.OnHTML("table tbody tr", func(e *colly.HTMLElement) {
		if rec, ok := parseRow(e.DOM, s.expectDate); ok {
			trades = append(trades, rec)
		}
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Source fetch error", err, "url", r.Request.URL.String())
		fetchErr = err
	})

	if err := c.Visit(s.sourceURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", s.sourceURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.sourceURL, fetchErr)
	}

	logger.Info(ctx, "Source page scraped", "url", s.sourceURL, "records", len(trades))
	return trades, nil
}

// Extract parses transactions out of already-retrieved markup. Used by
// Fetch's row handler indirectly and by anything holding a static document.
func (s *Scraper) Extract(r io.Reader) (types.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var trades types.Snapshot
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		if rec, ok := parseRow(row, s.expectDate); ok {
			trades = append(trades, rec)
		}
	})
	return trades, nil
}

// parseRow turns one table row into a record. Column order is fixed:
// politician, stock, ticker, trade type, shares, price, [trade date].
// A short row is rejected, never an error.
func parseRow(row *goquery.Selection, expectDate bool) (types.TradeRecord, bool) {
	minCols := 6
	if expectDate {
		minCols = 7
	}

	cells := row.Find("td")
	if cells.Length() < minCols {
		return types.TradeRecord{}, false
	}

	text := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	rec := types.TradeRecord{
		Politician: text(0),
		Stock:      text(1),
		Ticker:     text(2),
		Direction:  types.ParseDirection(text(3)),
		Shares:     text(4),
		Price:      text(5),
	}
	rec.Total = types.ComputeTotal(rec.Shares, rec.Price)
	if expectDate {
		rec.TradeDate = text(6)
	}
	return rec, true
}

// getDomain extracts the hostname for the collector's allowlist.
func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
