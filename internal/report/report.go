// Package report formats a snapshot into the plain-text and HTML forms the
// notification channels deliver, and splits the text form into size-bounded
// chunks.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"capitol-monitor/internal/types"
)

// Report headers per pipeline mode.
const (
	HeaderToday = "**Today's Political Stock Transactions:**"
	HeaderNew   = "**New Political Stock Trades Detected:**"

	emptyNotice = "No transactions reported today."

	// DefaultChunkSize keeps chunks under chat-channel payload limits.
	DefaultChunkSize = 1800
)

// Render produces the full plain-text report: the header, a blank line,
// then a fixed-width table of every record in input order. Identical input
// always renders identically. An empty input renders the empty notice
// instead of a table; the result must still be dispatched so that "no
// news" is observable downstream.
func Render(records types.Snapshot, header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	if len(records) == 0 {
		b.WriteString(emptyNotice)
		return b.String()
	}

	withDate := false
	withContext := false
	for _, r := range records {
		if r.TradeDate != "" {
			withDate = true
		}
		if r.MarketContext != "" || r.TrendNote != "" {
			withContext = true
		}
	}

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	cols := []string{"Politician", "Stock", "Ticker", "Type", "Shares", "Price", "Total Amount"}
	if withDate {
		cols = append(cols, "Trade Date")
	}
	fmt.Fprintln(w, strings.Join(cols, "\t"))

	for _, r := range records {
		fields := []string{r.Politician, r.Stock, r.Ticker, string(r.Direction), r.Shares, r.Price, r.Total.String()}
		if withDate {
			fields = append(fields, r.TradeDate)
		}
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}
	w.Flush()

	if withContext {
		b.WriteString("\n")
		for _, r := range records {
			if r.MarketContext == "" && r.TrendNote == "" {
				continue
			}
			fmt.Fprintf(&b, "%s (%s):\n", r.Politician, r.Ticker)
			if r.MarketContext != "" {
				fmt.Fprintf(&b, "  %s\n", r.MarketContext)
			}
			if r.TrendNote != "" {
				fmt.Fprintf(&b, "  Trend Analysis: %s\n", r.TrendNote)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Chunk splits text into pieces of at most size bytes. Splitting is pure
// length-based slicing: it may cut mid-row, which is a deliberate
// simplicity trade-off, but a cut never lands inside a multi-byte rune,
// so every chunk is valid UTF-8 on its own. Concatenating the chunks in
// order reproduces the input exactly. Empty text yields no chunks.
func Chunk(text string, size int) []string {
	if size < 1 {
		size = DefaultChunkSize
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= size {
			chunks = append(chunks, text)
			break
		}
		cut := size
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			// size is smaller than the first rune; emit it whole.
			_, cut = utf8.DecodeRuneInString(text)
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	return chunks
}
