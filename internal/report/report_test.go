package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capitol-monitor/internal/types"
)

func records() types.Snapshot {
	return types.Snapshot{
		{
			Politician: "Jane Doe",
			Stock:      "Acme Corp",
			Ticker:     "ACME",
			Direction:  types.DirectionBuy,
			Shares:     "1,000",
			Price:      "$10.50",
			Total:      types.KnownAmount(10500),
		},
		{
			Politician: "John Roe",
			Stock:      "Zorg Inc",
			Ticker:     "ZORG",
			Direction:  types.DirectionSell,
			Shares:     "undisclosed",
			Price:      "varies",
			Total:      types.UnknownAmount(),
		},
	}
}

func TestRenderContainsAllRecordsInOrder(t *testing.T) {
	out := Render(records(), HeaderNew)

	assert.True(t, strings.HasPrefix(out, HeaderNew))
	janePos := strings.Index(out, "Jane Doe")
	johnPos := strings.Index(out, "John Roe")
	require.Greater(t, janePos, 0)
	require.Greater(t, johnPos, janePos, "input order preserved")
	assert.Contains(t, out, "10500.00")
	assert.Contains(t, out, "N/A")
	assert.NotContains(t, out, "Trade Date", "date column omitted when no record has one")
}

func TestRenderIsReproducible(t *testing.T) {
	assert.Equal(t, Render(records(), HeaderNew), Render(records(), HeaderNew))
}

func TestRenderWithDateAndEnrichment(t *testing.T) {
	recs := records()
	recs[0].TradeDate = "2026-08-30"
	recs[0].MarketContext = "Market Context: Acme beats earnings"
	recs[0].TrendNote = "No clear trend detected."

	out := Render(recs, HeaderToday)
	assert.Contains(t, out, "Trade Date")
	assert.Contains(t, out, "2026-08-30")
	assert.Contains(t, out, "Market Context: Acme beats earnings")
	assert.Contains(t, out, "Trend Analysis: No clear trend detected.")
}

func TestRenderEmpty(t *testing.T) {
	out := Render(types.Snapshot{}, HeaderToday)
	assert.Equal(t, HeaderToday+"\n\nNo transactions reported today.", out)
}

func TestChunkCountAndLosslessness(t *testing.T) {
	text := strings.Repeat("abcdefghij", 450) // 4500 units

	for _, size := range []int{1800, 1000, 7, 4500, 9000} {
		chunks := Chunk(text, size)

		want := (len(text) + size - 1) / size
		assert.Len(t, chunks, want, "size=%d", size)
		assert.Equal(t, text, strings.Join(chunks, ""), "size=%d", size)

		for i, c := range chunks {
			if i < len(chunks)-1 {
				assert.Len(t, c, size)
			} else {
				assert.LessOrEqual(t, len(c), size)
			}
		}
	}
}

func TestChunkEmptyText(t *testing.T) {
	assert.Empty(t, Chunk("", 1800))
}

func TestChunkMaySplitMidRow(t *testing.T) {
	// Length-based slicing cuts wherever the boundary falls, including
	// inside a table row.
	text := "row-one\nrow-two\nrow-three"
	chunks := Chunk(text, 10)
	require.Len(t, chunks, 3)
	assert.Equal(t, "row-one\nro", chunks[0])
}

func TestChunkNeverSplitsARune(t *testing.T) {
	// A boundary landing inside a multi-byte character backs off to the
	// preceding rune start, so no chunk carries a torn encoding.
	chunks := Chunk("abcdéfgh", 5)
	require.Len(t, chunks, 2)
	assert.Equal(t, "abcd", chunks[0])
	assert.Equal(t, "éfgh", chunks[1])
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d", i)
	}

	// Headlines with non-ASCII stay intact across every boundary.
	text := strings.Repeat("Ségolène était déçue par 株式会社. ", 80)
	chunks = Chunk(text, 100)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d", i)
		assert.LessOrEqual(t, len(c), 100)
	}

	// A size smaller than the first rune still makes progress.
	chunks = Chunk("é", 1)
	require.Len(t, chunks, 1)
	assert.Equal(t, "é", chunks[0])
}

func TestRenderHTML(t *testing.T) {
	recs := records()
	recs[0].MarketContext = "Market Context: Acme beats earnings"

	html, err := RenderHTML(recs, "New Political Stock Transactions Detected")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, "Acme beats earnings")
}

func TestRenderHTMLEmpty(t *testing.T) {
	html, err := RenderHTML(types.Snapshot{}, "Today")
	require.NoError(t, err)
	assert.Contains(t, html, "No transactions reported today.")
	assert.NotContains(t, html, "<table>")
}
