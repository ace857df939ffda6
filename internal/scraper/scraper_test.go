package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capitol-monitor/internal/types"
)

const sixColPage = `<html><body><table><tbody>
<tr><td> Jane Doe </td><td>Acme Corp</td><td>ACME</td><td>Buy</td><td>1,000</td><td>$10.50</td></tr>
<tr><td>John Roe</td><td>Zorg Inc</td><td>ZORG</td><td>Sell</td><td>500</td><td>$20.00</td></tr>
<tr><td>Short</td><td>Row</td><td>Only</td><td>Five</td><td>Cells</td></tr>
</tbody></table></body></html>`

const sevenColPage = `<html><body><table><tbody>
<tr><td>Jane Doe</td><td>Acme Corp</td><td>ACME</td><td>Buy</td><td>1,000</td><td>$10.50</td><td>2026-08-30</td></tr>
<tr><td>John Roe</td><td>Zorg Inc</td><td>ZORG</td><td>Exchange</td><td>undisclosed</td><td>$15 - $50</td><td>2026-08-29</td></tr>
</tbody></table></body></html>`

func TestExtractSixColumns(t *testing.T) {
	s := New("https://www.capitoltrades.com/", false, time.Second)

	trades, err := s.Extract(strings.NewReader(sixColPage))
	require.NoError(t, err)
	require.Len(t, trades, 2, "five-cell row must be skipped")

	first := trades[0]
	assert.Equal(t, "Jane Doe", first.Politician, "cells are trimmed")
	assert.Equal(t, "ACME", first.Ticker)
	assert.Equal(t, types.DirectionBuy, first.Direction)
	require.True(t, first.Total.Known)
	assert.InDelta(t, 10500.0, first.Total.Value, 1e-9)
	assert.Empty(t, first.TradeDate)

	assert.Equal(t, types.DirectionSell, trades[1].Direction)
}

func TestExtractSevenColumns(t *testing.T) {
	s := New("https://www.capitoltrades.com/", true, time.Second)

	trades, err := s.Extract(strings.NewReader(sevenColPage))
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, "2026-08-30", trades[0].TradeDate)

	// Free-text trade type and unparsable numerics degrade, never fail.
	assert.Equal(t, types.DirectionUnknown, trades[1].Direction)
	assert.False(t, trades[1].Total.Known)
}

func TestExtractSevenColumnModeRejectsSixColumnRows(t *testing.T) {
	s := New("https://www.capitoltrades.com/", true, time.Second)

	trades, err := s.Extract(strings.NewReader(sixColPage))
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestExtractPreservesDocumentOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("<table><tbody>")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "<tr><td>P%d</td><td>S%d</td><td>T%d</td><td>Buy</td><td>1</td><td>$1</td></tr>", i, i, i)
	}
	b.WriteString("</tbody></table>")

	s := New("https://www.capitoltrades.com/", false, time.Second)
	trades, err := s.Extract(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, trades, 10)
	for i, tr := range trades {
		assert.Equal(t, fmt.Sprintf("P%d", i), tr.Politician)
	}
}

func TestFetchFromTestServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sixColPage)
	}))
	defer srv.Close()

	s := New(srv.URL, false, 5*time.Second)
	trades, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, trades, 2)
}
