package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capitol-monitor/internal/types"
)

var testNow = func() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func trade(politician string, dir types.Direction, daysAgo int) types.TradeRecord {
	return types.TradeRecord{
		Politician: politician,
		Stock:      "Acme Corp",
		Ticker:     "ACME",
		Direction:  dir,
		Shares:     "100",
		Price:      "$10.00",
		Total:      types.KnownAmount(1000),
		TradeDate:  testNow().AddDate(0, 0, -daysAgo).Format("2006-01-02"),
	}
}

func TestTrendNote_BuyMajority(t *testing.T) {
	e := NewEngine(nil, testNow)
	snap := types.Snapshot{
		trade("Jane Doe", types.DirectionBuy, 1),
		trade("Jane Doe", types.DirectionBuy, 10),
		trade("Jane Doe", types.DirectionBuy, 25),
		trade("Jane Doe", types.DirectionSell, 5),
	}
	assert.Equal(t, trendBuying, e.TrendNote("Jane Doe", snap))
}

func TestTrendNote_SellMajority(t *testing.T) {
	e := NewEngine(nil, testNow)
	snap := types.Snapshot{
		trade("Jane Doe", types.DirectionSell, 2),
		trade("Jane Doe", types.DirectionSell, 7),
		trade("Jane Doe", types.DirectionBuy, 3),
	}
	assert.Equal(t, trendSelling, e.TrendNote("Jane Doe", snap))
}

func TestTrendNote_TieIsNoTrend(t *testing.T) {
	e := NewEngine(nil, testNow)
	snap := types.Snapshot{
		trade("Jane Doe", types.DirectionBuy, 1),
		trade("Jane Doe", types.DirectionBuy, 2),
		trade("Jane Doe", types.DirectionSell, 3),
		trade("Jane Doe", types.DirectionSell, 4),
	}
	assert.Equal(t, trendNone, e.TrendNote("Jane Doe", snap))
}

func TestTrendNote_EmptyWindowIsNoTrend(t *testing.T) {
	e := NewEngine(nil, testNow)

	assert.Equal(t, trendNone, e.TrendNote("Jane Doe", types.Snapshot{}))

	// Trades outside the trailing window do not count.
	stale := types.Snapshot{
		trade("Jane Doe", types.DirectionBuy, 31),
		trade("Jane Doe", types.DirectionBuy, 90),
	}
	assert.Equal(t, trendNone, e.TrendNote("Jane Doe", stale))
}

func TestTrendNote_OtherActorsAndUnknownsExcluded(t *testing.T) {
	e := NewEngine(nil, testNow)
	snap := types.Snapshot{
		trade("Jane Doe", types.DirectionBuy, 1),
		trade("John Roe", types.DirectionSell, 1),
		trade("John Roe", types.DirectionSell, 2),
		trade("Jane Doe", types.DirectionUnknown, 2),
	}
	assert.Equal(t, trendBuying, e.TrendNote("Jane Doe", snap))
	assert.Equal(t, trendSelling, e.TrendNote("John Roe", snap))
}

func TestAnnotateFillsBothFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"articles":[{"title":"Acme beats earnings"},{"title":"older"}]}`)
	}))
	defer srv.Close()

	news := NewNewsAPIClient(srv.URL, "test-key", 5*time.Second, time.Minute)
	e := NewEngine(news, testNow)

	full := types.Snapshot{
		trade("Jane Doe", types.DirectionBuy, 1),
		trade("Jane Doe", types.DirectionBuy, 4),
	}
	got := e.Annotate(context.Background(), full[:1], full)

	require.Len(t, got, 1)
	assert.Equal(t, "Market Context: Acme beats earnings", got[0].MarketContext)
	assert.Equal(t, trendBuying, got[0].TrendNote)

	// Input records are not mutated; enrichment never feeds back into
	// identity comparisons.
	assert.Empty(t, full[0].MarketContext)
}

func TestAnnotateWithoutNewsProvider(t *testing.T) {
	e := NewEngine(nil, testNow)
	full := types.Snapshot{trade("Jane Doe", types.DirectionBuy, 1)}

	got := e.Annotate(context.Background(), full, full)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].MarketContext)
	assert.Equal(t, trendBuying, got[0].TrendNote)
}

func TestMarketContextLabels(t *testing.T) {
	t.Run("no articles", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"articles":[]}`)
		}))
		defer srv.Close()

		news := NewNewsAPIClient(srv.URL, "k", time.Second, time.Minute)
		assert.Equal(t, contextNoNews, news.MarketContext(context.Background(), "ACME"))
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		news := NewNewsAPIClient(srv.URL, "k", time.Second, time.Minute)
		assert.Equal(t, contextUnavailable, news.MarketContext(context.Background(), "ACME"))
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `not json`)
		}))
		defer srv.Close()

		news := NewNewsAPIClient(srv.URL, "k", time.Second, time.Minute)
		assert.Equal(t, contextUnavailable, news.MarketContext(context.Background(), "ACME"))
	})

	t.Run("unreachable host", func(t *testing.T) {
		news := NewNewsAPIClient("http://127.0.0.1:1", "k", 200*time.Millisecond, time.Minute)
		assert.Equal(t, contextUnavailable, news.MarketContext(context.Background(), "ACME"))
	})
}

func TestMarketContextCaching(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"articles":[{"title":"headline"}]}`)
	}))
	defer srv.Close()

	news := NewNewsAPIClient(srv.URL, "k", time.Second, time.Minute)
	ctx := context.Background()

	first := news.MarketContext(ctx, "ACME")
	second := news.MarketContext(ctx, "ACME")

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}
