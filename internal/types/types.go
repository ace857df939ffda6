package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Direction classifies a disclosed transaction. The source reports it as
// free text, so anything that is not recognisably a buy or a sell maps to
// DirectionUnknown rather than failing the row.
type Direction string

const (
	DirectionBuy     Direction = "Buy"
	DirectionSell    Direction = "Sell"
	DirectionUnknown Direction = "Unknown"
)

// ParseDirection maps the scraped trade-type text onto the closed enum.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "purchase", "buy partial":
		return DirectionBuy
	case "sell", "sale", "sell partial", "sale (full)", "sale (partial)":
		return DirectionSell
	default:
		return DirectionUnknown
	}
}

// Amount is a computed dollar value that may be unknowable when the scraped
// share or price text does not parse. Known=false is the "N/A" sentinel;
// it is distinct from a zero value.
type Amount struct {
	Value float64
	Known bool
}

// KnownAmount wraps a computed value.
func KnownAmount(v float64) Amount { return Amount{Value: v, Known: true} }

// UnknownAmount is the not-computable sentinel.
func UnknownAmount() Amount { return Amount{} }

// String renders the sentinel as "N/A".
func (a Amount) String() string {
	if !a.Known {
		return "N/A"
	}
	return strconv.FormatFloat(a.Value, 'f', 2, 64)
}

// MarshalJSON encodes the sentinel as the literal string "N/A" so the
// persisted snapshot matches what the report shows.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Known {
		return json.Marshal("N/A")
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts either a number or the "N/A" sentinel string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		a.Value = v
		a.Known = true
		return nil
	}
	a.Value = 0
	a.Known = false
	return nil
}

// ComputeTotal derives shares*price from the scraped text, stripping
// thousands separators and currency symbols first. Either operand failing
// to parse yields the sentinel, never an error.
func ComputeTotal(shares, price string) Amount {
	s := strings.ReplaceAll(strings.TrimSpace(shares), ",", "")
	p := strings.TrimSpace(price)
	p = strings.ReplaceAll(p, "$", "")
	p = strings.ReplaceAll(p, ",", "")

	sv, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return UnknownAmount()
	}
	pv, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return UnknownAmount()
	}
	return KnownAmount(sv * pv)
}

// TradeRecord is one disclosed transaction as scraped from the source,
// plus optional enrichment fields filled in later in the pipeline.
type TradeRecord struct {
	Politician string    `json:"politician"`
	Stock      string    `json:"stock"`
	Ticker     string    `json:"ticker"`
	Direction  Direction `json:"trade_type"`
	Shares     string    `json:"shares"`
	Price      string    `json:"price"`
	Total      Amount    `json:"total_amount"`
	TradeDate  string    `json:"trade_date,omitempty"`

	// Enrichment fields. Never part of identity comparisons.
	MarketContext string `json:"market_context,omitempty"`
	TrendNote     string `json:"trend_note,omitempty"`
}

// SameTransaction reports whether two records describe the same disclosed
// transaction. Only scraped fields participate; enrichment is ignored.
// Records carry no stable external identifier, so this full structural
// equality is the identity model for diffing and deduplication.
func (r TradeRecord) SameTransaction(other TradeRecord) bool {
	return r.Politician == other.Politician &&
		r.Stock == other.Stock &&
		r.Ticker == other.Ticker &&
		r.Direction == other.Direction &&
		r.Shares == other.Shares &&
		r.Price == other.Price &&
		r.Total == other.Total &&
		r.TradeDate == other.TradeDate
}

// Snapshot is everything visible on the source at one fetch, in document
// order. It is a full state, not an incremental delta.
type Snapshot []TradeRecord

// Equal compares two snapshots as ordered sequences of scraped fields.
// A reorder with no content change counts as unequal.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].SameTransaction(other[i]) {
			return false
		}
	}
	return true
}
