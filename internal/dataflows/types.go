package dataflows

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is one OHLCV observation for a symbol.
type MarketData struct {
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	AdjClose  decimal.Decimal `json:"adj_close"`
	Volume    int64           `json:"volume"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewsArticle is a normalized article from any news source.
type NewsArticle struct {
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	URL         string            `json:"url"`
	Source      string            `json:"source"`
	PublishedAt time.Time         `json:"published_at"`
	Keywords    []string          `json:"keywords,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Fundamentals carries the basic financial metrics the analysts see.
// Values keep Finnhub's metric names so the prompt stays traceable to
// the source.
type Fundamentals struct {
	Symbol    string             `json:"symbol"`
	Metrics   map[string]float64 `json:"metrics"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// DateRange bounds a historical data query.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
