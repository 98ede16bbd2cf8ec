package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/voletro/AgoraGo/config"
)

// YahooClient pulls quotes and daily bars from Yahoo Finance.
type YahooClient struct {
	cache *CacheManager
}

func NewYahooClient(cfg *config.Config) *YahooClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo_finance")
	return &YahooClient{
		cache: NewCacheManager(cacheDir, 24*time.Hour, cfg.CacheEnabled),
	}
}

// GetQuote returns the latest quote for a symbol as a single bar.
func (yc *YahooClient) GetQuote(symbol string) (*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached MarketData
	if yc.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	var result *MarketData
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}

		now := time.Now()
		result = &MarketData{
			Symbol:    symbol,
			Date:      now,
			Open:      decimal.NewFromFloat(q.RegularMarketOpen),
			High:      decimal.NewFromFloat(q.RegularMarketDayHigh),
			Low:       decimal.NewFromFloat(q.RegularMarketDayLow),
			Close:     decimal.NewFromFloat(q.RegularMarketPrice),
			AdjClose:  decimal.NewFromFloat(q.RegularMarketPrice),
			Volume:    int64(q.RegularMarketVolume),
			FetchedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yc.cache.Set("yahoo", "quote", symbol, result)
	return result, nil
}

// GetHistory returns daily bars for the range, oldest first.
func (yc *YahooClient) GetHistory(symbol string, r DateRange) ([]*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  r.Start.Format("2006-01-02"),
		"end":    r.End.Format("2006-01-02"),
	}

	var cached []*MarketData
	if yc.cache.Get("yahoo", "history", cacheKey, &cached) {
		return cached, nil
	}

	var result []*MarketData
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&r.Start),
			End:      datetime.New(&r.End),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		result = result[:0]
		for iter.Next() {
			bar := iter.Bar()
			result = append(result, &MarketData{
				Symbol:    symbol,
				Date:      time.Unix(int64(bar.Timestamp), 0),
				Open:      bar.Open,
				High:      bar.High,
				Low:       bar.Low,
				Close:     bar.Close,
				AdjClose:  bar.AdjClose,
				Volume:    int64(bar.Volume),
				FetchedAt: time.Now(),
			})
		}

		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to get history for %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yc.cache.Set("yahoo", "history", cacheKey, result)
	return result, nil
}

// GetHistoryWindow returns the last n calendar days of daily bars.
func (yc *YahooClient) GetHistoryWindow(symbol string, days int) ([]*MarketData, error) {
	end := time.Now()
	return yc.GetHistory(symbol, DateRange{Start: end.AddDate(0, 0, -days), End: end})
}
