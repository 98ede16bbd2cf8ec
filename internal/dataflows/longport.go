package dataflows

import (
	"context"
	"errors"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"

	"github.com/voletro/AgoraGo/config"
)

// LongportClient is an optional realtime quote source for markets
// Yahoo covers poorly (HK, CN). It is only constructed when Longport
// credentials are configured.
type LongportClient struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(
		cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{quoteCtx: quoteContext}, nil
}

// CompanyName resolves a symbol to its listed company name.
func (lc *LongportClient) CompanyName(ctx context.Context, symbol string) (string, error) {
	infos, err := lc.quoteCtx.StaticInfo(ctx, []string{symbol})
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", errors.New("no static info for " + symbol)
	}
	return infos[0].NameEn, nil
}

// DailySticks returns the last count daily candlesticks as MarketData.
func (lc *LongportClient) DailySticks(ctx context.Context, symbol string, count int) ([]*MarketData, error) {
	sticks, err := lc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, int32(count), quote.AdjustTypeNo)
	if err != nil {
		return nil, err
	}

	result := make([]*MarketData, 0, len(sticks))
	for _, stick := range sticks {
		open, _ := stick.Open.Float64()
		high, _ := stick.High.Float64()
		low, _ := stick.Low.Float64()
		closePrice, _ := stick.Close.Float64()
		result = append(result, &MarketData{
			Symbol:    symbol,
			Date:      time.Unix(stick.Timestamp, 0),
			Open:      decimal.NewFromFloat(open),
			High:      decimal.NewFromFloat(high),
			Low:       decimal.NewFromFloat(low),
			Close:     decimal.NewFromFloat(closePrice),
			AdjClose:  decimal.NewFromFloat(closePrice),
			Volume:    stick.Volume,
			FetchedAt: time.Now(),
		})
	}
	return result, nil
}

func (lc *LongportClient) Close() {
	if lc.quoteCtx != nil {
		lc.quoteCtx.Close()
	}
}
