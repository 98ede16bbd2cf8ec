package dataflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voletro/AgoraGo/config"
	"github.com/voletro/AgoraGo/internal/models"
)

var hundred = decimal.NewFromInt(100)

// MarketSource supplies price history for a symbol.
type MarketSource interface {
	GetHistoryWindow(symbol string, days int) ([]*MarketData, error)
}

// NewsSource supplies recent articles about a company.
type NewsSource interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]*NewsArticle, error)
}

// FundamentalsSource supplies financial metrics for a symbol.
type FundamentalsSource interface {
	GetBasicFinancials(symbol string) (*Fundamentals, error)
}

// BundleBuilder assembles the read-only evidence bundle the analysts
// debate over. Each section degrades to a "not available" note when
// its source fails, so one flaky upstream never blocks a session.
type BundleBuilder struct {
	market       MarketSource
	news         NewsSource
	fundamentals FundamentalsSource
	longport     *LongportClient

	lookbackDays int
	newsDays     int
	maxArticles  int
}

// finnhubNewsSource adapts FinnhubClient to NewsSource.
type finnhubNewsSource struct {
	client *FinnhubClient
}

func (s finnhubNewsSource) CompanyNews(_ context.Context, symbol string, from, to time.Time) ([]*NewsArticle, error) {
	return s.client.GetCompanyNews(symbol, from, to)
}

// scraperNewsSource adapts NewsScraper to NewsSource.
type scraperNewsSource struct {
	scraper *NewsScraper
}

func (s scraperNewsSource) CompanyNews(_ context.Context, symbol string, from, to time.Time) ([]*NewsArticle, error) {
	return s.scraper.Search(SearchParams{
		Query:     symbol + " stock",
		StartDate: from,
		EndDate:   to,
	})
}

// NewBundleBuilder wires the default sources. Finnhub is preferred for
// news and fundamentals; without an API key the news section falls
// back to the Google News scraper and fundamentals are skipped.
func NewBundleBuilder(cfg *config.Config) *BundleBuilder {
	b := &BundleBuilder{
		market:       NewYahooClient(cfg),
		lookbackDays: 30,
		newsDays:     7,
		maxArticles:  10,
	}

	if cfg.FinnhubAPIKey != "" {
		fc := NewFinnhubClient(cfg)
		b.news = finnhubNewsSource{client: fc}
		b.fundamentals = fc
	} else {
		b.news = scraperNewsSource{scraper: NewNewsScraper(cfg)}
	}

	// Longport covers HK/CN symbols Yahoo handles poorly. Missing
	// credentials just leave it out.
	if lp, err := NewLongportClient(cfg); err == nil {
		b.longport = lp
	}

	return b
}

// Build fetches and summarizes all evidence for one ticker.
func (b *BundleBuilder) Build(ctx context.Context, ticker, companyName string) (*models.DataBundle, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)
	if companyName == "" && b.longport != nil {
		if name, err := b.longport.CompanyName(ctx, ticker); err == nil && name != "" {
			companyName = name
		}
	}
	if companyName == "" {
		companyName = ticker
	}

	bundle := &models.DataBundle{
		Ticker:      ticker,
		CompanyName: companyName,
		TradeDate:   time.Now().Format("2006-01-02"),
	}

	bundle.StockSummary = b.stockSummary(ctx, ticker)
	bundle.NewsSummary = b.newsSummary(ctx, ticker)
	bundle.FinancialSummary = b.financialSummary(ticker)

	return bundle, nil
}

func (b *BundleBuilder) stockSummary(ctx context.Context, ticker string) string {
	bars, err := b.market.GetHistoryWindow(ticker, b.lookbackDays)
	if (err != nil || len(bars) == 0) && b.longport != nil {
		bars, err = b.longport.DailySticks(ctx, ticker, b.lookbackDays)
	}
	if err != nil || len(bars) == 0 {
		return "Price data not available."
	}

	first, last := bars[0], bars[len(bars)-1]

	high := bars[0].High
	low := bars[0].Low
	var volume int64
	for _, bar := range bars {
		if bar.High.GreaterThan(high) {
			high = bar.High
		}
		if bar.Low.LessThan(low) {
			low = bar.Low
		}
		volume += bar.Volume
	}

	var change string
	if !first.Close.IsZero() {
		pct := last.Close.Sub(first.Close).Div(first.Close).Mul(hundred)
		change = fmt.Sprintf("%s%%", pct.StringFixed(2))
	} else {
		change = "n/a"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Latest close: %s (%s)\n", last.Close.StringFixed(2), last.Date.Format("2006-01-02"))
	fmt.Fprintf(&sb, "%d-day change: %s\n", b.lookbackDays, change)
	fmt.Fprintf(&sb, "%d-day range: %s - %s\n", b.lookbackDays, low.StringFixed(2), high.StringFixed(2))
	fmt.Fprintf(&sb, "Average daily volume: %d", volume/int64(len(bars)))
	return sb.String()
}

func (b *BundleBuilder) newsSummary(ctx context.Context, ticker string) string {
	to := time.Now()
	from := to.AddDate(0, 0, -b.newsDays)

	articles, err := b.news.CompanyNews(ctx, ticker, from, to)
	if err != nil || len(articles) == 0 {
		return "No recent news available."
	}
	if len(articles) > b.maxArticles {
		articles = articles[:b.maxArticles]
	}

	var sb strings.Builder
	for i, article := range articles {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- [%s] %s", article.Source, article.Title)
		if article.Content != "" {
			fmt.Fprintf(&sb, ": %s", truncate(article.Content, 200))
		}
	}
	return sb.String()
}

// headlineMetrics are the Finnhub metric names surfaced to the
// analysts, in display order.
var headlineMetrics = []struct {
	key   string
	label string
}{
	{"peTTM", "P/E (TTM)"},
	{"pbQuarterly", "P/B"},
	{"epsTTM", "EPS (TTM)"},
	{"roeTTM", "ROE (TTM)"},
	{"revenueGrowthTTMYoy", "Revenue growth YoY"},
	{"grossMarginTTM", "Gross margin (TTM)"},
	{"totalDebt/totalEquityQuarterly", "Debt/Equity"},
	{"52WeekHigh", "52-week high"},
	{"52WeekLow", "52-week low"},
}

func (b *BundleBuilder) financialSummary(ticker string) string {
	if b.fundamentals == nil {
		return "Fundamental data not available."
	}

	f, err := b.fundamentals.GetBasicFinancials(ticker)
	if err != nil || len(f.Metrics) == 0 {
		return "Fundamental data not available."
	}

	var sb strings.Builder
	found := 0
	for _, m := range headlineMetrics {
		value, ok := f.Metrics[m.key]
		if !ok {
			continue
		}
		if found > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %.2f", m.label, value)
		found++
	}
	if found == 0 {
		return "Fundamental data not available."
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
