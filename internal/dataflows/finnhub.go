package dataflows

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/voletro/AgoraGo/config"
)

// FinnhubClient fetches company news and fundamental metrics from the
// Finnhub REST API.
type FinnhubClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

func NewFinnhubClient(cfg *config.Config) *FinnhubClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "finnhub")

	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(30 * time.Second)

	return &FinnhubClient{
		client: client,
		cache:  NewCacheManager(cacheDir, 6*time.Hour, cfg.CacheEnabled),
		apiKey: cfg.FinnhubAPIKey,
	}
}

type finnhubNews struct {
	Category string `json:"category"`
	DateTime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// GetCompanyNews returns news articles about a company between from
// and to.
func (fc *FinnhubClient) GetCompanyNews(symbol string, from, to time.Time) ([]*NewsArticle, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}

	var cached []*NewsArticle
	if fc.cache.Get("finnhub", "company_news", cacheKey, &cached) {
		return cached, nil
	}

	var result []*NewsArticle
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := fc.client.R().
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"from":   from.Format("2006-01-02"),
				"to":     to.Format("2006-01-02"),
				"token":  fc.apiKey,
			}).
			Get("/company-news")
		if err != nil {
			return fmt.Errorf("failed to fetch news for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("finnhub error %d: %s", resp.StatusCode(), resp.String())
		}

		var items []finnhubNews
		if err := json.Unmarshal(resp.Body(), &items); err != nil {
			return fmt.Errorf("failed to parse news response: %w", err)
		}

		result = make([]*NewsArticle, 0, len(items))
		for _, item := range items {
			result = append(result, &NewsArticle{
				Title:       item.Headline,
				Content:     item.Summary,
				URL:         item.URL,
				Source:      item.Source,
				PublishedAt: time.Unix(item.DateTime, 0),
				Keywords:    []string{symbol},
				Metadata: map[string]string{
					"category": item.Category,
					"related":  item.Related,
					"id":       strconv.FormatInt(item.ID, 10),
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fc.cache.Set("finnhub", "company_news", cacheKey, result)
	return result, nil
}

// GetBasicFinancials returns the metric map from Finnhub's
// /stock/metric endpoint. Only scalar metrics are kept.
func (fc *FinnhubClient) GetBasicFinancials(symbol string) (*Fundamentals, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached Fundamentals
	if fc.cache.Get("finnhub", "basic_financials", symbol, &cached) {
		return &cached, nil
	}

	var result *Fundamentals
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := fc.client.R().
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"metric": "all",
				"token":  fc.apiKey,
			}).
			Get("/stock/metric")
		if err != nil {
			return fmt.Errorf("failed to fetch financials for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("finnhub error %d: %s", resp.StatusCode(), resp.String())
		}

		var apiResponse struct {
			Metric map[string]interface{} `json:"metric"`
		}
		if err := json.Unmarshal(resp.Body(), &apiResponse); err != nil {
			return fmt.Errorf("failed to parse financials response: %w", err)
		}

		metrics := make(map[string]float64, len(apiResponse.Metric))
		for name, value := range apiResponse.Metric {
			if f, ok := value.(float64); ok {
				metrics[name] = f
			}
		}

		result = &Fundamentals{
			Symbol:    symbol,
			Metrics:   metrics,
			FetchedAt: time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fc.cache.Set("finnhub", "basic_financials", symbol, result)
	return result, nil
}
