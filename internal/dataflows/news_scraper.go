package dataflows

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/voletro/AgoraGo/config"
)

// NewsScraper pulls headlines from Google News search results. It is
// the fallback news source when no Finnhub key is configured.
type NewsScraper struct {
	client *resty.Client
	cache  *CacheManager
}

func NewNewsScraper(cfg *config.Config) *NewsScraper {
	cacheDir := filepath.Join(cfg.DataCacheDir, "news_scraper")

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; AgoraGo/1.0)")

	return &NewsScraper{
		client: client,
		cache:  NewCacheManager(cacheDir, 2*time.Hour, cfg.CacheEnabled),
	}
}

// SearchParams describes one Google News query.
type SearchParams struct {
	Query      string    `json:"query"`
	Language   string    `json:"language"`
	Country    string    `json:"country"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	MaxResults int       `json:"max_results"`
}

// Search scrapes Google News for articles matching the query.
func (ns *NewsScraper) Search(params SearchParams) ([]*NewsArticle, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if params.Language == "" {
		params.Language = "en"
	}
	if params.Country == "" {
		params.Country = "US"
	}
	if params.MaxResults <= 0 {
		params.MaxResults = 20
	}

	var cached []*NewsArticle
	if ns.cache.Get("google_news", "search", params, &cached) {
		return cached, nil
	}

	var result []*NewsArticle
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := ns.client.R().Get(ns.searchURL(params))
		if err != nil {
			return fmt.Errorf("failed to fetch Google News: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d from Google News", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("failed to parse HTML: %w", err)
		}

		result = ns.parseResults(doc, params.Query)
		if len(result) > params.MaxResults {
			result = result[:params.MaxResults]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ns.cache.Set("google_news", "search", params, result)
	return result, nil
}

func (ns *NewsScraper) searchURL(params SearchParams) string {
	query := params.Query
	if !params.StartDate.IsZero() && !params.EndDate.IsZero() {
		query += fmt.Sprintf(" after:%s before:%s",
			params.StartDate.Format("2006-01-02"),
			params.EndDate.Format("2006-01-02"))
	}

	return fmt.Sprintf("https://news.google.com/search?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		url.QueryEscape(query), params.Language, params.Country,
		params.Country, params.Language)
}

func (ns *NewsScraper) parseResults(doc *goquery.Document, query string) []*NewsArticle {
	var articles []*NewsArticle

	doc.Find("article").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			return
		}

		href, ok := s.Find("a").First().Attr("href")
		if !ok {
			return
		}

		source := strings.TrimSpace(s.Find("div[data-n-tid]").Text())
		if source == "" {
			source = "Google News"
		}

		timeText := strings.TrimSpace(s.Find("time").Text())

		articles = append(articles, &NewsArticle{
			Title:       title,
			Content:     strings.TrimSpace(s.Find("span").Last().Text()),
			URL:         resolveNewsURL(href),
			Source:      source,
			PublishedAt: parseRelativeTime(timeText, time.Now()),
			Keywords:    []string{query},
			Metadata: map[string]string{
				"scraper":   "google_news",
				"time_text": timeText,
			},
		})
	})

	return articles
}

// resolveNewsURL unwraps Google's redirect links and makes relative
// links absolute.
func resolveNewsURL(href string) string {
	if idx := strings.Index(href, "url="); idx >= 0 {
		if decoded, err := url.QueryUnescape(href[idx+4:]); err == nil {
			return decoded
		}
	}
	if strings.HasPrefix(href, "./") {
		return "https://news.google.com" + href[1:]
	}
	if strings.HasPrefix(href, "/") {
		return "https://news.google.com" + href
	}
	return href
}

var relativeTimeRe = regexp.MustCompile(`(\d+)\s*(minute|hour|day|week)s?\s*ago`)

// parseRelativeTime converts Google's "3 hours ago" labels to absolute
// times. Unparseable labels are treated as one hour old.
func parseRelativeTime(timeText string, now time.Time) time.Time {
	timeText = strings.ToLower(strings.TrimSpace(timeText))
	if timeText == "just now" {
		return now
	}

	matches := relativeTimeRe.FindStringSubmatch(timeText)
	if len(matches) != 3 {
		return now.Add(-1 * time.Hour)
	}

	n, err := strconv.Atoi(matches[1])
	if err != nil || n <= 0 {
		return now.Add(-1 * time.Hour)
	}

	switch matches[2] {
	case "minute":
		return now.Add(-time.Duration(n) * time.Minute)
	case "hour":
		return now.Add(-time.Duration(n) * time.Hour)
	case "day":
		return now.AddDate(0, 0, -n)
	case "week":
		return now.AddDate(0, 0, -7*n)
	}
	return now.Add(-1 * time.Hour)
}
