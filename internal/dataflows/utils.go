package dataflows

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CacheManager is a file-backed JSON cache with a per-manager TTL.
// Keys are derived from the request parameters, so callers never have
// to invent cache file names.
type CacheManager struct {
	cacheDir string
	ttl      time.Duration
	enabled  bool
}

func NewCacheManager(cacheDir string, ttl time.Duration, enabled bool) *CacheManager {
	return &CacheManager{
		cacheDir: cacheDir,
		ttl:      ttl,
		enabled:  enabled,
	}
}

func (cm *CacheManager) cacheKey(source, method string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s_%s_%x.json", source, method, hash)
}

// Get fills result from a fresh cache entry and reports whether it did.
// Expired entries are removed on the way out.
func (cm *CacheManager) Get(source, method string, params interface{}, result interface{}) bool {
	if !cm.enabled {
		return false
	}

	filePath := filepath.Join(cm.cacheDir, cm.cacheKey(source, method, params))

	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > cm.ttl {
		os.Remove(filePath)
		return false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, result) == nil
}

// Set stores data under the derived key. A disabled cache is a no-op.
func (cm *CacheManager) Set(source, method string, params interface{}, data interface{}) error {
	if !cm.enabled {
		return nil
	}

	if err := os.MkdirAll(cm.cacheDir, 0o755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	filePath := filepath.Join(cm.cacheDir, cm.cacheKey(source, method, params))
	return os.WriteFile(filePath, jsonData, 0o644)
}

// RetryConfig configures exponential backoff for flaky upstreams.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
	}
}

// WithRetry runs fn until it succeeds or MaxRetries is exhausted,
// sleeping with exponential backoff between attempts.
func WithRetry(config *RetryConfig, fn func() error) error {
	var lastErr error

	delay := config.BaseDelay
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}

		if err := fn(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// ValidateSymbol rejects empty or implausibly long tickers before any
// network call is made.
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// ParseDateString accepts the date formats the upstream APIs emit.
func ParseDateString(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
