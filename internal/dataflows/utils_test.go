package dataflows

import (
	"errors"
	"testing"
	"time"
)

func TestCacheManagerRoundTrip(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Hour, true)

	params := map[string]string{"symbol": "AAPL"}
	stored := []string{"a", "b", "c"}

	if err := cm.Set("test", "items", params, stored); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var loaded []string
	if !cm.Get("test", "items", params, &loaded) {
		t.Fatal("expected cache hit")
	}
	if len(loaded) != 3 || loaded[0] != "a" {
		t.Fatalf("unexpected cached value: %v", loaded)
	}
}

func TestCacheManagerMissOnDifferentParams(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Hour, true)

	cm.Set("test", "items", map[string]string{"symbol": "AAPL"}, "x")

	var loaded string
	if cm.Get("test", "items", map[string]string{"symbol": "MSFT"}, &loaded) {
		t.Fatal("different params must not share a cache entry")
	}
}

func TestCacheManagerExpiry(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Nanosecond, true)

	cm.Set("test", "items", "key", "value")
	time.Sleep(10 * time.Millisecond)

	var loaded string
	if cm.Get("test", "items", "key", &loaded) {
		t.Fatal("expired entry must miss")
	}
}

func TestCacheManagerDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Hour, false)

	if err := cm.Set("test", "items", "key", "value"); err != nil {
		t.Fatalf("disabled Set must be a no-op, got %v", err)
	}
	var loaded string
	if cm.Get("test", "items", "key", &loaded) {
		t.Fatal("disabled cache must always miss")
	}
}

func TestWithRetryEventualSuccess(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	calls := 0
	err := WithRetry(cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	sentinel := errors.New("down")
	calls := 0
	err := WithRetry(cfg, func() error {
		calls++
		return sentinel
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped original error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected initial call plus 2 retries, got %d", calls)
	}
}

func TestValidateSymbol(t *testing.T) {
	if err := ValidateSymbol("  aapl "); err != nil {
		t.Fatalf("valid symbol rejected: %v", err)
	}
	if err := ValidateSymbol(""); err == nil {
		t.Fatal("empty symbol must be rejected")
	}
	if err := ValidateSymbol("TOOLONGSYMBOL"); err == nil {
		t.Fatal("overlong symbol must be rejected")
	}
}

func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		text string
		want time.Time
	}{
		{"just now", now},
		{"5 minutes ago", now.Add(-5 * time.Minute)},
		{"3 hours ago", now.Add(-3 * time.Hour)},
		{"2 days ago", now.AddDate(0, 0, -2)},
		{"1 week ago", now.AddDate(0, 0, -7)},
		{"yesterday-ish", now.Add(-1 * time.Hour)},
	}
	for _, tc := range cases {
		if got := parseRelativeTime(tc.text, now); !got.Equal(tc.want) {
			t.Errorf("parseRelativeTime(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestResolveNewsURL(t *testing.T) {
	if got := resolveNewsURL("./articles/abc"); got != "https://news.google.com/articles/abc" {
		t.Fatalf("relative URL not resolved: %s", got)
	}
	if got := resolveNewsURL("https://example.com/redirect?url=https%3A%2F%2Freal.site%2Fstory"); got != "https://real.site/story" {
		t.Fatalf("wrapped URL not unwrapped: %s", got)
	}
	if got := resolveNewsURL("https://direct.example/story"); got != "https://direct.example/story" {
		t.Fatalf("direct URL must pass through: %s", got)
	}
}
