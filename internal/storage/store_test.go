package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/voletro/AgoraGo/internal/models"
	"github.com/voletro/AgoraGo/internal/processing"
)

func newTestStore(t *testing.T) *SignalStore {
	t.Helper()
	store, err := NewSignalStore(filepath.Join(t.TempDir(), "signals.db"))
	if err != nil {
		t.Fatalf("NewSignalStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadSignal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	signal := &processing.TradingSignal{
		Ticker:         "AAPL",
		Signal:         processing.SignalBuy,
		Confidence:     0.72,
		AgreementRatio: 0.75,
		Rounds:         2,
		Dissents: []models.Dissent{
			{AgentID: "sentiment_analyst", Stance: models.StanceSell, Rationale: "weak social buzz"},
		},
		GeneratedAt: time.Now(),
	}

	if err := store.SaveSignal(ctx, signal); err != nil {
		t.Fatalf("SaveSignal: %v", err)
	}

	loaded, err := store.Latest(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a stored signal")
	}
	if loaded.Signal != processing.SignalBuy || loaded.Confidence != 0.72 {
		t.Fatalf("unexpected signal: %+v", loaded)
	}
	if len(loaded.Dissents) != 1 || loaded.Dissents[0].Rationale != "weak social buzz" {
		t.Fatalf("dissents must round-trip: %+v", loaded.Dissents)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, sig := range []string{processing.SignalHold, processing.SignalBuy, processing.SignalStrongBuy} {
		err := store.SaveSignal(ctx, &processing.TradingSignal{
			Ticker:      "MSFT",
			Signal:      sig,
			Rounds:      1,
			GeneratedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveSignal: %v", err)
		}
	}

	history, err := store.History(ctx, "MSFT", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(history))
	}
	if history[0].Signal != processing.SignalStrongBuy || history[2].Signal != processing.SignalHold {
		t.Fatalf("history not newest first: %s, %s, %s",
			history[0].Signal, history[1].Signal, history[2].Signal)
	}
}

func TestHistoryScopedToTicker(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.SaveSignal(ctx, &processing.TradingSignal{Ticker: "AAPL", Signal: processing.SignalBuy, GeneratedAt: time.Now()})
	store.SaveSignal(ctx, &processing.TradingSignal{Ticker: "MSFT", Signal: processing.SignalSell, GeneratedAt: time.Now()})

	history, err := store.History(ctx, "AAPL", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Ticker != "AAPL" {
		t.Fatalf("history must be scoped to the ticker: %+v", history)
	}
}

func TestLatestMissingTicker(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.Latest(context.Background(), "UNKNOWN")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil for unknown ticker, got %+v", latest)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("empty path must be rejected")
	}
}
