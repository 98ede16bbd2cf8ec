package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voletro/AgoraGo/internal/models"
	"github.com/voletro/AgoraGo/internal/processing"
)

// SignalStore persists emitted trading signals to sqlite.
type SignalStore struct {
	db *sql.DB
}

func NewSignalStore(dbPath string) (*SignalStore, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}

	s := &SignalStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SignalStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SignalStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		signal TEXT NOT NULL,
		confidence REAL NOT NULL,
		agreement_ratio REAL NOT NULL,
		rounds INTEGER NOT NULL,
		degenerate INTEGER NOT NULL DEFAULT 0,
		dissents_json TEXT,
		generated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_signals_ticker ON signals(ticker, generated_at);`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create signals table: %w", err)
	}
	return nil
}

// SaveSignal appends one emitted signal.
func (s *SignalStore) SaveSignal(ctx context.Context, signal *processing.TradingSignal) error {
	var dissentsJSON []byte
	if len(signal.Dissents) > 0 {
		var err error
		dissentsJSON, err = json.Marshal(signal.Dissents)
		if err != nil {
			return fmt.Errorf("marshal dissents: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signals
		(ticker, signal, confidence, agreement_ratio, rounds, degenerate, dissents_json, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		signal.Ticker, signal.Signal, signal.Confidence, signal.AgreementRatio,
		signal.Rounds, signal.Degenerate, string(dissentsJSON), signal.GeneratedAt)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// History returns the most recent signals for a ticker, newest first.
func (s *SignalStore) History(ctx context.Context, ticker string, limit int) ([]*processing.TradingSignal, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, signal, confidence, agreement_ratio, rounds, degenerate, dissents_json, generated_at
		FROM signals WHERE ticker = ?
		ORDER BY generated_at DESC, id DESC LIMIT ?`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var result []*processing.TradingSignal
	for rows.Next() {
		var sig processing.TradingSignal
		var dissentsJSON sql.NullString
		var generatedAt time.Time

		if err := rows.Scan(&sig.Ticker, &sig.Signal, &sig.Confidence, &sig.AgreementRatio,
			&sig.Rounds, &sig.Degenerate, &dissentsJSON, &generatedAt); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sig.GeneratedAt = generatedAt

		if dissentsJSON.Valid && dissentsJSON.String != "" {
			var dissents []models.Dissent
			if err := json.Unmarshal([]byte(dissentsJSON.String), &dissents); err == nil {
				sig.Dissents = dissents
			}
		}
		result = append(result, &sig)
	}
	return result, rows.Err()
}

// Latest returns the newest signal for a ticker, or nil when none
// exists.
func (s *SignalStore) Latest(ctx context.Context, ticker string) (*processing.TradingSignal, error) {
	signals, err := s.History(ctx, ticker, 1)
	if err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		return nil, nil
	}
	return signals[0], nil
}
