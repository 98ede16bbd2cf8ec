package reasoning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/voletro/AgoraGo/internal/models"
)

// AuditLogger receives every audit record produced during a debate.
// Implementations must be append-only: a record, once accepted, is
// never mutated or removed. Record may be called from concurrent
// sessions; implementations serialize writes first-come-first-served.
type AuditLogger interface {
	Record(rec models.AuditRecord) error
}

// JSONLLogger appends audit records to a file, one JSON object per
// line. A single mutex serializes writers across sessions so records
// from one session are never interleaved out of order.
type JSONLLogger struct {
	mu sync.Mutex
	f  *os.File
}

// NewJSONLLogger opens (or creates) the audit file in append mode.
func NewJSONLLogger(path string) (*JSONLLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &JSONLLogger{f: f}, nil
}

// Record appends one line to the audit file.
func (l *JSONLLogger) Record(rec models.AuditRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (l *JSONLLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// MemoryLogger keeps audit records in memory. Used in tests and by the
// interactive CLI to render the trail after a run.
type MemoryLogger struct {
	mu      sync.Mutex
	records []models.AuditRecord
}

// Record appends the record to the in-memory trail.
func (l *MemoryLogger) Record(rec models.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

// Records returns a copy of the trail in append order.
func (l *MemoryLogger) Records() []models.AuditRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.AuditRecord, len(l.records))
	copy(out, l.records)
	return out
}
