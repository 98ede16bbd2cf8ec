package models

import "time"

// AuditKind enumerates the events the reasoning logger records.
type AuditKind string

const (
	AuditPositionRecorded AuditKind = "position_recorded"
	AuditRoundAdvanced    AuditKind = "round_advanced"
	AuditConsensusReached AuditKind = "consensus_reached"
	AuditSessionFailed    AuditKind = "session_failed"
)

// AuditRecord is one append-only entry in the reasoning trail. Records
// are write-once and serialized one JSON object per line so the trail
// can be streamed and tailed.
type AuditRecord struct {
	Kind      AuditKind  `json:"kind"`
	Ticker    string     `json:"ticker"`
	Round     int        `json:"round,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Position  *Position  `json:"position,omitempty"`
	Consensus *Consensus `json:"consensus,omitempty"`
	Detail    string     `json:"detail,omitempty"`
}
