package models

import "time"

// SessionStatus tracks the lifecycle of a debate session.
type SessionStatus string

const (
	StatusInProgress        SessionStatus = "in_progress"
	StatusConverged         SessionStatus = "converged"
	StatusRoundLimitReached SessionStatus = "round_limit_reached"
	StatusFailed            SessionStatus = "failed"
)

// Terminal reports whether the session has left in_progress.
func (s SessionStatus) Terminal() bool {
	return s != StatusInProgress && s != ""
}

// DebateSession aggregates every position produced during one ticker's
// analysis run. Positions are kept in insertion order (round by round,
// fixed agent order within a round) so a session can be replayed
// deterministically from its audit trail.
type DebateSession struct {
	Ticker    string        `json:"ticker"`
	Positions []Position    `json:"positions"`
	Status    SessionStatus `json:"status"`
	Rounds    int           `json:"rounds"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at,omitempty"`

	// AuditComplete is false when at least one audit append failed.
	// The decision is still valid in that case; only the trail is
	// marked incomplete.
	AuditComplete bool     `json:"audit_complete"`
	Warnings      []string `json:"warnings,omitempty"`
}

// RoundPositions returns the positions recorded for the given round,
// in insertion order.
func (s *DebateSession) RoundPositions(round int) []Position {
	var out []Position
	for _, p := range s.Positions {
		if p.Round == round {
			out = append(out, p)
		}
	}
	return out
}

// FinalRound returns the highest round number present in the session,
// or 0 when no positions were recorded.
func (s *DebateSession) FinalRound() int {
	max := 0
	for _, p := range s.Positions {
		if p.Round > max {
			max = p.Round
		}
	}
	return max
}
