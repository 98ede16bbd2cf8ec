package agents

import "fmt"

// UnavailableError wraps any provider error or timeout so callers can
// tell an unavailable agent apart from other failures.
type UnavailableError struct {
	AgentID string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("agent %s unavailable: %v", e.AgentID, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
