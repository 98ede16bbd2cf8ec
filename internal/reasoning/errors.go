package reasoning

import "errors"

var (
	// ErrAllAgentsFailed is returned when every agent failed both its
	// initial attempt and its retry in round 1. No consensus can be
	// computed from such a session.
	ErrAllAgentsFailed = errors.New("all agents failed in round 1")

	// ErrNoConsensus is returned when a consensus is requested for a
	// session that produced no usable positions.
	ErrNoConsensus = errors.New("no consensus possible")
)
