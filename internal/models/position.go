package models

import "time"

// Stance is an agent's directional view on an instrument. It is an
// ordered categorical scale that also maps onto a fixed numeric scale
// so positions can be combined in a weighted vote.
type Stance string

const (
	StanceStrongSell Stance = "strong_sell"
	StanceSell       Stance = "sell"
	StanceHold       Stance = "hold"
	StanceBuy        Stance = "buy"
	StanceStrongBuy  Stance = "strong_buy"
)

// Value maps a stance onto the ordinal scale strong_sell=-2 .. strong_buy=+2.
// Unknown stances count as hold.
func (s Stance) Value() float64 {
	switch s {
	case StanceStrongSell:
		return -2
	case StanceSell:
		return -1
	case StanceBuy:
		return 1
	case StanceStrongBuy:
		return 2
	default:
		return 0
	}
}

// Sign returns -1, 0 or +1 for the stance direction.
func (s Stance) Sign() int {
	v := s.Value()
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Valid reports whether s is one of the five known categories.
func (s Stance) Valid() bool {
	switch s {
	case StanceStrongSell, StanceSell, StanceHold, StanceBuy, StanceStrongBuy:
		return true
	}
	return false
}

// StanceFromScore maps a weighted numeric average back to the nearest
// category. Bucket boundaries sit at -1.5, -0.5, 0.5 and 1.5; a score
// landing exactly on a boundary rounds toward hold.
func StanceFromScore(score float64) Stance {
	switch {
	case score < -1.5:
		return StanceStrongSell
	case score < -0.5:
		return StanceSell
	case score <= 0.5:
		return StanceHold
	case score <= 1.5:
		return StanceBuy
	default:
		return StanceStrongBuy
	}
}

// Position is one agent's stance at one debate round. Once appended to
// a session it is never mutated, only superseded by a later round.
type Position struct {
	AgentID    string    `json:"agent_id"`
	Round      int       `json:"round"`
	Stance     Stance    `json:"stance"`
	Confidence float64   `json:"confidence"`
	Rationale  string    `json:"rationale"`
	Timestamp  time.Time `json:"timestamp"`
}
