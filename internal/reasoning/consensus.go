package reasoning

import (
	"fmt"

	"github.com/voletro/AgoraGo/internal/models"
)

// BuildConsensus reduces the final round of a debate session into one
// weighted decision. It is a pure function: the same positions and
// weights always yield the same consensus, and the session is not
// touched.
//
// Each stance maps onto the fixed ordinal scale strong_sell=-2 ..
// strong_buy=+2 and the vote is confidence-gated: the aggregate score
// is sum(w_i * c_i * v_i) / sum(w_i * c_i), so a zero-confidence agent
// contributes nothing regardless of its nominal weight. Weights default
// to 1.0 for agents missing from the map and need not sum to 1.
func BuildConsensus(session *models.DebateSession, weights map[string]float64) (*models.Consensus, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: nil session", ErrNoConsensus)
	}
	if session.Status == models.StatusFailed {
		return nil, fmt.Errorf("%w: session failed", ErrNoConsensus)
	}
	final := session.FinalRound()
	positions := session.RoundPositions(final)
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: session has no positions", ErrNoConsensus)
	}
	for id, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("agent weight for %q must be non-negative, got %v", id, w)
		}
	}

	var weightedSum, norm float64
	for _, p := range positions {
		w := 1.0
		if override, ok := weights[p.AgentID]; ok {
			w = override
		}
		weightedSum += w * p.Confidence * p.Stance.Value()
		norm += w * p.Confidence
	}

	consensus := &models.Consensus{SourceRound: final}
	if norm == 0 {
		// Every agent abstained or reported zero confidence. The
		// hold result carries no signal, so it is flagged rather
		// than treated as a normal vote.
		consensus.FinalStance = models.StanceHold
		consensus.Degenerate = true
	} else {
		consensus.Score = weightedSum / norm
		consensus.FinalStance = models.StanceFromScore(consensus.Score)
		consensus.Confidence = norm / totalWeight(positions, weights)
		if consensus.Confidence > 1 {
			consensus.Confidence = 1
		}
	}

	// An agent agrees when its own stance points the same way as the
	// consensus; hold counts as agreeing only with a hold consensus.
	finalSign := consensus.FinalStance.Sign()
	agreeing := 0
	for _, p := range positions {
		if p.Stance.Sign() == finalSign {
			agreeing++
			continue
		}
		consensus.Dissent = append(consensus.Dissent, models.Dissent{
			AgentID:   p.AgentID,
			Stance:    p.Stance,
			Rationale: p.Rationale,
		})
	}
	consensus.AgreementRatio = float64(agreeing) / float64(len(positions))

	return consensus, nil
}

// totalWeight is the weight mass ignoring confidence, used to express
// the aggregate confidence as the confidence-weighted share of the
// roster's full voting power.
func totalWeight(positions []models.Position, weights map[string]float64) float64 {
	total := 0.0
	for _, p := range positions {
		w := 1.0
		if override, ok := weights[p.AgentID]; ok {
			w = override
		}
		total += w
	}
	if total == 0 {
		return 1
	}
	return total
}
