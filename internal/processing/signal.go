package processing

import (
	"fmt"
	"time"

	"github.com/voletro/AgoraGo/internal/models"
)

// Signal values emitted to downstream consumers.
const (
	SignalStrongBuy  = "STRONG_BUY"
	SignalBuy        = "BUY"
	SignalHold       = "HOLD"
	SignalSell       = "SELL"
	SignalStrongSell = "STRONG_SELL"
)

// TradingSignal is the actionable output of a debate session.
type TradingSignal struct {
	Ticker         string          `json:"ticker"`
	Signal         string          `json:"signal"`
	Confidence     float64         `json:"confidence"`
	AgreementRatio float64         `json:"agreement_ratio"`
	Dissents       []models.Dissent `json:"dissents,omitempty"`
	Rounds         int             `json:"rounds"`
	Degenerate     bool            `json:"degenerate,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// SignalEmitter converts a consensus into a trading signal. Strength
// is upgraded to STRONG_* only when confidence clears the high
// threshold and at least three quarters of the panel agree.
type SignalEmitter struct {
	highConfidence float64
	minAgreement   float64
}

func NewSignalEmitter() *SignalEmitter {
	return &SignalEmitter{
		highConfidence: 0.8,
		minAgreement:   0.75,
	}
}

// Emit builds the signal for a finished session.
func (se *SignalEmitter) Emit(ticker string, consensus *models.Consensus, rounds int) (*TradingSignal, error) {
	if consensus == nil {
		return nil, fmt.Errorf("nil consensus for %s", ticker)
	}

	signal := &TradingSignal{
		Ticker:         ticker,
		Confidence:     consensus.Confidence,
		AgreementRatio: consensus.AgreementRatio,
		Dissents:       consensus.Dissent,
		Rounds:         rounds,
		Degenerate:     consensus.Degenerate,
		GeneratedAt:    time.Now(),
	}

	if consensus.Degenerate {
		signal.Signal = SignalHold
		return signal, nil
	}

	signal.Signal = se.strength(consensus)
	return signal, nil
}

func (se *SignalEmitter) strength(consensus *models.Consensus) string {
	strong := consensus.Confidence >= se.highConfidence &&
		consensus.AgreementRatio >= se.minAgreement

	switch consensus.FinalStance.Sign() {
	case 1:
		if consensus.FinalStance == models.StanceStrongBuy || strong {
			return SignalStrongBuy
		}
		return SignalBuy
	case -1:
		if consensus.FinalStance == models.StanceStrongSell || strong {
			return SignalStrongSell
		}
		return SignalSell
	default:
		return SignalHold
	}
}
