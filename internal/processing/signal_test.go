package processing

import (
	"testing"

	"github.com/voletro/AgoraGo/internal/models"
)

func TestEmitMapsStanceToSignal(t *testing.T) {
	se := NewSignalEmitter()

	cases := []struct {
		stance     models.Stance
		confidence float64
		agreement  float64
		want       string
	}{
		{models.StanceBuy, 0.5, 0.5, SignalBuy},
		{models.StanceSell, 0.5, 0.5, SignalSell},
		{models.StanceHold, 0.9, 1.0, SignalHold},
		{models.StanceStrongBuy, 0.3, 0.25, SignalStrongBuy},
		{models.StanceStrongSell, 0.3, 0.25, SignalStrongSell},
	}
	for _, tc := range cases {
		consensus := &models.Consensus{
			FinalStance:    tc.stance,
			Confidence:     tc.confidence,
			AgreementRatio: tc.agreement,
		}
		signal, err := se.Emit("AAPL", consensus, 2)
		if err != nil {
			t.Fatalf("Emit: %v", err)
		}
		if signal.Signal != tc.want {
			t.Errorf("stance %s conf %v agree %v: got %s, want %s",
				tc.stance, tc.confidence, tc.agreement, signal.Signal, tc.want)
		}
	}
}

func TestEmitUpgradesOnHighConfidenceAndAgreement(t *testing.T) {
	se := NewSignalEmitter()

	consensus := &models.Consensus{
		FinalStance:    models.StanceBuy,
		Confidence:     0.85,
		AgreementRatio: 0.75,
	}
	signal, err := se.Emit("MSFT", consensus, 3)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if signal.Signal != SignalStrongBuy {
		t.Fatalf("expected STRONG_BUY upgrade, got %s", signal.Signal)
	}

	// One of the two gates failing keeps the base signal.
	consensus.AgreementRatio = 0.5
	signal, _ = se.Emit("MSFT", consensus, 3)
	if signal.Signal != SignalBuy {
		t.Fatalf("agreement below 0.75 must not upgrade, got %s", signal.Signal)
	}

	consensus.AgreementRatio = 1.0
	consensus.Confidence = 0.6
	signal, _ = se.Emit("MSFT", consensus, 3)
	if signal.Signal != SignalBuy {
		t.Fatalf("confidence below 0.8 must not upgrade, got %s", signal.Signal)
	}
}

func TestEmitDegenerateAlwaysHolds(t *testing.T) {
	se := NewSignalEmitter()

	consensus := &models.Consensus{
		FinalStance: models.StanceHold,
		Degenerate:  true,
	}
	signal, err := se.Emit("TSLA", consensus, 1)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if signal.Signal != SignalHold || !signal.Degenerate {
		t.Fatalf("degenerate consensus must emit a marked HOLD, got %+v", signal)
	}
}

func TestEmitCarriesSessionContext(t *testing.T) {
	se := NewSignalEmitter()

	consensus := &models.Consensus{
		FinalStance:    models.StanceSell,
		Confidence:     0.4,
		AgreementRatio: 0.5,
		Dissent: []models.Dissent{
			{AgentID: "sentiment_analyst", Stance: models.StanceBuy, Rationale: "retail momentum"},
		},
	}
	signal, err := se.Emit("NVDA", consensus, 3)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if signal.Ticker != "NVDA" || signal.Rounds != 3 {
		t.Fatalf("session context lost: %+v", signal)
	}
	if len(signal.Dissents) != 1 || signal.Dissents[0].AgentID != "sentiment_analyst" {
		t.Fatalf("dissents must be carried verbatim: %+v", signal.Dissents)
	}
	if signal.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt must be set")
	}
}

func TestEmitNilConsensus(t *testing.T) {
	if _, err := NewSignalEmitter().Emit("AAPL", nil, 1); err == nil {
		t.Fatal("nil consensus must be rejected")
	}
}
