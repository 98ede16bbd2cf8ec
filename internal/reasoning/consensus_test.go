package reasoning

import (
	"math"
	"reflect"
	"testing"

	"github.com/voletro/AgoraGo/internal/models"
)

func sessionWith(positions ...models.Position) *models.DebateSession {
	return &models.DebateSession{
		Ticker:    "AAPL",
		Positions: positions,
		Status:    models.StatusRoundLimitReached,
		Rounds:    1,
	}
}

func pos(agent string, round int, stance models.Stance, confidence float64) models.Position {
	return models.Position{
		AgentID:    agent,
		Round:      round,
		Stance:     stance,
		Confidence: confidence,
		Rationale:  agent + " rationale",
	}
}

func TestBuildConsensusWeightedVote(t *testing.T) {
	// buy(0.8), buy(0.6), hold(0.5), sell(0.4), all weight 1.0:
	// score = (0.8 + 0.6 + 0 - 0.4) / 2.3 = 0.4348 -> hold bucket.
	session := sessionWith(
		pos("geo", 1, models.StanceBuy, 0.8),
		pos("fund", 1, models.StanceBuy, 0.6),
		pos("tech", 1, models.StanceHold, 0.5),
		pos("sent", 1, models.StanceSell, 0.4),
	)

	c, err := BuildConsensus(session, nil)
	if err != nil {
		t.Fatalf("BuildConsensus: %v", err)
	}

	if c.FinalStance != models.StanceHold {
		t.Fatalf("expected hold, got %s", c.FinalStance)
	}
	if math.Abs(c.Score-1.0/2.3) > 1e-9 {
		t.Fatalf("expected score %.4f, got %.4f", 1.0/2.3, c.Score)
	}
	if c.AgreementRatio != 0.25 {
		t.Fatalf("expected agreement ratio 0.25, got %v", c.AgreementRatio)
	}
	if c.SourceRound != 1 {
		t.Fatalf("expected source round 1, got %d", c.SourceRound)
	}
	if c.Degenerate {
		t.Fatal("consensus should not be degenerate")
	}

	var dissenters []string
	for _, d := range c.Dissent {
		dissenters = append(dissenters, d.AgentID)
	}
	if !reflect.DeepEqual(dissenters, []string{"geo", "fund", "sent"}) {
		t.Fatalf("expected dissent from geo, fund, sent, got %v", dissenters)
	}
	for _, d := range c.Dissent {
		if d.Rationale != d.AgentID+" rationale" {
			t.Fatalf("dissent rationale not carried verbatim: %q", d.Rationale)
		}
	}
}

func TestBuildConsensusDegenerate(t *testing.T) {
	session := sessionWith(
		pos("geo", 1, models.StanceBuy, 0),
		pos("fund", 1, models.StanceSell, 0),
		pos("tech", 1, models.StanceHold, 0),
		pos("sent", 1, models.StanceHold, 0),
	)

	c, err := BuildConsensus(session, map[string]float64{"geo": 5})
	if err != nil {
		t.Fatalf("BuildConsensus: %v", err)
	}
	if !c.Degenerate {
		t.Fatal("expected degenerate consensus when all confidences are zero")
	}
	if c.FinalStance != models.StanceHold || c.Confidence != 0 {
		t.Fatalf("degenerate consensus must be hold/0, got %s/%v", c.FinalStance, c.Confidence)
	}
}

func TestBuildConsensusZeroConfidenceHasNoInfluence(t *testing.T) {
	// A zero-confidence agent must not sway the outcome even with a
	// large nominal weight.
	session := sessionWith(
		pos("geo", 1, models.StanceStrongSell, 0),
		pos("fund", 1, models.StanceBuy, 0.9),
	)

	c, err := BuildConsensus(session, map[string]float64{"geo": 100})
	if err != nil {
		t.Fatalf("BuildConsensus: %v", err)
	}
	if c.FinalStance != models.StanceBuy {
		t.Fatalf("expected buy, got %s", c.FinalStance)
	}
}

func TestBuildConsensusWeights(t *testing.T) {
	// Missing agents default to weight 1.0; weights need not sum to 1.
	session := sessionWith(
		pos("geo", 1, models.StanceStrongBuy, 1),
		pos("fund", 1, models.StanceStrongSell, 1),
	)

	c, err := BuildConsensus(session, map[string]float64{"geo": 3})
	if err != nil {
		t.Fatalf("BuildConsensus: %v", err)
	}
	// score = (3*2 - 1*2) / (3+1) = 1.0 -> buy.
	if c.FinalStance != models.StanceBuy {
		t.Fatalf("expected buy, got %s", c.FinalStance)
	}
	if math.Abs(c.Score-1.0) > 1e-9 {
		t.Fatalf("expected score 1.0, got %v", c.Score)
	}
}

func TestBuildConsensusRejectsNegativeWeight(t *testing.T) {
	session := sessionWith(pos("geo", 1, models.StanceBuy, 0.5))
	if _, err := BuildConsensus(session, map[string]float64{"geo": -1}); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestBuildConsensusIdempotent(t *testing.T) {
	session := sessionWith(
		pos("geo", 1, models.StanceBuy, 0.8),
		pos("fund", 1, models.StanceSell, 0.7),
		pos("tech", 1, models.StanceHold, 0.2),
	)
	weights := map[string]float64{"geo": 2, "fund": 0.5}

	first, err := BuildConsensus(session, weights)
	if err != nil {
		t.Fatalf("BuildConsensus: %v", err)
	}
	second, err := BuildConsensus(session, weights)
	if err != nil {
		t.Fatalf("BuildConsensus: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("consensus not idempotent: %+v vs %+v", first, second)
	}
}

func TestBuildConsensusUsesFinalRoundOnly(t *testing.T) {
	session := sessionWith(
		pos("geo", 1, models.StanceStrongSell, 1),
		pos("fund", 1, models.StanceStrongSell, 1),
		pos("geo", 2, models.StanceBuy, 0.9),
		pos("fund", 2, models.StanceBuy, 0.9),
	)
	session.Rounds = 2

	c, err := BuildConsensus(session, nil)
	if err != nil {
		t.Fatalf("BuildConsensus: %v", err)
	}
	if c.SourceRound != 2 {
		t.Fatalf("expected source round 2, got %d", c.SourceRound)
	}
	if c.FinalStance != models.StanceBuy {
		t.Fatalf("expected buy from final round, got %s", c.FinalStance)
	}
}

func TestBuildConsensusNoPositions(t *testing.T) {
	if _, err := BuildConsensus(sessionWith(), nil); err == nil {
		t.Fatal("expected error for empty session")
	}
}

func TestStanceBucketBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Stance
	}{
		{-2.0, models.StanceStrongSell},
		{-1.51, models.StanceStrongSell},
		{-1.5, models.StanceSell}, // boundary rounds toward hold
		{-0.51, models.StanceSell},
		{-0.5, models.StanceHold}, // boundary rounds toward hold
		{0, models.StanceHold},
		{0.4348, models.StanceHold},
		{0.5, models.StanceHold}, // boundary rounds toward hold
		{0.51, models.StanceBuy},
		{1.5, models.StanceBuy}, // boundary rounds toward hold
		{1.51, models.StanceStrongBuy},
		{2.0, models.StanceStrongBuy},
	}
	for _, tc := range cases {
		if got := models.StanceFromScore(tc.score); got != tc.want {
			t.Errorf("StanceFromScore(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
