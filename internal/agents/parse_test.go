package agents

import (
	"testing"

	"github.com/voletro/AgoraGo/internal/models"
)

func TestParseAnalystResponsePlainJSON(t *testing.T) {
	content := `{"stance": "buy", "confidence": 0.8, "rationale": "strong earnings", "key_points": ["margins up"], "risks": ["fx exposure"]}`

	resp, err := parseAnalystResponse(content)
	if err != nil {
		t.Fatalf("parseAnalystResponse: %v", err)
	}
	if resp.stance() != models.StanceBuy {
		t.Fatalf("expected buy, got %s", resp.stance())
	}
	if resp.confidence() != 0.8 {
		t.Fatalf("expected confidence 0.8, got %v", resp.confidence())
	}
	if resp.Rationale != "strong earnings" {
		t.Fatalf("unexpected rationale %q", resp.Rationale)
	}
}

func TestParseAnalystResponseCodeFence(t *testing.T) {
	content := "Here is my assessment:\n```json\n{\"stance\": \"strong_sell\", \"confidence\": 0.9, \"rationale\": \"deteriorating {cash} flow\"}\n```\nLet me know if you need more."

	resp, err := parseAnalystResponse(content)
	if err != nil {
		t.Fatalf("parseAnalystResponse: %v", err)
	}
	if resp.stance() != models.StanceStrongSell {
		t.Fatalf("expected strong_sell, got %s", resp.stance())
	}
	if resp.Rationale != "deteriorating {cash} flow" {
		t.Fatalf("braces inside strings must survive extraction, got %q", resp.Rationale)
	}
}

func TestParseAnalystResponseNormalization(t *testing.T) {
	cases := []struct {
		raw  string
		want models.Stance
	}{
		{"BUY", models.StanceBuy},
		{"Strong Buy", models.StanceStrongBuy},
		{"strong-sell", models.StanceStrongSell},
		{" hold ", models.StanceHold},
		{"accumulate", models.StanceHold}, // unknown falls back to hold
	}
	for _, tc := range cases {
		resp := &analystResponse{Stance: tc.raw}
		if got := resp.stance(); got != tc.want {
			t.Errorf("stance(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseAnalystResponseClampsConfidence(t *testing.T) {
	if c := (&analystResponse{Confidence: 1.7}).confidence(); c != 1 {
		t.Fatalf("expected clamp to 1, got %v", c)
	}
	if c := (&analystResponse{Confidence: -0.3}).confidence(); c != 0 {
		t.Fatalf("expected clamp to 0, got %v", c)
	}
}

func TestParseAnalystResponseNoJSON(t *testing.T) {
	if _, err := parseAnalystResponse("I think you should buy."); err == nil {
		t.Fatal("expected error when no JSON object present")
	}
}

func TestRolePromptsEmbedded(t *testing.T) {
	for _, id := range []string{
		"geopolitical_analyst",
		"fundamental_analyst",
		"technical_analyst",
		"sentiment_analyst",
		"analysis_request",
		"debate_revision",
	} {
		content, err := loadPrompt(id)
		if err != nil {
			t.Fatalf("loadPrompt(%s): %v", id, err)
		}
		if content == "" {
			t.Fatalf("prompt %s is empty", id)
		}
	}
}
