package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voletro/AgoraGo/internal/models"
)

// analystResponse is the JSON shape analysts are instructed to return.
type analystResponse struct {
	Stance     string   `json:"stance"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale"`
	KeyPoints  []string `json:"key_points"`
	Risks      []string `json:"risks"`
}

// parseAnalystResponse extracts the JSON object from a model reply,
// tolerating code fences and surrounding prose.
func parseAnalystResponse(content string) (*analystResponse, error) {
	raw := extractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object found in model response")
	}
	var resp analystResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return &resp, nil
}

// stance normalizes the reported stance; anything unrecognized falls
// back to hold rather than failing the whole evaluation.
func (r *analystResponse) stance() models.Stance {
	s := models.Stance(strings.ToLower(strings.TrimSpace(r.Stance)))
	switch s {
	case "strong sell", "strong-sell":
		s = models.StanceStrongSell
	case "strong buy", "strong-buy":
		s = models.StanceStrongBuy
	}
	if !s.Valid() {
		return models.StanceHold
	}
	return s
}

// confidence clamps the self-reported certainty into [0,1].
func (r *analystResponse) confidence() float64 {
	switch {
	case r.Confidence < 0:
		return 0
	case r.Confidence > 1:
		return 1
	default:
		return r.Confidence
	}
}

// extractJSON returns the first balanced top-level JSON object in the
// text, skipping braces inside string literals.
func extractJSON(content string) string {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}
