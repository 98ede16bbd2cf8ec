package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/voletro/AgoraGo/internal/models"
)

// Analyst is one LLM-backed specialist. All four analysts share the
// same evaluation flow; only the role prompt differs, so new analyst
// kinds are a prompt file away.
type Analyst struct {
	id         string
	rolePrompt string
	chatModel  model.BaseChatModel
}

// NewAnalyst loads the role prompt for the given analyst id.
func NewAnalyst(id string, chatModel model.BaseChatModel) (*Analyst, error) {
	rolePrompt, err := loadPrompt(id)
	if err != nil {
		return nil, err
	}
	return &Analyst{id: id, rolePrompt: rolePrompt, chatModel: chatModel}, nil
}

func (a *Analyst) ID() string { return a.id }

// Evaluate asks the model for a stance on the ticker. In rounds after
// the first, prior carries every agent's previous position including
// rationales, and the analyst is asked to defend or revise its view.
func (a *Analyst) Evaluate(ctx context.Context, ticker string, bundle *models.DataBundle, prior []models.Position) (models.Position, error) {
	userPrompt, err := loadPrompt("analysis_request")
	if err != nil {
		return models.Position{}, err
	}

	messages := []schema.MessagesTemplate{
		schema.SystemMessage(a.rolePrompt),
		schema.UserMessage(userPrompt),
	}
	params := map[string]any{
		"ticker":            bundle.Ticker,
		"company_name":      orUnknown(bundle.CompanyName),
		"stock_summary":     orUnknown(bundle.StockSummary),
		"news_summary":      orUnknown(bundle.NewsSummary),
		"financial_summary": orUnknown(bundle.FinancialSummary),
	}

	if len(prior) > 0 {
		revisionPrompt, err := loadPrompt("debate_revision")
		if err != nil {
			return models.Position{}, err
		}
		messages = append(messages, schema.UserMessage(revisionPrompt))
		params["prior_positions"] = formatPriorPositions(prior)
	}

	template := prompt.FromMessages(schema.FString, messages...)
	formatted, err := template.Format(ctx, params)
	if err != nil {
		return models.Position{}, fmt.Errorf("format prompt for %s: %w", a.id, err)
	}

	resp, err := a.chatModel.Generate(ctx, formatted)
	if err != nil {
		return models.Position{}, &UnavailableError{AgentID: a.id, Err: err}
	}

	parsed, err := parseAnalystResponse(resp.Content)
	if err != nil {
		return models.Position{}, &UnavailableError{AgentID: a.id, Err: err}
	}

	return models.Position{
		AgentID:    a.id,
		Stance:     parsed.stance(),
		Confidence: parsed.confidence(),
		Rationale:  parsed.Rationale,
		Timestamp:  time.Now(),
	}, nil
}

// formatPriorPositions renders the previous round for the revision
// prompt. Every peer's stance, confidence and rationale is included so
// agents argue against reasoning, not reputations.
func formatPriorPositions(prior []models.Position) string {
	var b strings.Builder
	for _, p := range prior {
		fmt.Fprintf(&b, "### %s\n", p.AgentID)
		fmt.Fprintf(&b, "- Stance: %s\n", p.Stance)
		fmt.Fprintf(&b, "- Confidence: %.2f\n", p.Confidence)
		fmt.Fprintf(&b, "- Rationale: %s\n\n", p.Rationale)
	}
	return strings.TrimSpace(b.String())
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not available"
	}
	return s
}
