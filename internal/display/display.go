package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/voletro/AgoraGo/internal/models"
	"github.com/voletro/AgoraGo/internal/processing"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(80)

	buyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	sellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	holdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))
)

// Renderer formats debate sessions and signals for the terminal.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderSession returns the full debate transcript, round by round.
func (r *Renderer) RenderSession(session *models.DebateSession) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Debate: %s", session.Ticker)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Status: %s after %d round(s)", session.Status, session.Rounds)))
	sb.WriteString("\n\n")

	for round := 1; round <= session.Rounds; round++ {
		positions := session.RoundPositions(round)
		if len(positions) == 0 {
			continue
		}

		sb.WriteString(sectionStyle.Render(fmt.Sprintf("Round %d", round)))
		sb.WriteString("\n")
		for _, pos := range positions {
			sb.WriteString(fmt.Sprintf("  %s  %s (%.2f)\n",
				stanceStyle(pos.Stance).Render(strings.ToUpper(string(pos.Stance))),
				pos.AgentID, pos.Confidence))
			sb.WriteString(dimStyle.Render("    "+truncate(pos.Rationale, 140)) + "\n")
		}
		sb.WriteString("\n")
	}

	for _, warning := range session.Warnings {
		sb.WriteString(warnStyle.Render("warning: "+warning) + "\n")
	}
	if !session.AuditComplete {
		sb.WriteString(warnStyle.Render("audit trail incomplete for this session") + "\n")
	}

	return sb.String()
}

// RenderSignal returns the boxed final signal summary.
func (r *Renderer) RenderSignal(signal *processing.TradingSignal, consensus *models.Consensus) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s  %s\n",
		signalStyle(signal.Signal).Render(signal.Signal), signal.Ticker))
	sb.WriteString(fmt.Sprintf("Confidence: %.2f   Agreement: %.2f   Rounds: %d\n",
		signal.Confidence, signal.AgreementRatio, signal.Rounds))

	if signal.Degenerate {
		sb.WriteString(warnStyle.Render("No analyst reported any confidence; defaulting to HOLD.") + "\n")
	}

	if consensus != nil && len(consensus.Dissent) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Dissenting views") + "\n")
		for _, dissent := range consensus.Dissent {
			sb.WriteString(fmt.Sprintf("  %s (%s): %s\n",
				dissent.AgentID,
				stanceStyle(dissent.Stance).Render(string(dissent.Stance)),
				truncate(dissent.Rationale, 120)))
		}
	}

	return panelStyle.Render(sb.String())
}

// RenderHistory returns a compact table of stored signals.
func (r *Renderer) RenderHistory(signals []*processing.TradingSignal) string {
	if len(signals) == 0 {
		return dimStyle.Render("No stored signals.")
	}

	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Signal history") + "\n")
	for _, sig := range signals {
		sb.WriteString(fmt.Sprintf("  %s  %-12s conf %.2f  agree %.2f  %s\n",
			sig.GeneratedAt.Format("2006-01-02 15:04"),
			signalStyle(sig.Signal).Render(sig.Signal),
			sig.Confidence, sig.AgreementRatio, sig.Ticker))
	}
	return sb.String()
}

func stanceStyle(stance models.Stance) lipgloss.Style {
	switch stance.Sign() {
	case 1:
		return buyStyle
	case -1:
		return sellStyle
	default:
		return holdStyle
	}
}

func signalStyle(signal string) lipgloss.Style {
	switch {
	case strings.HasSuffix(signal, "BUY"):
		return buyStyle
	case strings.HasSuffix(signal, "SELL"):
		return sellStyle
	default:
		return holdStyle
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
