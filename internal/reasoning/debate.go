package reasoning

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/voletro/AgoraGo/internal/models"
)

// Agent is the adapter contract for one specialized analyst. Round 1
// receives only the data bundle; later rounds also receive the full
// prior-round position set so the agent can revise its view in light
// of its peers' stated reasoning.
type Agent interface {
	ID() string
	Evaluate(ctx context.Context, ticker string, bundle *models.DataBundle, prior []models.Position) (models.Position, error)
}

// DebateConfig bounds one debate session.
type DebateConfig struct {
	// MaxRounds is the hard round limit, at least 1.
	MaxRounds int
	// StabilityThreshold is the minimum fraction of agents whose
	// stance category must be unchanged between two consecutive
	// rounds for the debate to be declared converged.
	StabilityThreshold float64
	// AgentTimeout caps each individual agent invocation.
	AgentTimeout time.Duration
}

// DebateManager drives a bounded multi-round deliberation among a
// fixed set of agents and produces a finalized session. Each round is
// a synchronization barrier: agents are invoked concurrently, but the
// manager waits for all of them (or their retry resolution) before
// advancing.
type DebateManager struct {
	agents []Agent
	logger AuditLogger
	cfg    DebateConfig
}

// NewDebateManager validates the roster and configuration.
func NewDebateManager(agents []Agent, logger AuditLogger, cfg DebateConfig) (*DebateManager, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("debate requires at least one agent")
	}
	seen := make(map[string]struct{}, len(agents))
	for _, ag := range agents {
		if _, dup := seen[ag.ID()]; dup {
			return nil, fmt.Errorf("duplicate agent id %q", ag.ID())
		}
		seen[ag.ID()] = struct{}{}
	}
	if cfg.MaxRounds < 1 {
		return nil, fmt.Errorf("max rounds must be >= 1, got %d", cfg.MaxRounds)
	}
	if cfg.StabilityThreshold < 0 || cfg.StabilityThreshold > 1 {
		return nil, fmt.Errorf("stability threshold must be in [0,1], got %v", cfg.StabilityThreshold)
	}
	if cfg.AgentTimeout <= 0 {
		cfg.AgentTimeout = 2 * time.Minute
	}
	if logger == nil {
		logger = &MemoryLogger{}
	}
	return &DebateManager{agents: agents, logger: logger, cfg: cfg}, nil
}

type agentResult struct {
	idx       int
	pos       models.Position
	abstained bool
}

// Run executes the debate for one ticker. The returned session is
// terminal: converged, round_limit_reached, or failed. A failed round-1
// across all agents returns ErrAllAgentsFailed; a caller cancellation
// returns the context error. In both cases the partially built session
// is still returned so its audit state can be inspected.
func (m *DebateManager) Run(ctx context.Context, ticker string, bundle *models.DataBundle) (*models.DebateSession, error) {
	session := &models.DebateSession{
		Ticker:        ticker,
		Status:        models.StatusInProgress,
		StartedAt:     time.Now(),
		AuditComplete: true,
	}

	var prior []models.Position
	for round := 1; round <= m.cfg.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			m.fail(session, round, fmt.Sprintf("session cancelled: %v", err))
			return session, fmt.Errorf("debate cancelled before round %d: %w", round, err)
		}

		results, err := m.runRound(ctx, ticker, bundle, round, prior)

		// Positions completed before a cancellation remain valid
		// and are appended and logged like any others.
		current := make([]models.Position, 0, len(results))
		abstained := 0
		for i := range results {
			current = append(current, results[i].pos)
			if results[i].abstained {
				abstained++
			}
			session.Positions = append(session.Positions, results[i].pos)
			m.record(session, models.AuditRecord{
				Kind:      models.AuditPositionRecorded,
				Ticker:    ticker,
				Round:     round,
				Timestamp: time.Now(),
				Position:  &results[i].pos,
			})
		}

		if err != nil {
			m.fail(session, round, fmt.Sprintf("session cancelled: %v", err))
			return session, fmt.Errorf("debate cancelled in round %d: %w", round, err)
		}

		session.Rounds = round

		if round == 1 && abstained == len(m.agents) {
			m.fail(session, round, "all agents unavailable in round 1")
			return session, ErrAllAgentsFailed
		}

		if round >= 2 && m.stableFraction(prior, current) >= m.cfg.StabilityThreshold {
			session.Status = models.StatusConverged
			break
		}

		prior = current
		if round < m.cfg.MaxRounds {
			m.record(session, models.AuditRecord{
				Kind:      models.AuditRoundAdvanced,
				Ticker:    ticker,
				Round:     round + 1,
				Timestamp: time.Now(),
				Detail:    fmt.Sprintf("advancing to round %d", round+1),
			})
		}
	}

	if session.Status == models.StatusInProgress {
		session.Status = models.StatusRoundLimitReached
	}
	session.EndedAt = time.Now()
	return session, nil
}

// runRound fans the agents out concurrently and waits on the round
// barrier. The returned results are in fixed agent order regardless of
// completion order, so replays are deterministic. A non-nil error means
// the caller cancelled mid-round; results then hold only the positions
// that had already completed.
func (m *DebateManager) runRound(ctx context.Context, ticker string, bundle *models.DataBundle, round int, prior []models.Position) ([]agentResult, error) {
	resCh := make(chan agentResult, len(m.agents))
	for i, ag := range m.agents {
		go func(idx int, ag Agent) {
			if r, ok := m.invoke(ctx, idx, ag, ticker, bundle, round, prior); ok {
				resCh <- r
			}
		}(i, ag)
	}

	byIdx := make([]*agentResult, len(m.agents))
	received := 0
	for received < len(m.agents) {
		select {
		case <-ctx.Done():
			// Drain whatever already completed; in-flight
			// invocations are abandoned without blocking.
		drain:
			for {
				select {
				case r := <-resCh:
					byIdx[r.idx] = &r
					received++
				default:
					break drain
				}
			}
			return collectInOrder(byIdx), ctx.Err()
		case r := <-resCh:
			byIdx[r.idx] = &r
			received++
		}
	}
	return collectInOrder(byIdx), nil
}

func collectInOrder(byIdx []*agentResult) []agentResult {
	out := make([]agentResult, 0, len(byIdx))
	for _, r := range byIdx {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

type evalOut struct {
	pos models.Position
	err error
}

// invoke runs one agent under the per-invocation timeout, retrying once
// immediately on failure. A timeout counts as a failure; a second
// failure yields a neutral abstention rather than aborting the session.
// The evaluation runs in its own goroutine so an agent that ignores its
// deadline is abandoned, not waited on. Returns ok=false only when the
// caller cancelled the session, in which case no position is produced.
func (m *DebateManager) invoke(ctx context.Context, idx int, ag Agent, ticker string, bundle *models.DataBundle, round int, prior []models.Position) (agentResult, bool) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, m.cfg.AgentTimeout)
		ch := make(chan evalOut, 1)
		go func() {
			pos, err := ag.Evaluate(callCtx, ticker, bundle, prior)
			ch <- evalOut{pos: pos, err: err}
		}()

		var out evalOut
		select {
		case out = <-ch:
		case <-callCtx.Done():
			out = evalOut{err: callCtx.Err()}
		}
		cancel()

		if out.err == nil {
			pos := out.pos
			pos.AgentID = ag.ID()
			pos.Round = round
			if pos.Timestamp.IsZero() {
				pos.Timestamp = time.Now()
			}
			return agentResult{idx: idx, pos: pos}, true
		}
		lastErr = out.err
		if ctx.Err() != nil {
			return agentResult{}, false
		}
		log.Printf("agent %s failed in round %d (attempt %d): %v", ag.ID(), round, attempt+1, out.err)
	}

	log.Printf("agent %s unavailable in round %d, recording abstention: %v", ag.ID(), round, lastErr)
	return agentResult{
		idx: idx,
		pos: models.Position{
			AgentID:    ag.ID(),
			Round:      round,
			Stance:     models.StanceHold,
			Confidence: 0,
			Rationale:  "agent unavailable",
			Timestamp:  time.Now(),
		},
		abstained: true,
	}, true
}

// stableFraction computes the share of agents whose stance category is
// unchanged between two consecutive rounds.
func (m *DebateManager) stableFraction(prev, curr []models.Position) float64 {
	if len(curr) == 0 {
		return 0
	}
	prevStance := make(map[string]models.Stance, len(prev))
	for _, p := range prev {
		prevStance[p.AgentID] = p.Stance
	}
	stable := 0
	for _, p := range curr {
		if s, ok := prevStance[p.AgentID]; ok && s == p.Stance {
			stable++
		}
	}
	return float64(stable) / float64(len(m.agents))
}

func (m *DebateManager) fail(session *models.DebateSession, round int, detail string) {
	session.Status = models.StatusFailed
	session.EndedAt = time.Now()
	m.record(session, models.AuditRecord{
		Kind:      models.AuditSessionFailed,
		Ticker:    session.Ticker,
		Round:     round,
		Timestamp: time.Now(),
		Detail:    detail,
	})
}

// record appends to the audit trail. Logging is best-effort relative to
// producing a correct consensus: a failed append never aborts the
// debate, it marks the trail incomplete and surfaces one warning on the
// session.
func (m *DebateManager) record(session *models.DebateSession, rec models.AuditRecord) {
	if err := m.logger.Record(rec); err != nil {
		if session.AuditComplete {
			session.AuditComplete = false
			session.Warnings = append(session.Warnings,
				fmt.Sprintf("audit trail incomplete: %v", err))
		}
		log.Printf("audit append failed for %s: %v", session.Ticker, err)
	}
}
