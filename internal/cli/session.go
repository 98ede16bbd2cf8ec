package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voletro/AgoraGo/config"
	"github.com/voletro/AgoraGo/consts"
	"github.com/voletro/AgoraGo/internal/agents"
	"github.com/voletro/AgoraGo/internal/dataflows"
	"github.com/voletro/AgoraGo/internal/debug"
	"github.com/voletro/AgoraGo/internal/display"
	"github.com/voletro/AgoraGo/internal/models"
	"github.com/voletro/AgoraGo/internal/processing"
	"github.com/voletro/AgoraGo/internal/reasoning"
	"github.com/voletro/AgoraGo/internal/storage"
)

// runSession executes the full pipeline for one ticker: evidence
// bundle, analyst debate, consensus, signal emission, persistence.
func runSession(ctx context.Context, cfg *config.Config, ticker, company string) error {
	if err := debug.Init(ctx, cfg); err != nil {
		return err
	}

	chatModel, err := agents.NewChatModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create chat model: %w", err)
	}

	roster := make([]reasoning.Agent, 0, len(consts.AllAnalysts()))
	for _, id := range consts.AllAnalysts() {
		analyst, err := agents.NewAnalyst(id, chatModel)
		if err != nil {
			return fmt.Errorf("create analyst %s: %w", id, err)
		}
		roster = append(roster, analyst)
	}

	fmt.Printf("Gathering evidence for %s...\n", ticker)
	bundle, err := dataflows.NewBundleBuilder(cfg).Build(ctx, ticker, company)
	if err != nil {
		return fmt.Errorf("build data bundle: %w", err)
	}

	logger, err := reasoning.NewJSONLLogger(cfg.AuditLogPath())
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer logger.Close()

	manager, err := reasoning.NewDebateManager(roster, logger, reasoning.DebateConfig{
		MaxRounds:          cfg.MaxDebateRounds,
		StabilityThreshold: cfg.StabilityThreshold,
		AgentTimeout:       cfg.AgentTimeout,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Running debate (%d analysts, up to %d rounds)...\n",
		len(roster), cfg.MaxDebateRounds)

	session, err := manager.Run(ctx, bundle.Ticker, bundle)
	if err != nil {
		if errors.Is(err, reasoning.ErrAllAgentsFailed) {
			return fmt.Errorf("debate aborted, no analyst produced a position: %w", err)
		}
		return fmt.Errorf("debate failed: %w", err)
	}

	renderer := display.NewRenderer()
	fmt.Println(renderer.RenderSession(session))

	consensus, err := reasoning.BuildConsensus(session, cfg.AgentWeights)
	if err != nil {
		return fmt.Errorf("build consensus: %w", err)
	}

	if recErr := logger.Record(models.AuditRecord{
		Kind:      models.AuditConsensusReached,
		Ticker:    session.Ticker,
		Round:     consensus.SourceRound,
		Timestamp: time.Now(),
		Consensus: consensus,
	}); recErr != nil {
		session.AuditComplete = false
		fmt.Printf("warning: consensus audit record not written: %v\n", recErr)
	}

	signal, err := processing.NewSignalEmitter().Emit(session.Ticker, consensus, session.Rounds)
	if err != nil {
		return err
	}

	store, err := storage.NewSignalStore(cfg.SignalDBPath())
	if err != nil {
		return fmt.Errorf("open signal store: %w", err)
	}
	defer store.Close()

	if err := store.SaveSignal(ctx, signal); err != nil {
		return fmt.Errorf("persist signal: %w", err)
	}

	fmt.Println(renderer.RenderSignal(signal, consensus))
	return nil
}
