package debug

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/voletro/AgoraGo/config"
)

// Init starts the eino visual debug plugin when enabled. The plugin
// exposes a local web UI for inspecting prompt templates and model
// calls during a debate session.
func Init(ctx context.Context, cfg *config.Config) error {
	if !cfg.EinoDebugEnabled {
		return nil
	}

	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize eino debug plugin: %w", err)
	}

	if cfg.Debug {
		log.Printf("[debug] eino devops plugin initialized")
	}
	return nil
}
