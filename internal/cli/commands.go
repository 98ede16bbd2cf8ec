package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voletro/AgoraGo/config"
	"github.com/voletro/AgoraGo/consts"
	"github.com/voletro/AgoraGo/internal/display"
	"github.com/voletro/AgoraGo/internal/storage"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.LoadFromEnv()

	rootCmd := &cobra.Command{
		Use:   "agorago",
		Short: "AgoraGo - multi-agent stock debate engine",
		Long: `AgoraGo runs a panel of specialist LLM analysts through a structured
debate over a stock, builds a weighted consensus from their positions,
and emits an auditable trading signal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cfg)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug output")

	return rootCmd
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "analyze [TICKER]",
		Short: "Run a debate session for a stock ticker",
		Long: `Run the full analyst debate for a given ticker and print the
resulting consensus signal.
Example: agorago analyze AAPL --company "Apple Inc."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), cfg, args[0], company)
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "Company name shown to the analysts (defaults to the ticker)")

	return cmd
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [TICKER]",
		Short: "Show stored signals for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewSignalStore(cfg.SignalDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			signals, err := store.History(context.Background(), args[0], limit)
			if err != nil {
				return err
			}

			fmt.Println(display.NewRenderer().RenderHistory(signals))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of signals to show")

	return cmd
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("AgoraGo v0.1.0")
			fmt.Println("Multi-agent stock debate and signal engine")
		},
	}
}

func showConfig(cfg *config.Config) {
	fmt.Printf("LLM provider:        %s\n", cfg.LLMProvider)
	fmt.Printf("Model:               %s\n", cfg.ModelName)
	fmt.Printf("Max debate rounds:   %d\n", cfg.MaxDebateRounds)
	fmt.Printf("Stability threshold: %.2f\n", cfg.StabilityThreshold)
	fmt.Printf("Agent timeout:       %s\n", cfg.AgentTimeout)
	fmt.Printf("Cache enabled:       %v\n", cfg.CacheEnabled)
	fmt.Printf("Data dir:            %s\n", cfg.DataDir)
	fmt.Printf("Audit log:           %s\n", cfg.AuditLogPath())
	fmt.Println("Agent weights:")
	for _, id := range consts.AllAnalysts() {
		fmt.Printf("  %-22s %.2f\n", id, cfg.AgentWeights[id])
	}
}

func validateConfig(cfg *config.Config) error {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set")
		}
	case "deepseek":
		if cfg.DeepSeekAPIKey == "" {
			return fmt.Errorf("DEEPSEEK_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}

	if cfg.MaxDebateRounds < 1 {
		return fmt.Errorf("max debate rounds must be at least 1")
	}
	if cfg.StabilityThreshold < 0 || cfg.StabilityThreshold > 1 {
		return fmt.Errorf("stability threshold must be in [0, 1]")
	}

	if cfg.FinnhubAPIKey == "" {
		fmt.Println("note: FINNHUB_API_KEY not set, news falls back to Google News scraping")
	}

	fmt.Println("Configuration OK")
	return nil
}
