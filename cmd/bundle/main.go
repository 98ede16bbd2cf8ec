// Standalone tool for inspecting the evidence bundle the analysts
// would see for a ticker, without spending any LLM tokens.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/voletro/AgoraGo/config"
	"github.com/voletro/AgoraGo/internal/dataflows"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bundle TICKER [COMPANY]")
		os.Exit(2)
	}

	ticker := os.Args[1]
	company := ""
	if len(os.Args) > 2 {
		company = os.Args[2]
	}

	cfg := config.LoadFromEnv()
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "create directories: %v\n", err)
		os.Exit(1)
	}

	bundle, err := dataflows.NewBundleBuilder(cfg).Build(context.Background(), ticker, company)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build bundle: %v\n", err)
		os.Exit(1)
	}

	payload, _ := json.MarshalIndent(bundle, "", "  ")
	fmt.Println(string(payload))
}
