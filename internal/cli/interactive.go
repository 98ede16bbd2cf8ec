package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/voletro/AgoraGo/config"
)

// runInteractive prompts for a ticker and runs a session, looping
// until the user quits.
func runInteractive(cfg *config.Config) error {
	fmt.Println("AgoraGo interactive mode. Press Ctrl+C to quit.")

	for {
		ticker, err := promptTicker()
		if err != nil {
			// survey returns an error on interrupt
			return nil
		}

		company, err := promptCompany(ticker)
		if err != nil {
			return nil
		}

		if err := runSession(context.Background(), cfg, ticker, company); err != nil {
			fmt.Printf("analysis failed: %v\n", err)
		}

		again := false
		if err := survey.AskOne(&survey.Confirm{
			Message: "Analyze another ticker?",
			Default: true,
		}, &again); err != nil || !again {
			return nil
		}
	}
}

func promptTicker() (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Stock ticker:",
		Help:    "e.g. AAPL, MSFT, 700.HK",
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(val interface{}) error {
		s, _ := val.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("ticker is required")
		}
		if len(s) > 10 {
			return fmt.Errorf("ticker looks too long")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(ticker)), nil
}

func promptCompany(ticker string) (string, error) {
	var company string
	prompt := &survey.Input{
		Message: "Company name (optional):",
		Default: ticker,
	}
	if err := survey.AskOne(prompt, &company); err != nil {
		return "", err
	}
	return strings.TrimSpace(company), nil
}
