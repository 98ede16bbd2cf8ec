package agents

import (
	"embed"
	"fmt"
)

//go:embed prompts
var promptFiles embed.FS

// loadPrompt reads an embedded prompt markdown file by name.
func loadPrompt(name string) (string, error) {
	content, err := promptFiles.ReadFile(fmt.Sprintf("prompts/%s.md", name))
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	return string(content), nil
}
