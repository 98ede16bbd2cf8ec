package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/voletro/AgoraGo/config"
)

// NewChatModel builds the chat model shared by all analysts, selected
// by the configured provider.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "openai":
		maxTokens := cfg.MaxTokens
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.OpenAIBaseURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.ModelName,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		return chatModel, nil
	case "deepseek":
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.ModelName,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek chat model: %w", err)
		}
		return chatModel, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
