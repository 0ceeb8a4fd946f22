package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/kira-carbon/server/internal/agent/model"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// NewResponseChatModel creates the consultant response model on a shared
// genai client.
func NewResponseChatModel(ctx context.Context, client *genai.Client, cfg model.ChatModelConfig) (*gemini.ChatModel, error) {
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Str("model", cfg.Model).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}
	return chatModel, nil
}

// ToolBinder is implemented by chat models that accept tool bindings.
type ToolBinder interface {
	BindTools(infos []*schema.ToolInfo) error
}

// BindTools binds the tool registry to the response model.
func BindTools(chatModel ToolBinder, infos []*schema.ToolInfo) error {
	if err := chatModel.BindTools(infos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}
	logx.Debug().Int("tools", len(infos)).Msg("Successfully bound tools to response model")
	return nil
}
