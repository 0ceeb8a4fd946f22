package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	errx "github.com/kira-carbon/server/internal/core/errx"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// GeminiConfig tunes the structured-generation model.
type GeminiConfig struct {
	Model       string  `envconfig:"STRUCTURED_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int32   `envconfig:"STRUCTURED_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"STRUCTURED_TEMPERATURE" default:"0.1"`
}

// Gemini generates schema-constrained JSON through google.golang.org/genai.
// The *genai.Client is shared with the chat agent; construct it once in the
// entry point and inject it here.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

func NewGemini(client *genai.Client, cfg GeminiConfig) *Gemini {
	return &Gemini{client: client, cfg: cfg}
}

func (g *Gemini) GenerateStructured(ctx context.Context, req Request) ([]byte, error) {
	if req.Schema == nil {
		return nil, fmt.Errorf("structured generation requires a response schema")
	}

	parts := []*genai.Part{}
	if req.Media != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Media.Data, req.Media.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.cfg.Temperature),
		MaxOutputTokens:  g.cfg.MaxTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromParts(
			[]*genai.Part{genai.NewPartFromText(req.System)}, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, cfg)
	if err != nil {
		logx.Error().Err(err).Str("model", g.cfg.Model).Msg("structured generation call failed")
		return nil, fmt.Errorf("%w: %v", errx.ErrGenerationFailed, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		logx.Warn().Str("model", g.cfg.Model).Msg("structured generation returned no text")
		return nil, fmt.Errorf("%w: empty response", errx.ErrGenerationFailed)
	}
	return []byte(text), nil
}

var _ Generator = (*Gemini)(nil)
