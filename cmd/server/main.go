package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"google.golang.org/genai"

	"github.com/kira-carbon/server/internal/agent/graph"
	"github.com/kira-carbon/server/internal/agent/model"
	"github.com/kira-carbon/server/internal/classify"
	"github.com/kira-carbon/server/internal/core"
	"github.com/kira-carbon/server/internal/extract"
	"github.com/kira-carbon/server/internal/llm"
	"github.com/kira-carbon/server/internal/server"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
	pkgredis "github.com/kira-carbon/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis       pkgredis.Config
	StoreDriver string `envconfig:"STORE_DRIVER" default:"redis"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Chat   model.ChatModelConfig
	Prompt model.PromptConfig
	Tools  model.ToolsConfig

	// Pipeline configs
	Structured llm.GeminiConfig
	Classify   classify.Config

	// HTTP
	Server server.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	clientCfg := &genai.ClientConfig{
		APIKey:  envCfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if envCfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = envCfg.BaseURL
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	docStore, cleanup, err := buildStore(envCfg)
	if err != nil {
		log.Fatalf("Failed to initialise document store: %v", err)
	}
	defer cleanup()

	runner, err := graph.BuildConsultantGraph(ctx, graph.Config{
		Client:    client,
		ChatModel: envCfg.Chat,
		Prompt:    envCfg.Prompt,
		Tools:     envCfg.Tools,
		Store:     docStore,
	})
	if err != nil {
		log.Fatalf("Failed to build consultant graph: %v", err)
	}

	generator := llm.NewGemini(client, envCfg.Structured)
	extractor := extract.NewPipeline(generator)
	classifier := classify.NewPipeline(generator, envCfg.Classify)

	srv := server.New(envCfg.Server, runner, extractor, classifier, docStore)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func buildStore(cfg AppConfig) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		logx.Info().Msg("Using in-memory document store")
		return store.NewMemory(), func() {}, nil
	default:
		rdb, err := cfg.Redis.New()
		if err != nil {
			return nil, nil, err
		}
		logx.Info().Msg("Connected to Redis document store")
		return store.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	}
}
