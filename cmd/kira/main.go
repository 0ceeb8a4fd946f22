// Command kira is the operations CLI: seeding the document store and
// running the receipt pipeline against local files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
	"google.golang.org/genai"

	"github.com/kira-carbon/server/internal/classify"
	"github.com/kira-carbon/server/internal/core"
	"github.com/kira-carbon/server/internal/extract"
	"github.com/kira-carbon/server/internal/llm"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
	pkgredis "github.com/kira-carbon/server/pkg/redis"
)

type cliConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	Redis       pkgredis.Config
	StoreDriver string `envconfig:"STORE_DRIVER" default:"redis"`

	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	Structured llm.GeminiConfig
	Classify   classify.Config
}

func main() {
	app := &cli.App{
		Name:  "kira",
		Usage: "operations CLI for the carbon consultant backend",
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "seed the document store with demo profiles, catalog entries and assets",
				Action: runSeed,
			},
			{
				Name:      "extract",
				Usage:     "run extraction and classification on a receipt file or URL, print JSON",
				ArgsUsage: "<path-or-url>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mime",
						Usage: "override the detected MIME type",
					},
				},
				Action: runExtract,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() (cliConfig, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg cliConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to process environment config: %w", err)
	}
	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})
	return cfg, nil
}

func runSeed(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var docStore store.Store
	if cfg.StoreDriver == "memory" {
		return fmt.Errorf("seeding the memory driver is pointless, it does not persist")
	}
	rdb, err := cfg.Redis.New()
	if err != nil {
		return fmt.Errorf("failed to initialise Redis client: %w", err)
	}
	defer rdb.Close()
	docStore = store.NewRedisStore(rdb)

	if err := store.Seed(c.Context, docStore); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Println("Document store seeded")
	return nil
}

func runExtract(c *cli.Context) error {
	ref := c.Args().First()
	if ref == "" {
		return fmt.Errorf("usage: kira extract <path-or-url>")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	ctx := context.Background()
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	generator := llm.NewGemini(client, cfg.Structured)
	extractor := extract.NewPipeline(generator)
	classifier := classify.NewPipeline(generator, cfg.Classify)

	invoice, err := extractor.ExtractReference(ctx, ref, c.String("mime"))
	if err != nil {
		return err
	}
	classification, err := classifier.Classify(ctx, invoice)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]any{
		"invoice":               invoice,
		"carbonEntries":         classification.CarbonEntries,
		"greenIncentiveEntries": classification.GreenIncentiveEntries,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
