package tools

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	errx "github.com/kira-carbon/server/internal/core/errx"
	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// fallbackAverageIntensity is used when no benchmark record exists for the
// user's industry, kg CO2e per RM of revenue.
const fallbackAverageIntensity = 0.0002

type IndustryBenchmarkInput struct {
	UserID string `json:"user_id"`
}

type IndustryBenchmarkOutput struct {
	UserIntensity   float64 `json:"userIntensity"`
	IndustryAverage float64 `json:"industryAverage"`
	Performance     string  `json:"performance"`
}

// IndustryBenchmark compares the user's carbon intensity (kg CO2e per RM of
// revenue; stored emissions are tonnes) against the stored industry average.
// A profile missing industry or revenue fails with ErrIncompleteProfile
// rather than benchmarking against defaults.
func IndustryBenchmark(ctx context.Context, s store.Store, in *IndustryBenchmarkInput) (*IndustryBenchmarkOutput, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	logx.Debug().Str("tool", ToolIndustryBenchmark).Str("user_id", in.UserID).Msg("benchmarking user")

	profile, err := store.GetAs[domain.UserProfile](ctx, s, store.CollectionUsers, in.UserID)
	if err != nil {
		return nil, err
	}
	if profile.Industry == "" {
		return nil, fmt.Errorf("%w: missing industry", errx.ErrIncompleteProfile)
	}
	if profile.AnnualRevenue <= 0 {
		return nil, fmt.Errorf("%w: missing annual revenue", errx.ErrIncompleteProfile)
	}

	userIntensity := profile.TotalEmissions * 1000 / profile.AnnualRevenue

	avgIntensity := fallbackAverageIntensity
	stat, err := store.GetAs[domain.IndustryStat](ctx, s, store.CollectionIndustryStats, profile.Industry)
	switch {
	case err == nil:
		avgIntensity = stat.AverageIntensity
	case errors.Is(err, errx.ErrNotFound):
		// no benchmark for this industry yet; fall back
	default:
		return nil, err
	}

	verdict := "Worse (Higher Carbon)"
	if userIntensity < avgIntensity {
		verdict = "Better (Lower Carbon)"
	}
	percentDiff := 0.0
	if avgIntensity > 0 {
		percentDiff = math.Round(math.Abs(userIntensity-avgIntensity) / avgIntensity * 100)
	}

	return &IndustryBenchmarkOutput{
		UserIntensity:   userIntensity,
		IndustryAverage: avgIntensity,
		Performance:     fmt.Sprintf("%.0f%% %s than industry average.", percentDiff, verdict),
	}, nil
}

func createIndustryBenchmarkTool(deps Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolIndustryBenchmark,
			Desc: "Use this tool ONLY when the user asks how their carbon footprint or intensity compares to competitors or their industry average.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {
					Type:     "string",
					Desc:     "The user identifier whose profile holds industry, revenue and emissions.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *IndustryBenchmarkInput) (*IndustryBenchmarkOutput, error) {
			return IndustryBenchmark(ctx, deps.Store, in)
		},
	)
}
