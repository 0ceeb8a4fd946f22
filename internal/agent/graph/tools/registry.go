// Package tools declares the model-invocable functions of the consultant
// agent. Each tool performs exactly one store lookup and returns a small
// structured value; descriptions are routing hints the model uses to decide
// when to call which tool, so each one names its trigger condition
// explicitly. The registry is built once at process start and never changes.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/kira-carbon/server/internal/store"
)

// Tool names, referenced by prompt templates and argument sanitizers.
const (
	ToolSearchGreenDirectory = "search_green_directory"
	ToolSimulateTaxImpact    = "simulate_tax_impact"
	ToolSimulateInvestment   = "simulate_investment"
	ToolIndustryBenchmark    = "get_industry_benchmark"
)

// Deps carries everything the tool implementations need. Shared read-only
// across all requests.
type Deps struct {
	Store store.Store

	// DefaultTaxRate is the carbon tax rate (RM per tonne) assumed when the
	// model omits one.
	DefaultTaxRate float64
}

// NewRegistry builds the immutable tool set exposed to the response model.
func NewRegistry(deps Deps) []tool.BaseTool {
	return []tool.BaseTool{
		createSearchGreenDirectoryTool(deps),
		createSimulateTaxImpactTool(deps),
		createSimulateInvestmentTool(deps),
		createIndustryBenchmarkTool(deps),
	}
}

// Infos resolves the declarations used to bind the registry to the model.
func Infos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
