package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// maxDirectoryResults caps the catalog lookup, mirroring the directory's
// five-result page size.
const maxDirectoryResults = 5

type SearchGreenDirectoryInput struct {
	Query string `json:"query"`
}

type SearchGreenDirectoryOutput struct {
	Results []domain.CatalogEntry `json:"results"`
}

// SearchGreenDirectory matches the lower-cased query term against each
// catalog entry's keyword set. An empty result is a valid answer.
func SearchGreenDirectory(ctx context.Context, s store.Store, in *SearchGreenDirectoryInput) (*SearchGreenDirectoryOutput, error) {
	term := strings.ToLower(strings.TrimSpace(in.Query))
	if term == "" {
		return nil, fmt.Errorf("query is required")
	}
	logx.Debug().Str("tool", ToolSearchGreenDirectory).Str("query", term).Msg("searching green directory")

	rows, err := s.Query(ctx, store.CollectionCatalog, store.Filter{Field: "keywords", Contains: term}, maxDirectoryResults)
	if err != nil {
		return nil, err
	}

	out := &SearchGreenDirectoryOutput{Results: make([]domain.CatalogEntry, 0, len(rows))}
	for _, row := range rows {
		var entry domain.CatalogEntry
		if err := json.Unmarshal(row, &entry); err != nil {
			return nil, fmt.Errorf("decode catalog entry: %w", err)
		}
		out.Results = append(out.Results, entry)
	}
	return out, nil
}

func createSearchGreenDirectoryTool(deps Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchGreenDirectory,
			Desc: "Use this tool ONLY when the user asks for recommendations on green products, sustainable suppliers, alternatives to high-carbon items, or where to buy eco-friendly assets. Searches the MyHijau directory of government-approved green products.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "A single keyword to search (e.g. 'solar', 'led', 'chiller').",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *SearchGreenDirectoryInput) (*SearchGreenDirectoryOutput, error) {
			return SearchGreenDirectory(ctx, deps.Store, in)
		},
	)
}
