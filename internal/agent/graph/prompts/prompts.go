package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/kira-carbon/server/internal/agent/graph/tools"
	"github.com/kira-carbon/server/internal/agent/model"
	"github.com/kira-carbon/server/internal/domain"
)

//go:embed template/system_prompt.txt
var consultantSystemPrompt string

// RenderSystem renders the consultant system prompt via the Eino prompt
// component (which also emits prompt callbacks).
func RenderSystem(ctx context.Context, cfg model.PromptConfig, profileSummary, receiptContext string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(consultantSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"AssistantName":  cfg.AssistantName,
		"Audience":       cfg.Audience,
		"Currency":       cfg.Currency,
		"UserProfile":    profileSummary,
		"ReceiptContext": receiptContext,
		"SearchTool":     tools.ToolSearchGreenDirectory,
		"TaxTool":        tools.ToolSimulateTaxImpact,
		"InvestmentTool": tools.ToolSimulateInvestment,
		"BenchmarkTool":  tools.ToolIndustryBenchmark,
	})
	if err != nil {
		return "", fmt.Errorf("consultant prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("consultant prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// ProfileSummary renders the compact profile block. A nil profile means the
// caller could not resolve the user, which is a guest, not an error.
func ProfileSummary(p *domain.UserProfile, currency string) string {
	if p == nil {
		return "Guest User"
	}
	return fmt.Sprintf("Industry: %s, Annual Revenue: %s%.0f, Total Emissions: %.0ft.",
		p.Industry, currency, p.AnnualRevenue, p.TotalEmissions)
}

// NoReceiptContext is rendered when the request carries no receipt reference.
const NoReceiptContext = "No receipt attached."

// ReceiptMissingContext degrades a dangling receipt reference to an inline
// warning instead of failing the request.
const ReceiptMissingContext = "[System] User selected a receipt, but the ID was not found."

// ReceiptErrorContext degrades a store failure during context enrichment.
const ReceiptErrorContext = "[System] Error retrieving receipt details."

// ReceiptContext renders the attached receipt as a compact textual block the
// model can read line items out of.
func ReceiptContext(receiptID string, r *domain.Receipt) string {
	items, err := json.Marshal(r.LineItems)
	if err != nil {
		items = []byte("[]")
	}
	return fmt.Sprintf(`User has attached this receipt/invoice to the chat:
=== SELECTED RECEIPT/INVOICE CONTEXT ===
Receipt ID: %s
Vendor: %s
Date: %s
Line Items: %s
========================================`,
		receiptID, orUnknown(r.Vendor), orNA(r.Date), items)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
