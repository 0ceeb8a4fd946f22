package prompts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kira-carbon/server/internal/agent/graph/prompts"
	"github.com/kira-carbon/server/internal/agent/model"
	"github.com/kira-carbon/server/internal/domain"
)

func TestRenderSystem(t *testing.T) {
	cfg := model.PromptConfig{
		AssistantName: "Kira",
		Audience:      "Malaysian SMEs",
		Currency:      "RM",
	}

	rendered, err := prompts.RenderSystem(context.Background(), cfg, "Guest User", prompts.NoReceiptContext)
	require.NoError(t, err)

	assert.Contains(t, rendered, "You are Kira, an AI Carbon Consultant helping Malaysian SMEs.")
	assert.Contains(t, rendered, "Guest User")
	assert.Contains(t, rendered, prompts.NoReceiptContext)
	assert.Contains(t, rendered, "search_green_directory")
	assert.Contains(t, rendered, "simulate_tax_impact")
	assert.Contains(t, rendered, "simulate_investment")
	assert.Contains(t, rendered, "get_industry_benchmark")
	assert.NotContains(t, rendered, "{{")
}

func TestProfileSummary(t *testing.T) {
	t.Run("nil profile is a guest", func(t *testing.T) {
		assert.Equal(t, "Guest User", prompts.ProfileSummary(nil, "RM"))
	})

	t.Run("profile fields are rendered", func(t *testing.T) {
		got := prompts.ProfileSummary(&domain.UserProfile{
			Industry:       "Manufacturing",
			AnnualRevenue:  5000000,
			TotalEmissions: 1440,
		}, "RM")
		assert.Equal(t, "Industry: Manufacturing, Annual Revenue: RM5000000, Total Emissions: 1440t.", got)
	})
}

func TestReceiptContext(t *testing.T) {
	receipt := &domain.Receipt{
		Vendor: "Tenaga Nasional Berhad",
		Date:   "2026-07-15",
		LineItems: []domain.LineItem{
			{Name: "Electricity usage", Quantity: 5200, Unit: "kWh"},
		},
	}

	got := prompts.ReceiptContext("receipt_demo", receipt)
	assert.Contains(t, got, "Receipt ID: receipt_demo")
	assert.Contains(t, got, "Vendor: Tenaga Nasional Berhad")
	assert.Contains(t, got, "Electricity usage")

	t.Run("missing fields fall back to placeholders", func(t *testing.T) {
		got := prompts.ReceiptContext("r1", &domain.Receipt{})
		assert.Contains(t, got, "Vendor: Unknown")
		assert.Contains(t, got, "Date: N/A")
	})
}
