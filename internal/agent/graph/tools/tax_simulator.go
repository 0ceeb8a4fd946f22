package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
)

type SimulateTaxImpactInput struct {
	UserID          string  `json:"user_id"`
	ProposedTaxRate float64 `json:"proposed_tax_rate"`
}

type SimulateTaxImpactOutput struct {
	GrossLiability float64 `json:"grossLiability"`
	Savings        float64 `json:"savings"`
}

// SimulateTaxImpact computes the carbon tax liability for a user at the
// proposed rate. Gross = totalEmissions x rate; the existing tax credit
// balance offsets the net liability, never below zero.
func SimulateTaxImpact(ctx context.Context, s store.Store, defaultRate float64, in *SimulateTaxImpactInput) (*SimulateTaxImpactOutput, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	rate := in.ProposedTaxRate
	if rate <= 0 {
		rate = defaultRate
	}
	logx.Debug().Str("tool", ToolSimulateTaxImpact).Str("user_id", in.UserID).Float64("rate", rate).Msg("simulating carbon tax")

	profile, err := store.GetAs[domain.UserProfile](ctx, s, store.CollectionUsers, in.UserID)
	if err != nil {
		return nil, err
	}

	gross := profile.TotalEmissions * rate
	net := gross - profile.TaxCreditBalance
	if net < 0 {
		net = 0
	}
	return &SimulateTaxImpactOutput{
		GrossLiability: gross,
		Savings:        gross - net,
	}, nil
}

func createSimulateTaxImpactTool(deps Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSimulateTaxImpact,
			Desc: "Use this tool ONLY when the user asks how much carbon tax they will have to pay, about their tax liability, or mentions a specific carbon tax rate.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {
					Type:     "string",
					Desc:     "The user identifier whose profile holds emissions and tax credit balance.",
					Required: true,
				},
				"proposed_tax_rate": {
					Type: "number",
					Desc: fmt.Sprintf("Carbon tax rate per tonne in RM. Default to %.0f if not specified.", deps.DefaultTaxRate),
				},
			}),
		},
		func(ctx context.Context, in *SimulateTaxImpactInput) (*SimulateTaxImpactOutput, error) {
			return SimulateTaxImpact(ctx, deps.Store, deps.DefaultTaxRate, in)
		},
	)
}
