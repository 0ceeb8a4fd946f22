package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
)

const (
	// tnbUnitPriceRM is the assumed grid electricity price, RM per kWh.
	tnbUnitPriceRM = 0.50
	// corporateTaxRate is the Malaysian corporate tax rate applied to GITA
	// capital allowances.
	corporateTaxRate = 0.24
	// paybackSentinelYears marks "never pays back" without dividing by zero.
	paybackSentinelYears = 99
	// defaultMonthlyUsageKwh is assumed when the model omits a usage figure.
	defaultMonthlyUsageKwh = 5000
)

type SimulateInvestmentInput struct {
	AssetID               string  `json:"asset_id"`
	MonthlyEnergyUsageKwh float64 `json:"monthly_energy_usage_kwh"`
}

type SimulateInvestmentOutput struct {
	PaybackPeriodYears float64 `json:"paybackPeriodYears"`
	AnnualSavingsRM    float64 `json:"annualSavingsRM"`
	TaxSavingsRM       float64 `json:"taxSavingsRM"`
	LifetimeROI        float64 `json:"lifetimeROI"`
}

// SimulateInvestment computes savings, payback and lifetime ROI for a green
// asset. When annual savings are not positive the payback period is the
// sentinel value 99; when the effective cost is not positive the ROI is 0.
func SimulateInvestment(ctx context.Context, s store.Store, in *SimulateInvestmentInput) (*SimulateInvestmentOutput, error) {
	if in.AssetID == "" {
		return nil, fmt.Errorf("asset_id is required")
	}
	logx.Debug().Str("tool", ToolSimulateInvestment).Str("asset_id", in.AssetID).Msg("simulating investment")

	asset, err := store.GetAs[domain.GreenAsset](ctx, s, store.CollectionGreenAssets, in.AssetID)
	if err != nil {
		return nil, err
	}

	monthlyUsage := in.MonthlyEnergyUsageKwh
	if monthlyUsage <= 0 {
		monthlyUsage = defaultMonthlyUsageKwh
	}

	annualEnergyKwh := monthlyUsage * 12
	energyOffsetKwh := annualEnergyKwh * asset.AnnualEnergyOffsetPercent
	annualSavings := energyOffsetKwh*tnbUnitPriceRM - asset.AnnualMaintenanceRM

	taxSavings := 0.0
	if asset.GITAEligible {
		taxSavings = asset.CapexRM * corporateTaxRate
	}
	effectiveCost := asset.CapexRM - taxSavings

	payback := float64(paybackSentinelYears)
	if annualSavings > 0 {
		payback = round2(effectiveCost / annualSavings)
	}

	lifetimeYears := asset.LifetimeYears
	if lifetimeYears <= 0 {
		lifetimeYears = 1
	}
	roi := 0.0
	if effectiveCost > 0 {
		totalLifetimeSavings := annualSavings * lifetimeYears
		roi = round1((totalLifetimeSavings - effectiveCost) / effectiveCost * 100)
	}

	return &SimulateInvestmentOutput{
		PaybackPeriodYears: payback,
		AnnualSavingsRM:    annualSavings,
		TaxSavingsRM:       taxSavings,
		LifetimeROI:        roi,
	}, nil
}

func createSimulateInvestmentTool(deps Deps) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSimulateInvestment,
			Desc: "Use this tool ONLY to calculate ROI, annual savings and payback period for a specific green asset investment or purchase.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"asset_id": {
					Type:     "string",
					Desc:     "The ID of the asset (e.g. 'solar_rooftop_10kwp', 'led_retrofit').",
					Required: true,
				},
				"monthly_energy_usage_kwh": {
					Type: "number",
					Desc: fmt.Sprintf("Estimated monthly energy usage in kWh. Default %d.", defaultMonthlyUsageKwh),
				},
			}),
		},
		func(ctx context.Context, in *SimulateInvestmentInput) (*SimulateInvestmentOutput, error) {
			return SimulateInvestment(ctx, deps.Store, in)
		},
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
