package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// GHG Protocol scopes.
const (
	Scope1 = 1 // direct fuel combustion
	Scope2 = 2 // purchased electricity
	Scope3 = 3 // upstream/downstream value chain
)

// GITA tiers and their allowance percentages.
const (
	Tier1 = 1 // 100% of asset cost
	Tier2 = 2 // 60% of asset cost
)

// CarbonEntry is the greenhouse-gas projection of one line item.
// EmissionFactor and GlobalWarmingPotential apply to scope 1,
// GridEmissionFactor to scope 2.
type CarbonEntry struct {
	Scope                  int     `json:"scope"`
	ActivityData           float64 `json:"activityData"`
	EmissionFactor         float64 `json:"emissionFactor,omitempty"`
	GridEmissionFactor     float64 `json:"gridEmissionFactor,omitempty"`
	GlobalWarmingPotential float64 `json:"globalWarmingPotential,omitempty"`
	CO2eEmission           float64 `json:"co2eEmission"`
}

// Validate rejects entries that would leak non-finite numbers to callers.
func (e CarbonEntry) Validate() error {
	if e.Scope < Scope1 || e.Scope > Scope3 {
		return fmt.Errorf("carbon entry: invalid scope %d", e.Scope)
	}
	for name, v := range map[string]float64{
		"activityData":           e.ActivityData,
		"emissionFactor":         e.EmissionFactor,
		"gridEmissionFactor":     e.GridEmissionFactor,
		"globalWarmingPotential": e.GlobalWarmingPotential,
		"co2eEmission":           e.CO2eEmission,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("carbon entry: non-finite %s", name)
		}
	}
	return nil
}

// GreenIncentiveEntry is the tax-incentive projection of one GITA-eligible
// line item. AllowanceAmount is tier percentage applied to the asset cost.
type GreenIncentiveEntry struct {
	Tier            int             `json:"tier"`
	Sector          string          `json:"sector"`
	Technology      string          `json:"technology"`
	Asset           string          `json:"asset"`
	AllowanceAmount decimal.Decimal `json:"allowanceAmount"`
}

// Validate checks the tier is one of the two GITA tiers.
func (e GreenIncentiveEntry) Validate() error {
	if e.Tier != Tier1 && e.Tier != Tier2 {
		return fmt.Errorf("green incentive entry: invalid tier %d", e.Tier)
	}
	return nil
}

// Classification pairs the two parallel projections of an invoice.
type Classification struct {
	CarbonEntries         []CarbonEntry         `json:"carbonEntries"`
	GreenIncentiveEntries []GreenIncentiveEntry `json:"greenIncentiveEntries"`
}
