package classify

import (
	"google.golang.org/genai"
)

func carbonEntrySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"scope": {
				Type:        genai.TypeInteger,
				Description: "GHG Protocol scope (1, 2 or 3) of this entry.",
			},
			"activityData": {
				Type:        genai.TypeNumber,
				Description: "Activity data driving the emission (electricity purchased is activity data).",
			},
			"emissionFactor": {
				Type:        genai.TypeNumber,
				Description: "Emission factor, only for scope 1 entries.",
			},
			"gridEmissionFactor": {
				Type:        genai.TypeNumber,
				Description: "Grid emission factor (GEF), only for scope 2 entries.",
			},
			"globalWarmingPotential": {
				Type:        genai.TypeNumber,
				Description: "Global warming potential (GWP), only for scope 1 entries.",
			},
			"co2eEmission": {
				Type:        genai.TypeNumber,
				Description: "CO2e emission computed with the formula for this entry's scope.",
			},
		},
		Required: []string{"scope", "activityData", "co2eEmission"},
	}
}

func incentiveEntrySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tier": {
				Type:        genai.TypeInteger,
				Description: "GITA tier of this asset (1 or 2).",
			},
			"sector": {
				Type:        genai.TypeString,
				Description: "Sector (e.g. energy efficiency, renewable energy system, waste, water).",
			},
			"technology": {
				Type:        genai.TypeString,
				Description: "Technology (e.g. Transformer, Chiller, Energy Efficient Appliances).",
			},
			"asset": {
				Type:        genai.TypeString,
				Description: "Asset (e.g. Transformer, Thermal Energy Storage/Collector, Variable Air Volume).",
			},
			"allowanceAmount": {
				Type:        genai.TypeNumber,
				Description: "Allowance in RM: asset cost x tier percentage (tier 1 = 100%, tier 2 = 60%).",
			},
		},
		Required: []string{"tier", "sector", "technology", "asset", "allowanceAmount"},
	}
}
