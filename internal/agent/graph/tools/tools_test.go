package tools_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kira-carbon/server/internal/agent/graph/tools"
	"github.com/kira-carbon/server/internal/core/errx"
	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/store"
)

func newStoreWithProfile(t *testing.T, id string, profile domain.UserProfile) store.Store {
	t.Helper()
	s := store.NewMemory()
	require.NoError(t, s.Set(context.Background(), store.CollectionUsers, id, profile))
	return s
}

func TestSimulateTaxImpact(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		profile     domain.UserProfile
		input       tools.SimulateTaxImpactInput
		defaultRate float64
		wantGross   float64
		wantSavings float64
	}{
		{
			name:        "credit fully consumed",
			profile:     domain.UserProfile{TotalEmissions: 1440, TaxCreditBalance: 50000},
			input:       tools.SimulateTaxImpactInput{UserID: "user123", ProposedTaxRate: 30},
			wantGross:   43200,
			wantSavings: 43200,
		},
		{
			name:        "credit partially offsets",
			profile:     domain.UserProfile{TotalEmissions: 1000, TaxCreditBalance: 10000},
			input:       tools.SimulateTaxImpactInput{UserID: "user123", ProposedTaxRate: 50},
			wantGross:   50000,
			wantSavings: 10000,
		},
		{
			name:        "no credit",
			profile:     domain.UserProfile{TotalEmissions: 100},
			input:       tools.SimulateTaxImpactInput{UserID: "user123", ProposedTaxRate: 30},
			wantGross:   3000,
			wantSavings: 0,
		},
		{
			name:        "default rate applies when omitted",
			profile:     domain.UserProfile{TotalEmissions: 10},
			input:       tools.SimulateTaxImpactInput{UserID: "user123"},
			defaultRate: 30,
			wantGross:   300,
			wantSavings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStoreWithProfile(t, "user123", tt.profile)

			out, err := tools.SimulateTaxImpact(ctx, s, tt.defaultRate, &tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantGross, out.GrossLiability, 1e-9)
			assert.InDelta(t, tt.wantSavings, out.Savings, 1e-9)
		})
	}

	t.Run("missing user id", func(t *testing.T) {
		s := store.NewMemory()
		_, err := tools.SimulateTaxImpact(ctx, s, 30, &tools.SimulateTaxImpactInput{})
		assert.Error(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		s := store.NewMemory()
		_, err := tools.SimulateTaxImpact(ctx, s, 30, &tools.SimulateTaxImpactInput{UserID: "ghost"})
		assert.ErrorIs(t, err, errx.ErrNotFound)
	})
}

func TestSimulateInvestment(t *testing.T) {
	ctx := context.Background()

	solar := domain.GreenAsset{
		Name:                      "Solar Rooftop 10kWp",
		CapexRM:                   120000,
		AnnualEnergyOffsetPercent: 0.35,
		AnnualMaintenanceRM:       2000,
		GITAEligible:              true,
		LifetimeYears:             21,
	}

	t.Run("eligible asset with default usage", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.Set(ctx, store.CollectionGreenAssets, "solar_rooftop_10kwp", solar))

		out, err := tools.SimulateInvestment(ctx, s, &tools.SimulateInvestmentInput{AssetID: "solar_rooftop_10kwp"})
		require.NoError(t, err)

		// 5000 kWh x 12 x 0.35 offset x RM0.50 = 10500, minus 2000 maintenance
		assert.InDelta(t, 8500, out.AnnualSavingsRM, 1e-9)
		// 24% of capex
		assert.InDelta(t, 28800, out.TaxSavingsRM, 1e-9)
		// effective cost 91200 / 8500
		assert.InDelta(t, 10.73, out.PaybackPeriodYears, 1e-9)
		// (8500*21 - 91200) / 91200 * 100, rounded to one decimal
		assert.InDelta(t, 95.7, out.LifetimeROI, 1e-9)
	})

	t.Run("payback sentinel when savings not positive", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.Set(ctx, store.CollectionGreenAssets, "genset", domain.GreenAsset{
			CapexRM:             50000,
			AnnualMaintenanceRM: 9000,
			LifetimeYears:       10,
		}))

		out, err := tools.SimulateInvestment(ctx, s, &tools.SimulateInvestmentInput{AssetID: "genset"})
		require.NoError(t, err)
		assert.Equal(t, float64(99), out.PaybackPeriodYears)
		assert.Negative(t, out.AnnualSavingsRM)
		assert.Zero(t, out.TaxSavingsRM)
	})

	t.Run("roi zero when effective cost not positive", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.Set(ctx, store.CollectionGreenAssets, "freebie", domain.GreenAsset{
			CapexRM:                   0,
			AnnualEnergyOffsetPercent: 0.1,
			LifetimeYears:             5,
		}))

		out, err := tools.SimulateInvestment(ctx, s, &tools.SimulateInvestmentInput{AssetID: "freebie"})
		require.NoError(t, err)
		assert.Zero(t, out.LifetimeROI)
	})

	t.Run("unknown asset", func(t *testing.T) {
		s := store.NewMemory()
		_, err := tools.SimulateInvestment(ctx, s, &tools.SimulateInvestmentInput{AssetID: "nope"})
		assert.ErrorIs(t, err, errx.ErrNotFound)
	})
}

func TestIndustryBenchmark(t *testing.T) {
	ctx := context.Background()

	t.Run("incomplete profile fails", func(t *testing.T) {
		tests := []struct {
			name    string
			profile domain.UserProfile
		}{
			{"missing industry", domain.UserProfile{AnnualRevenue: 1000000}},
			{"missing revenue", domain.UserProfile{Industry: "Manufacturing"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := newStoreWithProfile(t, "user123", tt.profile)
				_, err := tools.IndustryBenchmark(ctx, s, &tools.IndustryBenchmarkInput{UserID: "user123"})
				assert.ErrorIs(t, err, errx.ErrIncompleteProfile)
			})
		}
	})

	t.Run("benchmarks against stored industry stat", func(t *testing.T) {
		s := newStoreWithProfile(t, "user123", domain.UserProfile{
			Industry:       "Manufacturing",
			AnnualRevenue:  12000000,
			TotalEmissions: 1440,
		})
		require.NoError(t, s.Set(ctx, store.CollectionIndustryStats, "Manufacturing", domain.IndustryStat{AverageIntensity: 0.0004}))

		out, err := tools.IndustryBenchmark(ctx, s, &tools.IndustryBenchmarkInput{UserID: "user123"})
		require.NoError(t, err)
		// 1440 t x 1000 / 12,000,000 RM = 0.12 kg/RM
		assert.InDelta(t, 0.12, out.UserIntensity, 1e-9)
		assert.InDelta(t, 0.0004, out.IndustryAverage, 1e-9)
		assert.Contains(t, out.Performance, "Worse (Higher Carbon)")
	})

	t.Run("falls back when no industry stat exists", func(t *testing.T) {
		s := newStoreWithProfile(t, "user123", domain.UserProfile{
			Industry:       "Retail",
			AnnualRevenue:  5000000,
			TotalEmissions: 0.1,
		})

		out, err := tools.IndustryBenchmark(ctx, s, &tools.IndustryBenchmarkInput{UserID: "user123"})
		require.NoError(t, err)
		assert.InDelta(t, 0.0002, out.IndustryAverage, 1e-9)
		assert.Contains(t, out.Performance, "Better (Lower Carbon)")
	})
}

func TestSearchGreenDirectory(t *testing.T) {
	ctx := context.Background()

	seedCatalog := func(t *testing.T, s store.Store, n int, keyword string) {
		t.Helper()
		for i := 0; i < n; i++ {
			entry := domain.CatalogEntry{
				Name:     fmt.Sprintf("Product %d", i),
				Supplier: "GreenCo",
				Keywords: []string{keyword, "energy"},
			}
			require.NoError(t, s.Set(ctx, store.CollectionCatalog, fmt.Sprintf("cat-%d", i), entry))
		}
	}

	t.Run("keyword match", func(t *testing.T) {
		s := store.NewMemory()
		seedCatalog(t, s, 2, "solar")
		require.NoError(t, s.Set(ctx, store.CollectionCatalog, "led-1", domain.CatalogEntry{
			Name:     "LED Luminaire",
			Keywords: []string{"led", "lighting"},
		}))

		out, err := tools.SearchGreenDirectory(ctx, s, &tools.SearchGreenDirectoryInput{Query: "Solar"})
		require.NoError(t, err)
		assert.Len(t, out.Results, 2)
	})

	t.Run("results capped at five", func(t *testing.T) {
		s := store.NewMemory()
		seedCatalog(t, s, 8, "solar")

		out, err := tools.SearchGreenDirectory(ctx, s, &tools.SearchGreenDirectoryInput{Query: "solar"})
		require.NoError(t, err)
		assert.Len(t, out.Results, 5)
	})

	t.Run("no match returns empty result", func(t *testing.T) {
		s := store.NewMemory()
		seedCatalog(t, s, 1, "solar")

		out, err := tools.SearchGreenDirectory(ctx, s, &tools.SearchGreenDirectoryInput{Query: "hydrogen"})
		require.NoError(t, err)
		assert.Empty(t, out.Results)
	})

	t.Run("blank query fails", func(t *testing.T) {
		s := store.NewMemory()
		_, err := tools.SearchGreenDirectory(ctx, s, &tools.SearchGreenDirectoryInput{Query: "   "})
		assert.Error(t, err)
	})
}

func TestRegistry(t *testing.T) {
	s := store.NewMemory()
	registry := tools.NewRegistry(tools.Deps{Store: s, DefaultTaxRate: 30})
	infos, err := tools.Infos(context.Background(), registry)
	require.NoError(t, err)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.ElementsMatch(t, []string{
		tools.ToolSearchGreenDirectory,
		tools.ToolSimulateTaxImpact,
		tools.ToolSimulateInvestment,
		tools.ToolIndustryBenchmark,
	}, names)
}
