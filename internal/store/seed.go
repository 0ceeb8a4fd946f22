package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kira-carbon/server/internal/domain"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// Seed writes the demo dataset: one business profile, MyHijau catalog
// entries, investment-simulation assets, an industry benchmark, and a sample
// receipt. Writes are fire-and-forget: the first failure aborts, already
// written documents are not rolled back.
func Seed(ctx context.Context, s Store) error {
	if err := s.Set(ctx, CollectionUsers, "user123", domain.UserProfile{
		Industry:         "Manufacturing",
		AnnualRevenue:    5_000_000,
		TotalEmissions:   1440,
		TaxCreditBalance: 50_000,
	}); err != nil {
		return err
	}

	catalog := []domain.CatalogEntry{
		{
			Name:       "Solar Panel PV-200",
			Supplier:   "SolarX Sdn Bhd",
			Keywords:   []string{"solar", "panel", "energy", "renewable", "solar panel", "solar panels"},
			ExpiryDate: "2027-12-31",
		},
		{
			Name:       "High Efficiency Chiller",
			Supplier:   "CoolTech MY",
			Keywords:   []string{"chiller", "cooling", "hvac"},
			ExpiryDate: "2026-06-30",
		},
		{
			Name:       "LED Industrial Luminaire L90",
			Supplier:   "Lumina Green Sdn Bhd",
			Keywords:   []string{"led", "lighting", "energy", "efficiency"},
			ExpiryDate: "2026-11-30",
		},
	}
	for _, entry := range catalog {
		if err := s.Set(ctx, CollectionCatalog, uuid.NewString(), entry); err != nil {
			return err
		}
	}

	assets := map[string]domain.GreenAsset{
		"solar_rooftop_10kwp": {
			Name:                      "Rooftop Solar PV 10kWp",
			CapexRM:                   120_000,
			AnnualEnergyOffsetPercent: 0.35,
			AnnualMaintenanceRM:       2_000,
			GITAEligible:              true,
			LifetimeYears:             21,
		},
		"led_retrofit": {
			Name:                      "Facility-wide LED Retrofit",
			CapexRM:                   18_000,
			AnnualEnergyOffsetPercent: 0.08,
			AnnualMaintenanceRM:       300,
			GITAEligible:              true,
			LifetimeYears:             10,
		},
		"diesel_genset": {
			Name:                      "Backup Diesel Generator",
			CapexRM:                   45_000,
			AnnualEnergyOffsetPercent: 0,
			AnnualMaintenanceRM:       3_500,
			GITAEligible:              false,
			LifetimeYears:             15,
		},
	}
	for id, asset := range assets {
		if err := s.Set(ctx, CollectionGreenAssets, id, asset); err != nil {
			return err
		}
	}

	if err := s.Set(ctx, CollectionIndustryStats, "Manufacturing", domain.IndustryStat{
		AverageIntensity: 0.0004,
	}); err != nil {
		return err
	}

	if err := s.Set(ctx, CollectionReceipts, "receipt_demo", domain.Receipt{
		Vendor: "Tenaga Nasional Berhad",
		Date:   "2026-07-15",
		LineItems: []domain.LineItem{
			{
				Name:         "Electricity usage",
				Supplier:     "Tenaga Nasional Berhad",
				Quantity:     5200,
				Unit:         "kWh",
				Price:        domain.Money{Amount: decimal.NewFromFloat(2870.40), Currency: domain.DefaultCurrency},
				PurchaseDate: "2026-07-15",
			},
		},
	}); err != nil {
		return err
	}

	logx.Info().Msg("seed data written")
	return nil
}
