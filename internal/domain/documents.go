package domain

// UserProfile is the business profile stored under users/{id}. Read-only to
// this service; emissions are annual tonnes CO2e, monetary fields are RM.
type UserProfile struct {
	Industry         string  `json:"industry"`
	AnnualRevenue    float64 `json:"annualRevenue"`
	TotalEmissions   float64 `json:"totalEmissions"`
	TaxCreditBalance float64 `json:"taxCreditBalance"`
}

// CatalogEntry is a MyHijau-directory product stored under catalog/{id}.
// Keywords are the lower-cased terms the search tool matches against.
type CatalogEntry struct {
	Name       string   `json:"name"`
	Supplier   string   `json:"supplier"`
	Keywords   []string `json:"keywords"`
	ExpiryDate string   `json:"expiryDate"`
}

// GreenAsset is an investment-simulation record stored under green_assets/{id}.
type GreenAsset struct {
	Name                      string  `json:"name"`
	CapexRM                   float64 `json:"capexRM"`
	AnnualEnergyOffsetPercent float64 `json:"annualEnergyOffsetPercent"`
	AnnualMaintenanceRM       float64 `json:"annualMaintenanceRM"`
	GITAEligible              bool    `json:"gitaEligible"`
	LifetimeYears             float64 `json:"lifetimeYears"`
}

// IndustryStat is the benchmark record stored under industry_stats/{industry}.
// AverageIntensity is kg CO2e per RM of revenue.
type IndustryStat struct {
	AverageIntensity float64 `json:"averageIntensity"`
}

// Receipt is a previously processed document stored under receipts/{id},
// attached to chat requests for context.
type Receipt struct {
	Vendor    string     `json:"vendor"`
	Date      string     `json:"date"`
	LineItems []LineItem `json:"lineItems"`
}
