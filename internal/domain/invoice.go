package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when an extracted document carries no currency.
const DefaultCurrency = "MYR"

// Money is an amount with an explicit currency. Amounts are decimal so
// invoice totals survive round-tripping through JSON without float drift.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// LineItem is a single purchased item extracted from an invoice or receipt.
type LineItem struct {
	Name            string  `json:"name"`
	Supplier        string  `json:"supplier"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"`
	Price           Money   `json:"price"`
	IsGreenEligible bool    `json:"isGreenEligible"`
	PurchaseDate    string  `json:"purchaseDate"`
}

// Invoice is the normalized output of the extraction pipeline. It is created
// once per extraction call and never mutated; persisting it is the caller's
// responsibility.
type Invoice struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	Supplier      string     `json:"supplier"`
	PurchaseDate  string     `json:"purchaseDate"`
	TotalAmount   Money      `json:"totalAmount"`
	Items         []LineItem `json:"items"`
}
