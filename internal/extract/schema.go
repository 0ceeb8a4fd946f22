package extract

import (
	"google.golang.org/genai"
)

// invoiceSchema constrains the extraction output to the Invoice shape. Field
// descriptions double as extraction hints for the model.
func invoiceSchema() *genai.Schema {
	money := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeObject,
			Description: desc,
			Properties: map[string]*genai.Schema{
				"amount":   {Type: genai.TypeNumber},
				"currency": {Type: genai.TypeString, Description: "ISO-style currency code, default MYR."},
			},
			Required: []string{"amount", "currency"},
		}
	}

	item := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString, Description: "Name of the line item (e.g. petrol, solar panel, diesel)."},
			"supplier": {Type: genai.TypeString, Description: "Supplier of this item."},
			"quantity": {Type: genai.TypeNumber, Description: "Amount purchased for this item."},
			"unit":     {Type: genai.TypeString, Description: "Unit purchased (e.g. single, kg, litres, kWh)."},
			"price":    money("Total price for this line item."),
			"isGreenEligible": {
				Type:        genai.TypeBoolean,
				Description: "Whether this item qualifies for the Green Investment Tax Allowance (GITA).",
			},
			"purchaseDate": {Type: genai.TypeString, Description: "Purchase date in YYYY-MM-DD format."},
		},
		Required: []string{"name", "quantity", "unit", "price", "isGreenEligible"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"invoiceNumber": {Type: genai.TypeString},
			"supplier":      {Type: genai.TypeString, Description: "Supplier issuing this invoice."},
			"purchaseDate":  {Type: genai.TypeString, Description: "Issue date in YYYY-MM-DD format."},
			"totalAmount":   money("Total amount of the invoice."),
			"items":         {Type: genai.TypeArray, Items: item},
		},
		Required: []string{"items", "totalAmount"},
	}
}
