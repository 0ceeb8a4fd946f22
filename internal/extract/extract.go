// Package extract turns a source document (invoice or receipt scan) into a
// normalized Invoice through one schema-constrained model call.
package extract

import (
	"context"
	"encoding/json"
	"fmt"

	errx "github.com/kira-carbon/server/internal/core/errx"
	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/llm"
	logx "github.com/kira-carbon/server/pkg/logger"
)

const extractionInstruction = "Extract all line items and total amounts from this invoice. " +
	"Identify if assets are eligible for the Green Investment Tax Allowance (GITA)."

// Pipeline is the extraction stage. Stateless with respect to the store; no
// retry is performed, the caller decides whether to resubmit.
type Pipeline struct {
	gen llm.Generator
}

func NewPipeline(gen llm.Generator) *Pipeline {
	return &Pipeline{gen: gen}
}

// ExtractReference loads a document by path or URL and extracts it.
func (p *Pipeline) ExtractReference(ctx context.Context, ref, mimeType string) (*domain.Invoice, error) {
	media, err := LoadDocument(ref, mimeType)
	if err != nil {
		return nil, err
	}
	return p.Extract(ctx, media)
}

// Extract runs one model call over the attached document and parses the
// result into an Invoice. Unparseable output fails with ErrExtractionFailed.
func (p *Pipeline) Extract(ctx context.Context, media *llm.Media) (*domain.Invoice, error) {
	raw, err := p.gen.GenerateStructured(ctx, llm.Request{
		Prompt: extractionInstruction,
		Media:  media,
		Schema: invoiceSchema(),
	})
	if err != nil {
		return nil, err
	}

	var invoice domain.Invoice
	if err := json.Unmarshal(raw, &invoice); err != nil {
		logx.Error().Err(err).Msg("extraction output did not match the invoice schema")
		return nil, fmt.Errorf("%w: %v", errx.ErrExtractionFailed, err)
	}
	if len(invoice.Items) == 0 {
		return nil, fmt.Errorf("%w: no line items found", errx.ErrExtractionFailed)
	}

	for i := range invoice.Items {
		if invoice.Items[i].Price.Currency == "" {
			invoice.Items[i].Price.Currency = domain.DefaultCurrency
		}
	}
	if invoice.TotalAmount.Currency == "" {
		invoice.TotalAmount.Currency = domain.DefaultCurrency
	}

	logx.Debug().
		Str("invoice_number", invoice.InvoiceNumber).
		Int("items", len(invoice.Items)).
		Msg("invoice extracted")
	return &invoice, nil
}
