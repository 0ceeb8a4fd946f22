package extract_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kira-carbon/server/internal/core/errx"
	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/extract"
	"github.com/kira-carbon/server/internal/llm"
)

type stubGenerator struct {
	out string
	err error
}

func (g *stubGenerator) GenerateStructured(ctx context.Context, req llm.Request) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	return []byte(g.out), nil
}

const validInvoiceJSON = `{
	"invoiceNumber": "INV-2025-001",
	"supplier": "SolarX Sdn Bhd",
	"purchaseDate": "2025-03-14",
	"totalAmount": {"amount": "121000", "currency": "MYR"},
	"items": [
		{"name": "Solar Panel PV-200", "supplier": "SolarX", "quantity": 10, "unit": "pcs",
		 "price": {"amount": "12100"}, "isGreenEligible": true, "purchaseDate": "2025-03-14"}
	]
}`

func TestExtract(t *testing.T) {
	ctx := context.Background()
	media := &llm.Media{Data: []byte("scan"), MIMEType: "image/png"}

	t.Run("parses the model output into an invoice", func(t *testing.T) {
		p := extract.NewPipeline(&stubGenerator{out: validInvoiceJSON})

		invoice, err := p.Extract(ctx, media)
		require.NoError(t, err)
		assert.Equal(t, "INV-2025-001", invoice.InvoiceNumber)
		require.Len(t, invoice.Items, 1)
		assert.True(t, invoice.Items[0].IsGreenEligible)
	})

	t.Run("defaults missing currency to MYR", func(t *testing.T) {
		p := extract.NewPipeline(&stubGenerator{out: validInvoiceJSON})

		invoice, err := p.Extract(ctx, media)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultCurrency, invoice.Items[0].Price.Currency)
	})

	t.Run("unparseable output fails with extraction error", func(t *testing.T) {
		p := extract.NewPipeline(&stubGenerator{out: "this is not JSON"})

		_, err := p.Extract(ctx, media)
		assert.ErrorIs(t, err, errx.ErrExtractionFailed)
	})

	t.Run("invoice without items fails with extraction error", func(t *testing.T) {
		p := extract.NewPipeline(&stubGenerator{out: `{"invoiceNumber":"INV-1","items":[]}`})

		_, err := p.Extract(ctx, media)
		assert.ErrorIs(t, err, errx.ErrExtractionFailed)
	})

	t.Run("generator failure propagates", func(t *testing.T) {
		p := extract.NewPipeline(&stubGenerator{err: errx.ErrGenerationFailed})

		_, err := p.Extract(ctx, media)
		assert.ErrorIs(t, err, errx.ErrGenerationFailed)
	})
}

func TestMediaTypeFor(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"receipt.pdf", "application/pdf"},
		{"receipt.jpg", "image/jpeg"},
		{"receipt.JPEG", "image/jpeg"},
		{"receipt.png", "image/png"},
		{"receipt.webp", "image/webp"},
		{"receipt", "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.MediaTypeFor(tt.ref))
		})
	}
}

func TestLoadDocument(t *testing.T) {
	t.Run("reads a local file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "receipt.jpg")
		require.NoError(t, os.WriteFile(path, []byte("image-bytes"), 0o644))

		media, err := extract.LoadDocument(path, "")
		require.NoError(t, err)
		assert.Equal(t, []byte("image-bytes"), media.Data)
		assert.Equal(t, "image/jpeg", media.MIMEType)
	})

	t.Run("explicit mime type wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "receipt.bin")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		media, err := extract.LoadDocument(path, "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", media.MIMEType)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := extract.LoadDocument(filepath.Join(t.TempDir(), "absent.png"), "")
		assert.Error(t, err)
	})
}
