package server_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kira-carbon/server/internal/agent/model"
	"github.com/kira-carbon/server/internal/classify"
	"github.com/kira-carbon/server/internal/core/errx"
	"github.com/kira-carbon/server/internal/extract"
	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/llm"
	"github.com/kira-carbon/server/internal/server"
	"github.com/kira-carbon/server/internal/store"
)

type stubRunner struct {
	reply string
	err   error
	last  model.QueryInput
}

func (r *stubRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	r.last = in
	return r.reply, r.err
}

// stubGenerator answers extraction with an invoice and classification with a
// carbon entry, keyed off the structured prompt.
type stubGenerator struct{}

func (stubGenerator) GenerateStructured(ctx context.Context, req llm.Request) ([]byte, error) {
	if req.Media != nil {
		return []byte(`{
			"invoiceNumber": "INV-1",
			"items": [{"name": "Electricity", "quantity": 5200, "unit": "kWh",
				"price": {"amount": "2870.40", "currency": "MYR"}}]
		}`), nil
	}
	return []byte(`{"scope":2,"activityData":5200,"gridEmissionFactor":0.774,"co2eEmission":4.0248}`), nil
}

func newTestServer(runner *stubRunner) (*server.Server, *store.Memory) {
	docStore := store.NewMemory()
	srv := server.New(
		server.Config{},
		runner,
		extract.NewPipeline(stubGenerator{}),
		classify.NewPipeline(stubGenerator{}, classify.Config{MaxConcurrency: 1}),
		docStore,
	)
	return srv, docStore
}

func newTestHandler(runner *stubRunner) http.Handler {
	srv, _ := newTestServer(runner)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		runner := &stubRunner{reply: "Your gross liability is RM43,200."}
		rec := doJSON(t, newTestHandler(runner), http.MethodPost, "/chat", map[string]string{
			"userId":    "user123",
			"message":   "How much carbon tax will I pay at RM30?",
			"receiptId": "receipt_demo",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Your gross liability is RM43,200.", resp["reply"])
		assert.Equal(t, "user123", runner.last.UserID)
		assert.Equal(t, "receipt_demo", runner.last.ReceiptID)
	})

	t.Run("missing fields", func(t *testing.T) {
		srv := newTestHandler(&stubRunner{})

		rec := doJSON(t, srv, http.MethodPost, "/chat", map[string]string{"userId": "user123"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, srv, http.MethodPost, "/chat", map[string]string{"message": "hi"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		srv := newTestHandler(&stubRunner{})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("agent failure maps through error status", func(t *testing.T) {
		runner := &stubRunner{err: errx.ErrGenerationFailed}
		rec := doJSON(t, newTestHandler(runner), http.MethodPost, "/chat", map[string]string{
			"userId":  "user123",
			"message": "hi",
		})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("unknown failure is a 500", func(t *testing.T) {
		runner := &stubRunner{err: errors.New("boom")}
		rec := doJSON(t, newTestHandler(runner), http.MethodPost, "/chat", map[string]string{
			"userId":  "user123",
			"message": "hi",
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("non-POST is rejected", func(t *testing.T) {
		rec := doJSON(t, newTestHandler(&stubRunner{}), http.MethodGet, "/chat", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestProcessReceiptEndpoint(t *testing.T) {
	t.Run("happy path persists the processed receipt", func(t *testing.T) {
		srv, docStore := newTestServer(&stubRunner{})
		rec := doJSON(t, srv.Handler(), http.MethodPost, "/receipts/process", map[string]string{
			"userId":     "user123",
			"imageBytes": base64.StdEncoding.EncodeToString([]byte("scan")),
			"mimeType":   "image/jpeg",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			ReceiptID string `json:"receiptId"`
			Invoice   struct {
				InvoiceNumber string `json:"invoiceNumber"`
			} `json:"invoice"`
			CarbonEntries []json.RawMessage `json:"carbonEntries"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "INV-1", resp.Invoice.InvoiceNumber)
		assert.Len(t, resp.CarbonEntries, 1)
		require.NotEmpty(t, resp.ReceiptID)

		receipt, err := store.GetAs[domain.Receipt](context.Background(), docStore, store.CollectionReceipts, resp.ReceiptID)
		require.NoError(t, err)
		assert.Len(t, receipt.LineItems, 1)

		invoice, err := store.GetAs[domain.Invoice](context.Background(), docStore, store.CollectionInvoices, resp.ReceiptID)
		require.NoError(t, err)
		assert.Equal(t, "INV-1", invoice.InvoiceNumber)
	})

	t.Run("missing image bytes", func(t *testing.T) {
		rec := doJSON(t, newTestHandler(&stubRunner{}), http.MethodPost, "/receipts/process", map[string]string{
			"userId": "user123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid base64", func(t *testing.T) {
		rec := doJSON(t, newTestHandler(&stubRunner{}), http.MethodPost, "/receipts/process", map[string]string{
			"userId":     "user123",
			"imageBytes": "not-base64!!!",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestHandler(&stubRunner{}), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	srv := newTestHandler(&stubRunner{})

	t.Run("preflight resolves with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("headers present on normal responses", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestHandler(&stubRunner{})

	t.Run("generated when absent", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	})

	t.Run("echoed when provided", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-Id", "req-42")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	})
}
