package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kira-carbon/server/internal/agent/model"
	"github.com/kira-carbon/server/internal/core/errx"
	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/llm"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
)

type chatRequest struct {
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	ReceiptID string `json:"receiptId,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type processReceiptRequest struct {
	UserID     string `json:"userId"`
	ImageBytes string `json:"imageBytes"`
	MIMEType   string `json:"mimeType,omitempty"`
}

type processReceiptResponse struct {
	ReceiptID             string                       `json:"receiptId"`
	Invoice               *domain.Invoice              `json:"invoice"`
	CarbonEntries         []domain.CarbonEntry         `json:"carbonEntries"`
	GreenIncentiveEntries []domain.GreenIncentiveEntry `json:"greenIncentiveEntries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "userId and message are required")
		return
	}

	reply, err := s.agent.Invoke(r.Context(), model.QueryInput{
		UserID:    req.UserID,
		Message:   req.Message,
		ReceiptID: strings.TrimSpace(req.ReceiptID),
	})
	if err != nil {
		logx.Error().Err(err).Str("user_id", req.UserID).Msg("chat invocation failed")
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	var req processReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" || req.ImageBytes == "" {
		writeError(w, http.StatusBadRequest, "userId and imageBytes are required")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "imageBytes must be base64 encoded")
		return
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}

	invoice, err := s.extractor.Extract(r.Context(), &llm.Media{Data: data, MIMEType: mimeType})
	if err != nil {
		logx.Error().Err(err).Str("user_id", req.UserID).Msg("receipt extraction failed")
		writeAppError(w, err)
		return
	}

	classification, err := s.classifier.Classify(r.Context(), invoice)
	if err != nil {
		logx.Error().Err(err).Str("user_id", req.UserID).Msg("receipt classification failed")
		writeAppError(w, err)
		return
	}

	receiptID := uuid.NewString()
	if err := s.store.Set(r.Context(), store.CollectionReceipts, receiptID, domain.Receipt{
		Vendor:    invoice.Supplier,
		Date:      invoice.PurchaseDate,
		LineItems: invoice.Items,
	}); err != nil {
		logx.Error().Err(err).Str("user_id", req.UserID).Msg("failed to persist processed receipt")
		writeAppError(w, err)
		return
	}
	if err := s.store.Set(r.Context(), store.CollectionInvoices, receiptID, invoice); err != nil {
		logx.Error().Err(err).Str("user_id", req.UserID).Msg("failed to persist extracted invoice")
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, processReceiptResponse{
		ReceiptID:             receiptID,
		Invoice:               invoice,
		CarbonEntries:         classification.CarbonEntries,
		GreenIncentiveEntries: classification.GreenIncentiveEntries,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeAppError(w http.ResponseWriter, err error) {
	status := errx.StatusOf(err)
	message := errx.SystemErrorMessage
	var appErr *errx.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	writeError(w, status, message)
}
