// Package api exposes batch verification over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	emailverifier "github.com/sanketagarwal/email-verifier"
)

// maxBodyBytes bounds the request body independently of the batch limit.
const maxBodyBytes = 32 << 20

// BatchVerifier is the part of *emailverifier.Verifier used by the handlers.
type BatchVerifier interface {
	VerifyBatch(ctx context.Context, emails []string, opts ...emailverifier.BatchOptions) (emailverifier.Report, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	verifier     BatchVerifier
	maxBatchSize int
	batch        emailverifier.BatchOptions
	log          *zap.Logger
}

// NewHandlers creates the handlers. maxBatchSize of zero or less disables the
// size limit.
func NewHandlers(v BatchVerifier, maxBatchSize int, batch emailverifier.BatchOptions, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{verifier: v, maxBatchSize: maxBatchSize, batch: batch, log: log}
}

type verifyRequest struct {
	Emails json.RawMessage `json:"emails"`
}

type verifyResponse struct {
	BatchID string                  `json:"batchId"`
	Results []emailverifier.Outcome `json:"results"`
	Summary emailverifier.Summary   `json:"summary"`
}

// Verify handles POST /api/verify.
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			BadRequest(w, h.log, "request body too large")
			return
		}
		BadRequest(w, h.log, "request body must be a JSON object with an emails list")
		return
	}

	emails, ok := decodeEmails(req.Emails)
	if !ok {
		BadRequest(w, h.log, "emails must be a list")
		return
	}
	if err := emailverifier.CheckBatchSize(len(emails), h.maxBatchSize); err != nil {
		switch {
		case errors.Is(err, emailverifier.ErrEmptyBatch):
			BadRequest(w, h.log, "emails list is empty")
		default:
			BadRequest(w, h.log, err.Error())
		}
		return
	}

	report, err := h.verifier.VerifyBatch(r.Context(), emails, h.batch)
	if err != nil {
		InternalError(w, h.log, err)
		return
	}

	JSON(w, h.log, http.StatusOK, verifyResponse{
		BatchID: report.ID,
		Results: report.Results,
		Summary: report.Summary,
	})
}

// decodeEmails accepts a JSON array. Items that are not strings become
// empty input and are classified as such.
func decodeEmails(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	emails := make([]string, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok {
			emails[i] = s
		}
	}
	return emails, true
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, h.log, http.StatusOK, map[string]string{"status": "ok"})
}
