// Package customers exposes the customer record service over HTTP.
package customers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"customerdesk/internal/core"
	"customerdesk/pkg/domain"
)

// Path is the collection route served by Handler.
const Path = "/customers"

// MaxBodyBytes caps the size of a submitted batch.
const MaxBodyBytes = 1 << 20

// Service is the subset of core.Service the handler needs.
type Service interface {
	List(ctx context.Context) []domain.Customer
	SubmitBatch(ctx context.Context, batch []domain.Customer) (domain.BatchResult, error)
}

// Handler serves GET and POST on the customer collection.
type Handler struct {
	Service Service
	Logger  core.Logger
}

// NewHandler constructs a customer HTTP handler. A nil logger discards output.
func NewHandler(svc Service, logger core.Logger) *Handler {
	return &Handler{Service: svc, Logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusInternalServerError, "customer service not configured")
		return
	}
	if strings.TrimSuffix(r.URL.Path, "/") != Path {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.Service.List(r.Context()))
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	batch, err := DecodeBatch(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		h.logWarn("rejected customers payload", "error", err)
		writeError(w, http.StatusBadRequest, "invalid customers payload")
		return
	}
	result, err := h.Service.SubmitBatch(r.Context(), batch)
	if err != nil {
		h.logError("submit customers failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist customers")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DecodeBatch parses a JSON array of customer records. Anything else,
// including an empty body, null or trailing data, yields a *domain.ParseError.
func DecodeBatch(r io.Reader) ([]domain.Customer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &domain.ParseError{Err: errors.New("empty body")}
	}
	if trimmed[0] != '[' {
		return nil, &domain.ParseError{Err: fmt.Errorf("expected a JSON array")}
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var batch []domain.Customer
	if err := dec.Decode(&batch); err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	if dec.More() {
		return nil, &domain.ParseError{Err: errors.New("trailing data after array")}
	}
	if batch == nil {
		batch = []domain.Customer{}
	}
	return batch, nil
}

func (h *Handler) logWarn(msg string, args ...any) {
	if h.Logger != nil {
		h.Logger.Warn(msg, args...)
	}
}

func (h *Handler) logError(msg string, args ...any) {
	if h.Logger != nil {
		h.Logger.Error(msg, args...)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
