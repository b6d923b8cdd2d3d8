// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

// Package api provides the HTTP surface: Chi routing, request decoding and
// validation, and standardized JSON responses.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ledgerwatch/internal/ingest"
	"github.com/tomtom215/ledgerwatch/internal/logging"
	"github.com/tomtom215/ledgerwatch/internal/models"
	"github.com/tomtom215/ledgerwatch/internal/validation"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Ingestor admits one event through the full pipeline.
// Implemented by the ingest coordinator; mocked in tests.
type Ingestor interface {
	Ingest(ctx context.Context, event *models.Event) (*ingest.IngestResult, error)
}

// EventReader provides read access to the event store for list and health
// endpoints.
type EventReader interface {
	ListEvents(ctx context.Context, limit, offset int) ([]models.Event, error)
	CountEvents(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	ingestor Ingestor
	reader   EventReader
	version  string
}

// NewHandler creates a handler with its dependencies.
func NewHandler(ingestor Ingestor, reader EventReader, version string) *Handler {
	return &Handler{
		ingestor: ingestor,
		reader:   reader,
		version:  version,
	}
}

// IngestEvent handles POST /api/v1/events.
//
// Accepted events return 201 with the alert outcome. Stale or duplicate
// timestamps return 400 ORDERING_VIOLATION with nothing persisted.
func (h *Handler) IngestEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, r, "Invalid JSON body")
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		WriteValidationError(w, r, apiErr.Message, apiErr.Details)
		return
	}
	if req.Amount.IsNegative() {
		WriteValidationError(w, r, "amount must not be negative", nil)
		return
	}
	if !models.AmountScaleOK(*req.Amount) {
		WriteValidationError(w, r, "amount must have at most two decimal places", nil)
		return
	}

	event := &models.Event{
		UserID: *req.UserID,
		Amount: *req.Amount,
		T:      *req.T,
		Type:   models.EventType(req.Type),
	}

	result, err := h.ingestor.Ingest(r.Context(), event)
	if err != nil {
		var ov *ingest.OrderingViolationError
		var se *ingest.StorageError
		var ee *ingest.EvaluationError
		switch {
		case errors.As(err, &ov):
			WriteOrderingViolation(w, r, fmt.Sprintf(
				"event timestamp %d does not advance the accepted stream (high-water mark %d)", ov.T, ov.Mark))
		case errors.As(err, &se):
			WriteDatabaseError(w, r, se)
		case errors.As(err, &ee):
			WriteInternalError(w, r, "Rule evaluation failed; the event was stored")
		default:
			logging.Ctx(r.Context()).Error().Err(err).Msg("Unexpected ingest failure")
			WriteInternalError(w, r, "An internal error occurred")
		}
		return
	}

	codes := result.AlertCodes
	if codes == nil {
		codes = []models.AlertCode{}
	}
	WriteCreated(w, r, models.IngestResponse{
		Alert:      result.Alert,
		AlertCodes: codes,
		UserID:     result.UserID,
	})
}

// ListEvents handles GET /api/v1/events with limit/offset pagination, ordered
// by logical timestamp ascending.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 || limit > maxListLimit {
		WriteBadRequest(w, r, fmt.Sprintf("limit must be an integer in [1, %d]", maxListLimit))
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		WriteBadRequest(w, r, "offset must be a non-negative integer")
		return
	}

	events, err := h.reader.ListEvents(r.Context(), limit, offset)
	if err != nil {
		WriteDatabaseError(w, r, err)
		return
	}
	total, err := h.reader.CountEvents(r.Context())
	if err != nil {
		WriteDatabaseError(w, r, err)
		return
	}

	if events == nil {
		events = []models.Event{}
	}
	WriteOK(w, r, models.EventList{
		Events: events,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// Health handles GET /health. Reports degraded status with 503 when the
// store is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Version:  h.version,
	}

	if err := h.reader.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check failed")
		resp.Status = "unhealthy"
		resp.Database = "unreachable"
		writeJSON(w, r, http.StatusServiceUnavailable, resp)
		return
	}

	WriteOK(w, r, resp)
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
