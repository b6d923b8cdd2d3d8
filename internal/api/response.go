// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ledgerwatch/internal/logging"
	"github.com/tomtom215/ledgerwatch/internal/models"
)

// Error codes for API responses.
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeOrderingViolation = "ORDERING_VIOLATION"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// writeJSON writes a JSON body with proper headers.
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteCreated writes a 201 response with the given body.
func WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, r, http.StatusCreated, data)
}

// WriteOK writes a 200 response with the given body.
func WriteOK(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, r, http.StatusOK, data)
}

// WriteError writes a structured error response.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	WriteErrorWithDetails(w, r, statusCode, code, message, nil)
}

// WriteErrorWithDetails writes a structured error response with extra detail
// payload for clients.
func WriteErrorWithDetails(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, details interface{}) {
	writeJSON(w, r, statusCode, models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	})
}

// WriteBadRequest writes a 400 error.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// WriteValidationError writes a 400 error with field-level details.
func WriteValidationError(w http.ResponseWriter, r *http.Request, message string, details interface{}) {
	WriteErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidationFailed, message, details)
}

// WriteOrderingViolation writes the 400 rejection for a stale timestamp.
func WriteOrderingViolation(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, ErrCodeOrderingViolation, message)
}

// WriteDatabaseError writes a 500 error for storage failures. The underlying
// error is logged, never sent to the client.
func WriteDatabaseError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Msg("Database error")
	WriteError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "A database error occurred")
}

// WriteInternalError writes a 500 error.
func WriteInternalError(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, message)
}
