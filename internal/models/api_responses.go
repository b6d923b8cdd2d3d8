// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package models

import "github.com/shopspring/decimal"

// EventRequest is the body of POST /api/v1/events.
//
// All value fields are pointers so that absent fields are distinguishable
// from zero values during validation. Amount accepts a JSON number or string
// and is parsed as an exact decimal.
type EventRequest struct {
	UserID *int64           `json:"user_id" validate:"required,gte=0"`
	Amount *decimal.Decimal `json:"amount" validate:"required"`
	T      *int64           `json:"t" validate:"required,gte=0"`
	Type   string           `json:"type" validate:"required,oneof=deposit withdraw"`
}

// IngestResponse is the body returned on event acceptance.
//
// AlertCodes has set semantics (no duplicates); it is emitted in ascending
// order for stable output. An empty set marshals as [] rather than null.
type IngestResponse struct {
	Alert      bool        `json:"alert"`
	AlertCodes []AlertCode `json:"alert_codes"`
	UserID     int64       `json:"user_id"`
}

// EventList is the body of GET /api/v1/events.
type EventList struct {
	Events []Event `json:"events"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
}

// APIError is the structured error body for all non-2xx responses.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorResponse wraps an APIError for the wire.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// AmountScaleOK reports whether a monetary amount fits in two fractional
// digits. Exponent is negative for fractional digits in shopspring/decimal.
func AmountScaleOK(d decimal.Decimal) bool {
	return d.Exponent() >= -2
}
