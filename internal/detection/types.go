// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

// Package detection implements the fraud alert rule engine.
//
// The rule set is closed and compiled: four detectors, each bound to one
// alert code, evaluated for every accepted event. Detectors are stateless
// per call - they consult only the candidate event and the persisted history
// behind the EventHistory interface, so an evaluation is deterministic given
// the same history snapshot.
//
// The package also holds the HighWaterMark guard, the process-wide arbiter
// of event ordering admission.
package detection

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/ledgerwatch/internal/models"
)

// Rule constants. These are fixed properties of the rule set, not runtime
// configuration.
const (
	// historyDepth is how many trailing events rules 30 and 300 inspect.
	historyDepth = 3

	// depositWindowTicks is the trailing window width, in logical-timestamp
	// ticks, for the deposit sum rule.
	depositWindowTicks = 30
)

// Monetary thresholds. Package vars because decimal values cannot be Go
// constants; nothing mutates them.
var (
	// largeWithdrawalThreshold triggers alert 1100 (inclusive).
	largeWithdrawalThreshold = decimal.NewFromInt(100)

	// depositWindowThreshold triggers alert 123 (inclusive).
	depositWindowThreshold = decimal.NewFromInt(200)
)

// Detector is the interface all fraud rules implement.
type Detector interface {
	// Code returns the alert code this detector raises.
	Code() models.AlertCode

	// Name returns a short identifier for logging and metrics.
	Name() string

	// Check evaluates the candidate event, which has already been persisted.
	// It returns true when the rule triggers. An error means the rule could
	// not be evaluated; the engine aborts the whole evaluation rather than
	// returning a partial alert set.
	Check(ctx context.Context, event *models.Event) (bool, error)
}

// EventHistory provides read access to persisted events for detectors.
// Implemented by the database package; mocked in tests.
type EventHistory interface {
	// LatestEventsByUser returns the user's most recent events, t descending,
	// at most n.
	LatestEventsByUser(ctx context.Context, userID int64, n int) ([]models.Event, error)

	// LatestDepositsByUser returns the user's most recent deposit events,
	// t descending, at most n.
	LatestDepositsByUser(ctx context.Context, userID int64, n int) ([]models.Event, error)

	// SumDepositsSince sums the user's deposit amounts over t >= minT.
	// ok is false when no rows match.
	SumDepositsSince(ctx context.Context, userID int64, minT int64) (decimal.Decimal, bool, error)
}
