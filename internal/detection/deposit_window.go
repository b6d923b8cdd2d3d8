// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package detection

import (
	"context"
	"fmt"

	"github.com/tomtom215/ledgerwatch/internal/models"
)

// DepositWindowDetector raises alert 123 when the user's deposits over the
// trailing 30-tick window sum to 200.00 or more. The window is measured in
// logical timestamps, not wall time, and includes the candidate event.
type DepositWindowDetector struct {
	history EventHistory
}

// NewDepositWindowDetector creates the detector.
func NewDepositWindowDetector(history EventHistory) *DepositWindowDetector {
	return &DepositWindowDetector{history: history}
}

// Code returns the alert code.
func (d *DepositWindowDetector) Code() models.AlertCode {
	return models.AlertDepositWindowSum
}

// Name returns the detector identifier.
func (d *DepositWindowDetector) Name() string {
	return "deposit_window_sum"
}

// Check reports whether the trailing deposit sum meets the threshold.
// Withdrawals never count toward the sum, but the rule is evaluated for
// every candidate regardless of its type.
func (d *DepositWindowDetector) Check(ctx context.Context, event *models.Event) (bool, error) {
	minT := event.T - depositWindowTicks
	if minT < 0 {
		minT = 0
	}

	sum, ok, err := d.history.SumDepositsSince(ctx, event.UserID, minT)
	if err != nil {
		return false, fmt.Errorf("deposit window sum for user %d: %w", event.UserID, err)
	}
	if !ok {
		return false, nil
	}

	return sum.GreaterThanOrEqual(depositWindowThreshold), nil
}
