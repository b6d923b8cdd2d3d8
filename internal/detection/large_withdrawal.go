// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package detection

import (
	"context"

	"github.com/tomtom215/ledgerwatch/internal/models"
)

// LargeWithdrawalDetector raises alert 1100 for a single withdrawal of
// 100.00 or more. It is a pure function of the candidate event and performs
// no history lookup.
type LargeWithdrawalDetector struct{}

// NewLargeWithdrawalDetector creates the detector.
func NewLargeWithdrawalDetector() *LargeWithdrawalDetector {
	return &LargeWithdrawalDetector{}
}

// Code returns the alert code.
func (d *LargeWithdrawalDetector) Code() models.AlertCode {
	return models.AlertLargeWithdrawal
}

// Name returns the detector identifier.
func (d *LargeWithdrawalDetector) Name() string {
	return "large_withdrawal"
}

// Check reports whether the candidate withdrawal meets the threshold.
func (d *LargeWithdrawalDetector) Check(_ context.Context, event *models.Event) (bool, error) {
	return event.IsWithdraw() && event.Amount.GreaterThanOrEqual(largeWithdrawalThreshold), nil
}
