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

// ConsecutiveWithdrawalsDetector raises alert 30 when the user's three most
// recent events are all withdrawals. The candidate event is already persisted
// when Check runs, so it is included in the window.
type ConsecutiveWithdrawalsDetector struct {
	history EventHistory
}

// NewConsecutiveWithdrawalsDetector creates the detector.
func NewConsecutiveWithdrawalsDetector(history EventHistory) *ConsecutiveWithdrawalsDetector {
	return &ConsecutiveWithdrawalsDetector{history: history}
}

// Code returns the alert code.
func (d *ConsecutiveWithdrawalsDetector) Code() models.AlertCode {
	return models.AlertConsecutiveWithdrawals
}

// Name returns the detector identifier.
func (d *ConsecutiveWithdrawalsDetector) Name() string {
	return "consecutive_withdrawals"
}

// Check reports whether the user's trailing window is all withdrawals.
func (d *ConsecutiveWithdrawalsDetector) Check(ctx context.Context, event *models.Event) (bool, error) {
	// A deposit breaks any withdrawal run ending at this event.
	if !event.IsWithdraw() {
		return false, nil
	}

	events, err := d.history.LatestEventsByUser(ctx, event.UserID, historyDepth)
	if err != nil {
		return false, fmt.Errorf("consecutive withdrawals lookup for user %d: %w", event.UserID, err)
	}

	// Fewer than three events means no full window exists yet.
	if len(events) < historyDepth {
		return false, nil
	}

	for _, e := range events {
		if !e.IsWithdraw() {
			return false, nil
		}
	}
	return true, nil
}
