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

// IncreasingDepositsDetector raises alert 300 when the user's three most
// recent deposits have strictly increasing amounts in event order.
// Withdrawals interleaved between the deposits are ignored entirely.
type IncreasingDepositsDetector struct {
	history EventHistory
}

// NewIncreasingDepositsDetector creates the detector.
func NewIncreasingDepositsDetector(history EventHistory) *IncreasingDepositsDetector {
	return &IncreasingDepositsDetector{history: history}
}

// Code returns the alert code.
func (d *IncreasingDepositsDetector) Code() models.AlertCode {
	return models.AlertIncreasingDeposits
}

// Name returns the detector identifier.
func (d *IncreasingDepositsDetector) Name() string {
	return "increasing_deposits"
}

// Check reports whether the user's last three deposits strictly increase.
// A withdrawal candidate does not reset the deposit run; the rule reads the
// deposit-only history and ignores the candidate's type.
func (d *IncreasingDepositsDetector) Check(ctx context.Context, event *models.Event) (bool, error) {
	deposits, err := d.history.LatestDepositsByUser(ctx, event.UserID, historyDepth)
	if err != nil {
		return false, fmt.Errorf("increasing deposits lookup for user %d: %w", event.UserID, err)
	}

	if len(deposits) < historyDepth {
		return false, nil
	}

	// deposits arrive t-descending: each entry must be strictly greater than
	// its successor for the run to be increasing in event order.
	for i := 0; i < len(deposits)-1; i++ {
		if !deposits[i].Amount.GreaterThan(deposits[i+1].Amount) {
			return false, nil
		}
	}
	return true, nil
}
