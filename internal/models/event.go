// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

// Package models defines the core domain types shared across Ledgerwatch:
// financial events, alert codes, and the HTTP request/response shapes.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType identifies the kind of financial event.
type EventType string

const (
	// EventTypeDeposit is money moving into the account.
	EventTypeDeposit EventType = "deposit"

	// EventTypeWithdraw is money moving out of the account.
	EventTypeWithdraw EventType = "withdraw"
)

// Valid reports whether the event type is one of the known values.
func (t EventType) Valid() bool {
	return t == EventTypeDeposit || t == EventTypeWithdraw
}

// AlertCode is a fixed integer identifier for one fraud-rule trigger condition.
type AlertCode int

const (
	// AlertConsecutiveWithdrawals fires when a user's latest three events are
	// all withdrawals.
	AlertConsecutiveWithdrawals AlertCode = 30

	// AlertDepositWindowSum fires when a user's deposits over the trailing
	// 30-tick window sum to 200.00 or more.
	AlertDepositWindowSum AlertCode = 123

	// AlertIncreasingDeposits fires when a user's latest three deposits are
	// strictly increasing in chronological order.
	AlertIncreasingDeposits AlertCode = 300

	// AlertLargeWithdrawal fires when a single withdrawal is 100.00 or more.
	AlertLargeWithdrawal AlertCode = 1100
)

// Event is an immutable record of a financial transaction.
//
// T is a caller-supplied logical timestamp that totally orders accepted
// events system-wide; it is globally unique and strictly increasing across
// accepted events. Amount is monetary with two fractional digits.
type Event struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	T         int64           `json:"t"`
	Type      EventType       `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsDeposit reports whether the event is a deposit.
func (e *Event) IsDeposit() bool {
	return e.Type == EventTypeDeposit
}

// IsWithdraw reports whether the event is a withdrawal.
func (e *Event) IsWithdraw() bool {
	return e.Type == EventTypeWithdraw
}
