// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package detection

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/ledgerwatch/internal/models"
)

// mockHistory is a configurable EventHistory for detector tests.
type mockHistory struct {
	mu       sync.Mutex
	events   []models.Event
	deposits []models.Event
	sum      decimal.Decimal
	sumOK    bool
	err      error

	lastMinT int64
}

func (m *mockHistory) LatestEventsByUser(_ context.Context, _ int64, _ int) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

func (m *mockHistory) LatestDepositsByUser(_ context.Context, _ int64, _ int) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.deposits, nil
}

func (m *mockHistory) SumDepositsSince(_ context.Context, _ int64, minT int64) (decimal.Decimal, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastMinT = minT
	if m.err != nil {
		return decimal.Zero, false, m.err
	}
	return m.sum, m.sumOK, nil
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func withdrawal(t int64, amount string) models.Event {
	return models.Event{UserID: 1, Amount: amt(amount), T: t, Type: models.EventTypeWithdraw}
}

func deposit(t int64, amount string) models.Event {
	return models.Event{UserID: 1, Amount: amt(amount), T: t, Type: models.EventTypeDeposit}
}

func TestLargeWithdrawalDetector(t *testing.T) {
	tests := []struct {
		name  string
		event models.Event
		want  bool
	}{
		{"withdrawal over threshold", withdrawal(1, "150.00"), true},
		{"withdrawal at threshold", withdrawal(1, "100.00"), true},
		{"withdrawal just under", withdrawal(1, "99.99"), false},
		{"large deposit ignored", deposit(1, "500.00"), false},
		{"zero withdrawal", withdrawal(1, "0.00"), false},
	}

	d := NewLargeWithdrawalDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Check(context.Background(), &tt.event)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestConsecutiveWithdrawalsDetector(t *testing.T) {
	tests := []struct {
		name    string
		event   models.Event
		history []models.Event
		want    bool
	}{
		{
			name:    "three withdrawals",
			event:   withdrawal(10, "5.00"),
			history: []models.Event{withdrawal(10, "5.00"), withdrawal(9, "5.00"), withdrawal(8, "5.00")},
			want:    true,
		},
		{
			name:    "deposit breaks run",
			event:   withdrawal(10, "5.00"),
			history: []models.Event{withdrawal(10, "5.00"), deposit(9, "5.00"), withdrawal(8, "5.00")},
			want:    false,
		},
		{
			name:    "only two events",
			event:   withdrawal(10, "5.00"),
			history: []models.Event{withdrawal(10, "5.00"), withdrawal(9, "5.00")},
			want:    false,
		},
		{
			name:    "candidate is deposit",
			event:   deposit(10, "5.00"),
			history: []models.Event{deposit(10, "5.00"), withdrawal(9, "5.00"), withdrawal(8, "5.00")},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewConsecutiveWithdrawalsDetector(&mockHistory{events: tt.history})
			got, err := d.Check(context.Background(), &tt.event)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestConsecutiveWithdrawalsDetectorHistoryError(t *testing.T) {
	d := NewConsecutiveWithdrawalsDetector(&mockHistory{err: errors.New("connection lost")})
	event := withdrawal(10, "5.00")

	if _, err := d.Check(context.Background(), &event); err == nil {
		t.Error("Expected history error to propagate")
	}
}

func TestIncreasingDepositsDetector(t *testing.T) {
	tests := []struct {
		name     string
		event    models.Event
		deposits []models.Event
		want     bool
	}{
		{
			name:     "strictly increasing",
			event:    deposit(10, "30.00"),
			deposits: []models.Event{deposit(10, "30.00"), deposit(8, "20.00"), deposit(5, "10.00")},
			want:     true,
		},
		{
			name:     "increasing across interleaved withdrawals",
			event:    deposit(10, "3.00"),
			deposits: []models.Event{deposit(10, "3.00"), deposit(6, "2.00"), deposit(2, "1.00")},
			want:     true,
		},
		{
			name:     "equal amounts not strict",
			event:    deposit(10, "20.00"),
			deposits: []models.Event{deposit(10, "20.00"), deposit(8, "20.00"), deposit(5, "10.00")},
			want:     false,
		},
		{
			name:     "decreasing",
			event:    deposit(10, "10.00"),
			deposits: []models.Event{deposit(10, "10.00"), deposit(8, "20.00"), deposit(5, "30.00")},
			want:     false,
		},
		{
			name:     "only two deposits",
			event:    deposit(10, "20.00"),
			deposits: []models.Event{deposit(10, "20.00"), deposit(8, "10.00")},
			want:     false,
		},
		{
			// The rule reads the deposit-only history; a withdrawal candidate
			// neither extends nor resets the run.
			name:     "withdrawal candidate with increasing deposit history",
			event:    withdrawal(10, "5.00"),
			deposits: []models.Event{deposit(8, "40.00"), deposit(6, "30.00"), deposit(4, "20.00")},
			want:     true,
		},
		{
			name:     "withdrawal candidate with flat deposit history",
			event:    withdrawal(10, "5.00"),
			deposits: []models.Event{deposit(8, "30.00"), deposit(6, "30.00"), deposit(4, "20.00")},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewIncreasingDepositsDetector(&mockHistory{deposits: tt.deposits})
			got, err := d.Check(context.Background(), &tt.event)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDepositWindowDetector(t *testing.T) {
	tests := []struct {
		name  string
		event models.Event
		sum   string
		sumOK bool
		want  bool
	}{
		{"sum over threshold", deposit(100, "50.00"), "250.00", true, true},
		{"sum at threshold", deposit(100, "50.00"), "200.00", true, true},
		{"sum just under", deposit(100, "50.00"), "199.99", true, false},
		{"no deposits in window", withdrawal(100, "50.00"), "0", false, false},
		// The window sum counts deposits only, but the candidate's own type
		// does not gate the rule.
		{"withdrawal candidate with qualifying sum", withdrawal(100, "5.00"), "250.00", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &mockHistory{sum: amt(tt.sum), sumOK: tt.sumOK}
			d := NewDepositWindowDetector(h)
			got, err := d.Check(context.Background(), &tt.event)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDepositWindowDetectorBounds(t *testing.T) {
	tests := []struct {
		name     string
		eventT   int64
		wantMinT int64
	}{
		{"window start", 100, 70},
		{"clamped at zero", 10, 0},
		{"exactly at width", 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &mockHistory{sumOK: true, sum: amt("1.00")}
			d := NewDepositWindowDetector(h)
			event := deposit(tt.eventT, "1.00")

			if _, err := d.Check(context.Background(), &event); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if h.lastMinT != tt.wantMinT {
				t.Errorf("Expected window start %d, got %d", tt.wantMinT, h.lastMinT)
			}
		})
	}
}
