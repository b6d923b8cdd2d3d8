// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/ledgerwatch/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewInMemory()
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustAppend(t *testing.T, db *DB, userID, ts int64, amount string, typ models.EventType) *models.Event {
	t.Helper()
	stored, err := db.AppendEvent(context.Background(), &models.Event{
		UserID: userID,
		Amount: decimal.RequireFromString(amount),
		T:      ts,
		Type:   typ,
	})
	if err != nil {
		t.Fatalf("Failed to append event t=%d: %v", ts, err)
	}
	return stored
}

func TestAppendEventRoundTrip(t *testing.T) {
	db := newTestDB(t)

	stored := mustAppend(t, db, 1, 10, "100.05", models.EventTypeDeposit)

	if stored.ID == 0 {
		t.Error("Expected generated ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("Expected creation timestamp")
	}

	events, err := db.LatestEventsByUser(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	// The amount must survive the round trip exactly; 100.05 has no exact
	// float64 representation.
	if events[0].Amount.StringFixed(2) != "100.05" {
		t.Errorf("Expected amount 100.05, got %s", events[0].Amount)
	}
	if events[0].Type != models.EventTypeDeposit {
		t.Errorf("Expected deposit, got %s", events[0].Type)
	}
}

func TestAppendEventDuplicateTimestamp(t *testing.T) {
	db := newTestDB(t)

	mustAppend(t, db, 1, 5, "10.00", models.EventTypeDeposit)

	// Same t, different user: the constraint is global, not per-user.
	_, err := db.AppendEvent(context.Background(), &models.Event{
		UserID: 2,
		Amount: decimal.RequireFromString("20.00"),
		T:      5,
		Type:   models.EventTypeWithdraw,
	})
	if !errors.Is(err, ErrDuplicateTimestamp) {
		t.Errorf("Expected ErrDuplicateTimestamp, got %v", err)
	}
}

func TestLatestEventsByUserOrderAndIsolation(t *testing.T) {
	db := newTestDB(t)

	mustAppend(t, db, 1, 1, "1.00", models.EventTypeDeposit)
	mustAppend(t, db, 2, 2, "2.00", models.EventTypeDeposit)
	mustAppend(t, db, 1, 3, "3.00", models.EventTypeWithdraw)
	mustAppend(t, db, 1, 4, "4.00", models.EventTypeDeposit)

	events, err := db.LatestEventsByUser(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].T != 4 || events[1].T != 3 {
		t.Errorf("Expected t descending [4, 3], got [%d, %d]", events[0].T, events[1].T)
	}
	for _, e := range events {
		if e.UserID != 1 {
			t.Errorf("Expected only user 1 events, got user %d", e.UserID)
		}
	}
}

func TestLatestDepositsByUserSkipsWithdrawals(t *testing.T) {
	db := newTestDB(t)

	mustAppend(t, db, 1, 1, "10.00", models.EventTypeDeposit)
	mustAppend(t, db, 1, 2, "99.00", models.EventTypeWithdraw)
	mustAppend(t, db, 1, 3, "20.00", models.EventTypeDeposit)

	deposits, err := db.LatestDepositsByUser(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("Failed to query deposits: %v", err)
	}
	if len(deposits) != 2 {
		t.Fatalf("Expected 2 deposits, got %d", len(deposits))
	}
	if deposits[0].T != 3 || deposits[1].T != 1 {
		t.Errorf("Expected t descending [3, 1], got [%d, %d]", deposits[0].T, deposits[1].T)
	}
}

func TestSumDepositsSince(t *testing.T) {
	db := newTestDB(t)

	mustAppend(t, db, 1, 10, "50.25", models.EventTypeDeposit)
	mustAppend(t, db, 1, 20, "49.75", models.EventTypeDeposit)
	mustAppend(t, db, 1, 30, "500.00", models.EventTypeWithdraw)
	mustAppend(t, db, 2, 40, "999.00", models.EventTypeDeposit)

	sum, ok, err := db.SumDepositsSince(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Failed to sum deposits: %v", err)
	}
	if !ok {
		t.Fatal("Expected rows in window")
	}
	if sum.StringFixed(2) != "100.00" {
		t.Errorf("Expected exact sum 100.00, got %s", sum)
	}

	// Window excludes t < minT.
	sum, ok, err = db.SumDepositsSince(context.Background(), 1, 15)
	if err != nil || !ok {
		t.Fatalf("Expected partial window, got ok=%v err=%v", ok, err)
	}
	if sum.StringFixed(2) != "49.75" {
		t.Errorf("Expected sum 49.75, got %s", sum)
	}

	// No matching rows: undefined, not zero.
	if _, ok, err = db.SumDepositsSince(context.Background(), 3, 0); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	} else if ok {
		t.Error("Expected ok=false with no deposits")
	}
}

func TestMaxTimestamp(t *testing.T) {
	db := newTestDB(t)

	if _, found, err := db.MaxTimestamp(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	} else if found {
		t.Error("Expected no maximum in empty store")
	}

	mustAppend(t, db, 1, 7, "1.00", models.EventTypeDeposit)
	mustAppend(t, db, 2, 12, "1.00", models.EventTypeDeposit)

	maxT, found, err := db.MaxTimestamp(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !found || maxT != 12 {
		t.Errorf("Expected max 12, got (%d, %v)", maxT, found)
	}
}

func TestListAndCountEvents(t *testing.T) {
	db := newTestDB(t)

	for i := int64(1); i <= 5; i++ {
		mustAppend(t, db, 1, i, "1.00", models.EventTypeDeposit)
	}

	events, err := db.ListEvents(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].T != 3 || events[1].T != 4 {
		t.Errorf("Expected t ascending [3, 4], got [%d, %d]", events[0].T, events[1].T)
	}

	count, err := db.CountEvents(context.Background())
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected count 5, got %d", count)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Expected healthy ping, got %v", err)
	}
}
