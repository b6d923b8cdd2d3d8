// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/ledgerwatch/internal/metrics"
	"github.com/tomtom215/ledgerwatch/internal/models"
)

// Amounts travel through SQL as VARCHAR on both insert and scan so that the
// DECIMAL(18,2) column is the only numeric representation; no float64
// round-trip ever touches a monetary value.

// AppendEvent inserts an event and returns the stored record with its
// generated ID and creation timestamp. A colliding `t` returns
// ErrDuplicateTimestamp.
func (db *DB) AppendEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	start := time.Now()

	query := `
		INSERT INTO events (user_id, amount, t, type)
		VALUES (?, CAST(? AS DECIMAL(18,2)), ?, ?)
		RETURNING id, created_at`

	stored := *event
	err := db.conn.QueryRowContext(ctx, query,
		event.UserID,
		event.Amount.StringFixed(2),
		event.T,
		string(event.Type),
	).Scan(&stored.ID, &stored.CreatedAt)
	metrics.ObserveDBQuery("append_event", time.Since(start))

	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("append event t=%d: %w", event.T, ErrDuplicateTimestamp)
		}
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	return &stored, nil
}

// LatestEventsByUser retrieves the user's most recent events ordered by `t`
// descending, at most n.
func (db *DB) LatestEventsByUser(ctx context.Context, userID int64, n int) ([]models.Event, error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("latest_events_by_user", time.Since(start)) }()

	query := `
		SELECT id, user_id, CAST(amount AS VARCHAR), t, type, created_at
		FROM events
		WHERE user_id = ?
		ORDER BY t DESC
		LIMIT ?`

	return db.queryEvents(ctx, query, userID, n)
}

// LatestDepositsByUser retrieves the user's most recent deposit events
// ordered by `t` descending, at most n. Withdrawals are invisible here.
func (db *DB) LatestDepositsByUser(ctx context.Context, userID int64, n int) ([]models.Event, error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("latest_deposits_by_user", time.Since(start)) }()

	query := `
		SELECT id, user_id, CAST(amount AS VARCHAR), t, type, created_at
		FROM events
		WHERE user_id = ? AND type = 'deposit'
		ORDER BY t DESC
		LIMIT ?`

	return db.queryEvents(ctx, query, userID, n)
}

// SumDepositsSince sums the user's deposit amounts over t >= minT.
// The boolean is false when no rows match (the sum is undefined, not zero).
func (db *DB) SumDepositsSince(ctx context.Context, userID int64, minT int64) (decimal.Decimal, bool, error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("sum_deposits_since", time.Since(start)) }()

	query := `
		SELECT CAST(SUM(amount) AS VARCHAR)
		FROM events
		WHERE user_id = ? AND type = 'deposit' AND t >= ?`

	var sum sql.NullString
	if err := db.conn.QueryRowContext(ctx, query, userID, minT).Scan(&sum); err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to sum deposits: %w", err)
	}
	if !sum.Valid {
		return decimal.Zero, false, nil
	}

	d, err := decimal.NewFromString(sum.String)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to parse deposit sum %q: %w", sum.String, err)
	}
	return d, true, nil
}

// MaxTimestamp returns the largest stored `t`. The boolean is false when the
// store is empty. Used once at startup to seed the high-water mark guard.
func (db *DB) MaxTimestamp(ctx context.Context) (int64, bool, error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("max_timestamp", time.Since(start)) }()

	var maxT sql.NullInt64
	if err := db.conn.QueryRowContext(ctx, `SELECT MAX(t) FROM events`).Scan(&maxT); err != nil {
		return 0, false, fmt.Errorf("failed to query max timestamp: %w", err)
	}
	if !maxT.Valid {
		return 0, false, nil
	}
	return maxT.Int64, true, nil
}

// ListEvents retrieves stored events ordered by `t` ascending with
// limit/offset pagination.
func (db *DB) ListEvents(ctx context.Context, limit, offset int) ([]models.Event, error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("list_events", time.Since(start)) }()

	query := `
		SELECT id, user_id, CAST(amount AS VARCHAR), t, type, created_at
		FROM events
		ORDER BY t ASC
		LIMIT ? OFFSET ?`

	return db.queryEvents(ctx, query, limit, offset)
}

// CountEvents returns the total number of stored events.
func (db *DB) CountEvents(ctx context.Context) (int64, error) {
	start := time.Now()
	defer func() { metrics.ObserveDBQuery("count_events", time.Since(start)) }()

	var count int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// queryEvents runs an event SELECT and scans the rows.
func (db *DB) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			event     models.Event
			amount    string
			eventType string
		)
		if err := rows.Scan(&event.ID, &event.UserID, &amount, &event.T, &eventType, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		event.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		event.Type = models.EventType(eventType)

		events = append(events, event)
	}

	return events, rows.Err()
}
