// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

// Package ingest coordinates event admission: ordering check, persistence,
// high-water mark advancement, and rule evaluation, in that order.
package ingest

import (
	"context"
	"errors"

	"github.com/tomtom215/ledgerwatch/internal/database"
	"github.com/tomtom215/ledgerwatch/internal/detection"
	"github.com/tomtom215/ledgerwatch/internal/logging"
	"github.com/tomtom215/ledgerwatch/internal/metrics"
	"github.com/tomtom215/ledgerwatch/internal/models"
)

// EventStore is the persistence surface the coordinator needs.
// Implemented by the database package; mocked in tests.
type EventStore interface {
	AppendEvent(ctx context.Context, event *models.Event) (*models.Event, error)
}

// RuleEngine evaluates the full rule set against an accepted event.
type RuleEngine interface {
	Evaluate(ctx context.Context, event *models.Event) ([]models.AlertCode, error)
}

// IngestResult is the outcome of a successfully admitted event.
type IngestResult struct {
	UserID     int64
	Alert      bool
	AlertCodes []models.AlertCode
}

// Coordinator serializes the admit / persist / advance / evaluate sequence
// for one event at a time per call. The guard gives a cheap fast-path
// rejection; the UNIQUE constraint on `t` in the store catches the window
// where two in-flight events pass the guard with the same timestamp.
type Coordinator struct {
	store  EventStore
	guard  *detection.HighWaterMark
	engine RuleEngine
}

// NewCoordinator creates a coordinator. The guard must already be
// initialized from the store's maximum timestamp when the store is
// non-empty.
func NewCoordinator(store EventStore, guard *detection.HighWaterMark, engine RuleEngine) *Coordinator {
	return &Coordinator{
		store:  store,
		guard:  guard,
		engine: engine,
	}
}

// Ingest admits one event through the full pipeline.
//
// Rejections are typed: OrderingViolationError means nothing was persisted;
// StorageError means persistence itself failed; EvaluationError means the
// event is durably stored and counted against the high-water mark, but the
// alert outcome is unknown.
func (c *Coordinator) Ingest(ctx context.Context, event *models.Event) (*IngestResult, error) {
	log := logging.Ctx(ctx)

	if mark, ok := c.guard.Peek(); ok && event.T <= mark {
		metrics.RecordEventRejected("ordering_violation")
		log.Warn().
			Int64("t", event.T).
			Int64("mark", mark).
			Int64("user_id", event.UserID).
			Msg("Event rejected: stale timestamp")
		return nil, &OrderingViolationError{T: event.T, Mark: mark}
	}

	stored, err := c.store.AppendEvent(ctx, event)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateTimestamp) {
			// Lost the race between Peek and insert. Same contract as the
			// fast-path rejection: the other event owns this timestamp, and
			// its own ingest advances the guard.
			metrics.RecordEventRejected("duplicate_timestamp")
			log.Warn().
				Int64("t", event.T).
				Int64("user_id", event.UserID).
				Msg("Event rejected: timestamp already stored")
			return nil, &OrderingViolationError{T: event.T, Mark: event.T}
		}
		return nil, &StorageError{Err: err}
	}

	c.guard.Advance(stored.T)
	metrics.RecordEventAccepted(string(stored.Type))

	codes, err := c.engine.Evaluate(ctx, stored)
	if err != nil {
		// The event is already durable; callers must not retry it.
		log.Error().
			Err(err).
			Int64("t", stored.T).
			Int64("user_id", stored.UserID).
			Msg("Rule evaluation failed for persisted event")
		return nil, &EvaluationError{Err: err}
	}

	return &IngestResult{
		UserID:     stored.UserID,
		Alert:      len(codes) > 0,
		AlertCodes: codes,
	}, nil
}
