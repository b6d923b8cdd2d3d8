// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package ingest

import "fmt"

// OrderingViolationError rejects an event whose timestamp does not advance
// the stream. Nothing is persisted and the high-water mark is unchanged.
type OrderingViolationError struct {
	T    int64
	Mark int64
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf("event timestamp %d does not advance high-water mark %d", e.T, e.Mark)
}

// StorageError wraps a persistence failure. The event was not stored.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("event storage failed: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// EvaluationError wraps a rule evaluation failure. The event WAS persisted
// and the high-water mark advanced before evaluation ran; only the alert
// outcome is unknown.
type EvaluationError struct {
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("rule evaluation failed: %v", e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
