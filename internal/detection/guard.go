// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package detection

import "sync"

// HighWaterMark holds the largest logical timestamp accepted so far.
//
// It is the fast-path admission arbiter for event ordering: an incoming
// event whose `t` is at or below the mark is rejected without a storage
// round trip. It is NOT the sole source of the ordering invariant - the
// check-persist-advance sequence is not atomic across guard and store, so
// the UNIQUE constraint on `t` at the storage layer backstops true races.
//
// All methods are safe under arbitrary concurrent invocation. The guard is
// an explicitly constructed component passed into the coordinator, not an
// ambient singleton; lifecycle is init-at-startup / advance-per-accept /
// reset-for-tests.
type HighWaterMark struct {
	mu  sync.Mutex
	t   int64
	set bool
}

// NewHighWaterMark creates an empty guard.
func NewHighWaterMark() *HighWaterMark {
	return &HighWaterMark{}
}

// Initialize sets the stored value unconditionally. Used once at startup
// from the store's current maximum timestamp.
func (g *HighWaterMark) Initialize(t int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.t = t
	g.set = true
}

// Peek returns the current stored value without side effects. ok is false
// when the guard is empty.
func (g *HighWaterMark) Peek() (t int64, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t, g.set
}

// Advance raises the stored value to t when t is greater than the current
// value or the guard is empty; otherwise it is a no-op. Idempotent and
// monotonic: replaying Advance with any argument order leaves the guard at
// the maximum ever passed.
func (g *HighWaterMark) Advance(t int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.set || t > g.t {
		g.t = t
		g.set = true
	}
}

// Reset clears the stored value. Supports tests and reinitialization.
func (g *HighWaterMark) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.t = 0
	g.set = false
}
