// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

package detection

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/ledgerwatch/internal/logging"
	"github.com/tomtom215/ledgerwatch/internal/metrics"
	"github.com/tomtom215/ledgerwatch/internal/models"
)

// Engine runs the full rule set against each accepted event.
//
// Evaluation is fail-fast: the first detector error aborts the run and no
// partial alert set is returned. A triggered rule is never an error - errors
// mean the rule could not be evaluated at all.
type Engine struct {
	detectors []Detector
}

// NewEngine creates an engine with the complete rule set wired to the given
// history. Detector order is fixed; the returned codes are sorted, so order
// here only affects which error surfaces first.
func NewEngine(history EventHistory) *Engine {
	return &Engine{
		detectors: []Detector{
			NewConsecutiveWithdrawalsDetector(history),
			NewDepositWindowDetector(history),
			NewIncreasingDepositsDetector(history),
			NewLargeWithdrawalDetector(),
		},
	}
}

// Evaluate runs every detector against the event and returns the triggered
// alert codes in ascending order. The slice is non-nil even when empty so
// callers can marshal it directly.
func (e *Engine) Evaluate(ctx context.Context, event *models.Event) ([]models.AlertCode, error) {
	start := time.Now()

	codes := make([]models.AlertCode, 0, len(e.detectors))
	for _, d := range e.detectors {
		triggered, err := d.Check(ctx, event)
		if err != nil {
			return nil, fmt.Errorf("detector %s: %w", d.Name(), err)
		}
		if triggered {
			codes = append(codes, d.Code())
			metrics.RecordAlert(int(d.Code()))
			logging.Ctx(ctx).Info().
				Str("detector", d.Name()).
				Int("code", int(d.Code())).
				Int64("user_id", event.UserID).
				Int64("t", event.T).
				Msg("Alert triggered")
		}
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	metrics.ObserveEvaluation(time.Since(start))

	return codes, nil
}
