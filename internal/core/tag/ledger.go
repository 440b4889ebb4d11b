// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package tag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
)

var ledgerFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hws_tag_ledger_failures_total",
	Help: "Tag ledger updates that failed after the project write succeeded.",
})

// Ledger keeps tag counts in step with project tag arrays.
type Ledger struct {
	repo   Repository
	logger *slog.Logger
}

// NewLedger creates a Ledger over repo.
func NewLedger(repo Repository, logger *slog.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		logger: logger.With(slog.String("component", "tag_ledger")),
	}
}

/*
UpdateTagCounts applies the difference between newTags and oldTags.

It issues no writes when the normalized sets are equal. Otherwise every
increment and decrement of the call is committed in one transaction.

Returns:
  - error: the repository failure, after it has been counted in
    hws_tag_ledger_failures_total
*/
func (ledger *Ledger) UpdateTagCounts(context context.Context, newTags, oldTags []string) error {
	toAdd, toRemove := Diff(newTags, oldTags)
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return nil
	}

	if err := ledger.repo.ApplyDelta(context, toAdd, toRemove); err != nil {
		ledgerFailuresTotal.Inc()
		return fmt.Errorf("tag: apply delta: %w", err)
	}

	ledger.logger.DebugContext(context, "tag_counts_updated",
		slog.Int("added", len(toAdd)),
		slog.Int("removed", len(toRemove)),
	)
	return nil
}

// RebuildReport summarizes one [Ledger.RebuildCounts] run.
type RebuildReport struct {
	Projects int
	Tags     int
	Deleted  int64
}

/*
RebuildCounts recomputes every tag count from scratch by scanning all projects.

Counts are written in transactions of batchSize rows, then tags no project
carries any more are deleted. Running it twice yields the same table.

Parameters:
  - source: the project scan
  - batchSize: rows per write transaction; non-positive means 500
*/
func (ledger *Ledger) RebuildCounts(context context.Context, source Source, batchSize int) (RebuildReport, error) {
	if batchSize <= 0 {
		batchSize = constants.MaintenanceBatchSize
	}

	var report RebuildReport
	counts := make(map[string]int)
	var order []Entry

	err := source.EachProjectTags(context, batchSize, func(page [][]string) error {
		for _, tags := range page {
			report.Projects++
			for _, entry := range Entries(tags) {
				if _, ok := counts[entry.ID]; !ok {
					order = append(order, entry)
				}
				counts[entry.ID]++
			}
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("tag: scan projects: %w", err)
	}

	if err := ledger.repo.WriteCounts(context, order, counts, batchSize); err != nil {
		return report, fmt.Errorf("tag: write counts: %w", err)
	}

	keep := make([]string, len(order))
	for i, entry := range order {
		keep[i] = entry.ID
	}

	deleted, err := ledger.repo.DeleteExcept(context, keep)
	if err != nil {
		return report, fmt.Errorf("tag: delete orphans: %w", err)
	}

	report.Tags = len(order)
	report.Deleted = deleted

	ledger.logger.InfoContext(context, "tag_counts_rebuilt",
		slog.Int("projects", report.Projects),
		slog.Int("tags", report.Tags),
		slog.Int64("deleted", report.Deleted),
	)
	return report, nil
}
