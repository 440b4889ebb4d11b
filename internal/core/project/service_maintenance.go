// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project

import (
	"context"
	"log/slog"

	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
)

// ReindexSearchFields recomputes the derived search columns of every project.
// It returns the number of projects rewritten.
func (service *Service) ReindexSearchFields(context context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = constants.MaintenanceBatchSize
	}

	total := 0
	err := service.repo.ScanAll(context, batchSize, func(projects []*Project) error {
		if err := service.repo.UpdateSearchFields(context, projects); err != nil {
			return err
		}
		total += len(projects)
		return nil
	})
	if err != nil {
		return total, err
	}

	service.logger.InfoContext(context, "project_search_fields_rebuilt", slog.Int("projects", total))
	return total, nil
}

// SyncIndex pushes every public project into the hosted index and removes the rest.
// Unlike the write path, the first index error aborts the run.
func (service *Service) SyncIndex(context context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = constants.MaintenanceBatchSize
	}

	indexed := 0
	err := service.repo.ScanAll(context, batchSize, func(projects []*Project) error {
		for _, p := range projects {
			if p.Visibility != VisibilityPublic {
				if err := service.indexer.RemoveProject(context, p.ID); err != nil {
					return err
				}
				continue
			}
			if err := service.indexer.IndexProject(context, p); err != nil {
				return err
			}
			indexed++
		}
		return nil
	})
	if err != nil {
		return indexed, err
	}

	service.logger.InfoContext(context, "search_index_synced", slog.Int("indexed", indexed))
	return indexed, nil
}
