// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

// Command maintenance runs out-of-band repair jobs against the HWSphere database.
//
// # Usage
//
//	maintenance rebuild-tags   [-batch 500]  recompute core.tag from project rows
//	maintenance reindex-search [-batch 500]  rewrite titlelower, authorlower and tagkeys
//	maintenance sync-discover  [-batch 500]  push public projects to the hosted index
//
// Every job is idempotent and safe to rerun.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BryanPineda21/HWSphere/internal/core/discover"
	"github.com/BryanPineda21/HWSphere/internal/core/project"
	"github.com/BryanPineda21/HWSphere/internal/core/tag"
	"github.com/BryanPineda21/HWSphere/internal/platform/config"
	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
	pgstore "github.com/BryanPineda21/HWSphere/internal/platform/postgres"
)

const usage = `usage: maintenance <rebuild-tags|reindex-search|sync-discover> [-batch N]`

type job func(ctx context.Context, deps deps, batch int) error

type deps struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	projects *project.PostgresRepository
	log      *slog.Logger
}

var jobs = map[string]job{
	"rebuild-tags":   rebuildTags,
	"reindex-search": reindexSearch,
	"sync-discover":  syncDiscover,
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).
		With(slog.String("app", constants.AppName), slog.String("mode", "maintenance"))

	if err := run(log, os.Args[1:]); err != nil {
		log.Error("maintenance_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	name := args[0]
	selected, ok := jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q\n%s", name, usage)
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	batch := flags.Int("batch", constants.MaintenanceBatchSize, "rows per write batch")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	log = log.With(slog.String("job", name))
	log.Info("maintenance_started", slog.Int("batch", *batch))

	return selected(ctx, deps{
		cfg:      cfg,
		pool:     pool,
		projects: project.NewPostgresRepository(pool),
		log:      log,
	}, *batch)
}

func rebuildTags(ctx context.Context, d deps, batch int) error {
	ledger := tag.NewLedger(tag.NewPostgresRepository(d.pool), d.log)

	report, err := ledger.RebuildCounts(ctx, d.projects, batch)
	if err != nil {
		return err
	}

	d.log.Info("maintenance_finished",
		slog.Int("projects", report.Projects),
		slog.Int("tags", report.Tags),
		slog.Int64("deleted", report.Deleted),
	)
	return nil
}

func reindexSearch(ctx context.Context, d deps, batch int) error {
	updated, err := newProjectService(d, project.NopIndexer{}).ReindexSearchFields(ctx, batch)
	if err != nil {
		return err
	}

	d.log.Info("maintenance_finished", slog.Int("projects", updated))
	return nil
}

func syncDiscover(ctx context.Context, d deps, batch int) error {
	index := discover.New(d.cfg.SearchIndex, d.log)
	if !index.Enabled() {
		return errors.New("SEARCH_INDEX_HOST is not configured")
	}
	if err := index.EnsureCollection(ctx); err != nil {
		return err
	}

	synced, err := newProjectService(d, index).SyncIndex(ctx, batch)
	if err != nil {
		return err
	}

	d.log.Info("maintenance_finished", slog.Int("projects", synced))
	return nil
}

// newProjectService builds a service for bulk jobs. They never touch files
// or tag counts, so both collaborators are left unset.
func newProjectService(d deps, indexer project.Indexer) *project.Service {
	return project.NewService(d.projects, nil, nil, indexer, d.log)
}
