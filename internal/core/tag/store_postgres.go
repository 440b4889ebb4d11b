// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BryanPineda21/HWSphere/internal/platform/database/schema"
	"github.com/BryanPineda21/HWSphere/internal/platform/dberr"
	"github.com/BryanPineda21/HWSphere/internal/platform/postgres"
)

// PostgresRepository implements [Repository] against core.tag.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a tag repository over pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	// Create-or-increment in one statement; concurrent adds of the same tag serialize on the row.
	incrementQuery = fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s)
		VALUES ($1, $2, 1, NOW(), NOW())
		ON CONFLICT (%[2]s) DO UPDATE
		SET %[4]s = %[1]s.%[4]s + 1, %[6]s = NOW()`,
		schema.CoreTag.Table, schema.CoreTag.ID, schema.CoreTag.Name,
		schema.CoreTag.Count, schema.CoreTag.CreatedAt, schema.CoreTag.UpdatedAt,
	)

	// Delete must run before decrement, so a count of 2 is not first dropped to 1 and then deleted.
	deleteLastQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s <= 1`,
		schema.CoreTag.Table, schema.CoreTag.ID, schema.CoreTag.Count,
	)
	decrementQuery = fmt.Sprintf(`UPDATE %[1]s SET %[3]s = %[3]s - 1, %[4]s = NOW() WHERE %[2]s = $1 AND %[3]s > 1`,
		schema.CoreTag.Table, schema.CoreTag.ID, schema.CoreTag.Count, schema.CoreTag.UpdatedAt,
	)

	writeCountQuery = fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (%[2]s) DO UPDATE
		SET %[4]s = EXCLUDED.%[4]s, %[6]s = NOW()`,
		schema.CoreTag.Table, schema.CoreTag.ID, schema.CoreTag.Name,
		schema.CoreTag.Count, schema.CoreTag.CreatedAt, schema.CoreTag.UpdatedAt,
	)
)

// ApplyDelta implements [Repository] as one transaction carrying one batch.
func (repository *PostgresRepository) ApplyDelta(context context.Context, toAdd, toRemove []Entry) error {
	batch := &pgx.Batch{}
	for _, entry := range toAdd {
		batch.Queue(incrementQuery, entry.ID, entry.Name)
	}
	for _, entry := range toRemove {
		batch.Queue(deleteLastQuery, entry.ID)
		batch.Queue(decrementQuery, entry.ID)
	}

	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		if err := tx.SendBatch(context, batch).Close(); err != nil {
			return dberr.Wrap(err, "Tag")
		}
		return nil
	})
}

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context) ([]*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s ASC`,
		schema.List(schema.CoreTag.Columns()), schema.CoreTag.Table,
		schema.CoreTag.Count, schema.CoreTag.Name,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Tag")
		}
		tags = append(tags, tag)
	}
	return tags, dberr.Wrap(rows.Err(), "Tag")
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.List(schema.CoreTag.Columns()), schema.CoreTag.Table, schema.CoreTag.ID,
	)

	tag, err := scanTag(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Tag")
	}
	return tag, nil
}

// WriteCounts implements [Repository]; each chunk of batchSize rows is its own transaction.
func (repository *PostgresRepository) WriteCounts(context context.Context, tags []Entry, counts map[string]int, batchSize int) error {
	for start := 0; start < len(tags); start += batchSize {
		end := min(start+batchSize, len(tags))

		batch := &pgx.Batch{}
		for _, entry := range tags[start:end] {
			batch.Queue(writeCountQuery, entry.ID, entry.Name, counts[entry.ID])
		}

		err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
			return tx.SendBatch(context, batch).Close()
		})
		if err != nil {
			return dberr.Wrap(err, "Tag")
		}
	}
	return nil
}

// DeleteExcept implements [Repository].
func (repository *PostgresRepository) DeleteExcept(context context.Context, keep []string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE NOT (%s = ANY($1))`, schema.CoreTag.Table, schema.CoreTag.ID)

	if keep == nil {
		keep = []string{}
	}
	result, err := repository.db.Exec(context, query, keep)
	if err != nil {
		return 0, dberr.Wrap(err, "Tag")
	}
	return result.RowsAffected(), nil
}

func scanTag(row pgx.Row) (*Tag, error) {
	tag := &Tag{}
	err := row.Scan(&tag.ID, &tag.Name, &tag.Count, &tag.CreatedAt, &tag.UpdatedAt)
	return tag, err
}
