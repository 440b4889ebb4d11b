// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BryanPineda21/HWSphere/internal/platform/database/schema"
	"github.com/BryanPineda21/HWSphere/internal/platform/dberr"
	"github.com/BryanPineda21/HWSphere/internal/platform/postgres"
)

const resourceName = "Project"

// PostgresRepository implements [Repository] against core.project.
// It also serves the search sub-queries and the tag rebuild scan.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a project repository over pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = schema.List(schema.CoreProject.Columns())

/*
Create implements [Repository].

Description: Inserts the record with its derived search columns and reads the
server-assigned timestamps back into p.
*/
func (repository *PostgresRepository) Create(context context.Context, p *Project, fields SearchFields) error {
	c := schema.CoreProject
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s,
			%s, %s, %s
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING %s, %s`,
		c.Table,
		c.ID, c.Title, c.Description, c.Tags, c.Visibility, c.OwnerID, c.Author, c.IsPinned,
		c.CodeURL, c.ModelURL, c.PDFURL, c.VideoURL, c.ThumbnailURL,
		c.TitleLower, c.AuthorLower, c.TagKeys,
		c.CreatedAt, c.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		p.ID, p.Title, p.Description, nonNil(p.Tags), p.Visibility, p.OwnerID, p.Author, p.IsPinned,
		p.CodeURL, p.ModelURL, p.PDFURL, p.VideoURL, p.ThumbnailURL,
		fields.TitleLower, fields.AuthorLower, nonNil(fields.TagKeys),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.CoreProject.Table, schema.CoreProject.ID,
	)

	p, err := scanProject(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return p, nil
}

// Update implements [Repository]. Counters are never written here.
func (repository *PostgresRepository) Update(context context.Context, p *Project, fields SearchFields) error {
	c := schema.CoreProject
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6,
			%s = $7, %s = $8, %s = $9, %s = $10, %s = $11,
			%s = $12, %s = $13, %s = $14,
			%s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		c.Table,
		c.Title, c.Description, c.Tags, c.Visibility, c.IsPinned,
		c.CodeURL, c.ModelURL, c.PDFURL, c.VideoURL, c.ThumbnailURL,
		c.TitleLower, c.AuthorLower, c.TagKeys,
		c.UpdatedAt,
		c.ID,
		c.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		p.ID, p.Title, p.Description, nonNil(p.Tags), p.Visibility, p.IsPinned,
		p.CodeURL, p.ModelURL, p.PDFURL, p.VideoURL, p.ThumbnailURL,
		fields.TitleLower, fields.AuthorLower, nonNil(fields.TagKeys),
	).Scan(&p.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreProject.Table, schema.CoreProject.ID)

	result, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceName)
	}
	return nil
}

// ListByOwner implements [Repository].
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string, publicOnly bool) ([]*Project, error) {
	c := schema.CoreProject
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, c.Table, c.OwnerID)
	if publicOnly {
		query += fmt.Sprintf(` AND %s = '%s'`, c.Visibility, VisibilityPublic)
	}
	query += fmt.Sprintf(` ORDER BY %s DESC, %s DESC`, c.CreatedAt, c.ID)

	return repository.queryProjects(context, query, ownerID)
}

/*
List implements [Repository].

Description: Builds a keyset query over public rows. newest and featured
resume on (createdat, id); trending orders by likes, then views, and resumes
on (likecount, id) only, so rows with equal likes and different views can be
skipped or repeated across pages.
*/
func (repository *PostgresRepository) List(context context.Context, options ListOptions) ([]*Project, error) {
	c := schema.CoreProject

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, c.Table, c.Visibility))
	args := []any{VisibilityPublic}
	argID := 2

	if options.Tag != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND %s @> ARRAY[$%d]::text[]`, c.TagKeys, argID))
		args = append(args, options.Tag)
		argID++
	}

	if options.FilterType == FilterFeatured {
		queryBuilder.WriteString(fmt.Sprintf(` AND %s = TRUE`, c.IsPinned))
	}

	var order string
	switch options.FilterType {
	case FilterNewest, FilterFeatured:
		if options.After != nil {
			queryBuilder.WriteString(fmt.Sprintf(` AND (%s, %s) < ($%d, $%d)`, c.CreatedAt, c.ID, argID, argID+1))
			args = append(args, options.After.CreatedAt, options.After.ID)
			argID += 2
		}
		order = fmt.Sprintf(`%s DESC, %s DESC`, c.CreatedAt, c.ID)
	default:
		if options.After != nil {
			queryBuilder.WriteString(fmt.Sprintf(` AND (%s, %s) < ($%d, $%d)`, c.LikeCount, c.ID, argID, argID+1))
			args = append(args, options.After.LikeCount, options.After.ID)
			argID += 2
		}
		order = fmt.Sprintf(`%s DESC, %s DESC, %s DESC`, c.LikeCount, c.ViewCount, c.ID)
	}

	queryBuilder.WriteString(fmt.Sprintf(` ORDER BY %s LIMIT $%d`, order, argID))
	args = append(args, options.PageSize)

	return repository.queryProjects(context, queryBuilder.String(), args...)
}

// IncrementViewCount implements [Repository].
func (repository *PostgresRepository) IncrementViewCount(context context.Context, id string) error {
	c := schema.CoreProject
	query := fmt.Sprintf(`UPDATE %[1]s SET %[2]s = %[2]s + 1 WHERE %[3]s = $1`, c.Table, c.ViewCount, c.ID)

	_, err := repository.db.Exec(context, query, id)
	return dberr.Wrap(err, resourceName)
}

// ScanAll implements [Repository] with keyset pagination on id.
func (repository *PostgresRepository) ScanAll(context context.Context, batchSize int, fn func([]*Project) error) error {
	c := schema.CoreProject
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s > $1 ORDER BY %s LIMIT $2`, selectColumns, c.Table, c.ID, c.ID)

	after := ""
	for {
		projects, err := repository.queryProjects(context, query, after, batchSize)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			return nil
		}
		if err := fn(projects); err != nil {
			return err
		}
		if len(projects) < batchSize {
			return nil
		}
		after = projects[len(projects)-1].ID
	}
}

// UpdateSearchFields implements [Repository] as one batch in one transaction.
func (repository *PostgresRepository) UpdateSearchFields(context context.Context, projects []*Project) error {
	c := schema.CoreProject
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		c.Table, c.TitleLower, c.AuthorLower, c.TagKeys, c.ID,
	)

	batch := &pgx.Batch{}
	for _, p := range projects {
		fields := DeriveSearchFields(p)
		batch.Queue(query, p.ID, fields.TitleLower, fields.AuthorLower, nonNil(fields.TagKeys))
	}

	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		return dberr.Wrap(tx.SendBatch(context, batch).Close(), resourceName)
	})
}

// EachProjectTags streams the tag arrays of every project for the tag rebuild.
func (repository *PostgresRepository) EachProjectTags(context context.Context, batchSize int, fn func([][]string) error) error {
	c := schema.CoreProject
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s > $1 ORDER BY %s LIMIT $2`,
		c.ID, c.Tags, c.Table, c.ID, c.ID,
	)

	after := ""
	for {
		rows, err := repository.db.Query(context, query, after, batchSize)
		if err != nil {
			return dberr.Wrap(err, resourceName)
		}

		var batch [][]string
		for rows.Next() {
			var tags []string
			if err := rows.Scan(&after, &tags); err != nil {
				rows.Close()
				return dberr.Wrap(err, resourceName)
			}
			batch = append(batch, tags)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return dberr.Wrap(err, resourceName)
		}

		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		if len(batch) < batchSize {
			return nil
		}
	}
}

// # Helpers

func (repository *PostgresRepository) queryProjects(context context.Context, query string, args ...any) ([]*Project, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	projects := make([]*Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceName)
		}
		projects = append(projects, p)
	}
	return projects, dberr.Wrap(rows.Err(), resourceName)
}

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Tags, &p.Visibility, &p.OwnerID, &p.Author,
		&p.IsPinned, &p.CommentCount, &p.LikeCount, &p.ViewCount,
		&p.CodeURL, &p.ModelURL, &p.PDFURL, &p.VideoURL, &p.ThumbnailURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
