// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project

import (
	"context"
	"fmt"

	"github.com/BryanPineda21/HWSphere/internal/core/tag"
	"github.com/BryanPineda21/HWSphere/internal/platform/database/schema"
)

// prefixUpperBound closes a prefix range; the "C" collation sorts it after every BMP character.
const prefixUpperBound = "\uffff"

// TitlePrefix returns public projects whose lowercased title starts with prefix.
func (repository *PostgresRepository) TitlePrefix(context context.Context, prefix, tagFilter string, limit int) ([]*Project, error) {
	return repository.prefixQuery(context, schema.CoreProject.TitleLower, prefix, tagFilter, limit)
}

// AuthorPrefix returns public projects whose lowercased author starts with prefix.
func (repository *PostgresRepository) AuthorPrefix(context context.Context, prefix, tagFilter string, limit int) ([]*Project, error) {
	return repository.prefixQuery(context, schema.CoreProject.AuthorLower, prefix, tagFilter, limit)
}

// TagsAny returns public projects carrying any of terms as a tag key.
func (repository *PostgresRepository) TagsAny(context context.Context, terms []string, tagFilter string, limit int) ([]*Project, error) {
	c := schema.CoreProject
	query, args := publicScope(tagFilter)
	query += fmt.Sprintf(` AND %s && $%d::text[] ORDER BY %s DESC, %s DESC LIMIT $%d`,
		c.TagKeys, len(args)+1, c.CreatedAt, c.ID, len(args)+2)
	args = append(args, terms, limit)

	return repository.queryProjects(context, query, args...)
}

// Recent returns the newest public projects.
func (repository *PostgresRepository) Recent(context context.Context, tagFilter string, limit int) ([]*Project, error) {
	c := schema.CoreProject
	query, args := publicScope(tagFilter)
	query += fmt.Sprintf(` ORDER BY %s DESC, %s DESC LIMIT $%d`, c.CreatedAt, c.ID, len(args)+1)
	args = append(args, limit)

	return repository.queryProjects(context, query, args...)
}

func (repository *PostgresRepository) prefixQuery(context context.Context, column, prefix, tagFilter string, limit int) ([]*Project, error) {
	query, args := publicScope(tagFilter)
	n := len(args)
	query += fmt.Sprintf(` AND %[1]s COLLATE "C" >= $%[2]d AND %[1]s COLLATE "C" < $%[3]d ORDER BY %[1]s COLLATE "C" LIMIT $%[4]d`,
		column, n+1, n+2, n+3)
	args = append(args, prefix, prefix+prefixUpperBound, limit)

	return repository.queryProjects(context, query, args...)
}

// publicScope starts a SELECT over public rows, optionally carrying tagFilter.
func publicScope(tagFilter string) (string, []any) {
	c := schema.CoreProject
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, c.Table, c.Visibility)
	args := []any{VisibilityPublic}

	if key := tag.Normalize(tagFilter); key != "" {
		query += fmt.Sprintf(` AND %s @> ARRAY[$2]::text[]`, c.TagKeys)
		args = append(args, key)
	}
	return query, args
}
