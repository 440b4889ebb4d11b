// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes classified by [Wrap].
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Wrap inspects a database error and converts it into an [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity in client messages (e.g. "Project").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			conflict := apperr.Conflict(resource + " already exists")
			conflict.Cause = err
			return conflict
		case codeForeignKeyViolation, codeCheckViolation:
			invalid := apperr.ValidationError(resource + " violates a data constraint")
			invalid.Cause = err
			return invalid
		}
	}

	return apperr.Internal(err)
}
