// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/database/schema"
	"github.com/BryanPineda21/HWSphere/internal/platform/dberr"
)

const resourceName = "User"

// # User Repository

// PostgresUserRepository implements [UserRepository] against users.account.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a user repository over pool.
func NewUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var userColumns = schema.List(schema.UserAccount.Columns())

/*
Create implements [UserRepository].

Description: The LOWER() unique indexes reject usernames and emails that
differ only in case; the violation maps to CONFLICT.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	c := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		c.Table,
		c.ID, c.Username, c.Email, c.Password, c.DisplayName, c.Bio,
		c.CreatedAt, c.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.DisplayName, user.Bio,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.ID+" = $1", id)
}

// FindByUsername implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, fmt.Sprintf("LOWER(%s) = LOWER($1)", schema.UserAccount.Username), username)
}

// FindByEmail implements [UserRepository].
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, fmt.Sprintf("LOWER(%s) = LOWER($1)", schema.UserAccount.Email), email)
}

// UpdateProfile implements [UserRepository].
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, user *User) error {
	c := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		c.Table, c.DisplayName, c.Bio, c.UpdatedAt, c.ID, c.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, user.ID, user.DisplayName, user.Bio).Scan(&user.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

// TouchLastLogin implements [UserRepository].
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	c := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, c.Table, c.LastLoginAt, c.ID)

	tag, err := repository.db.Exec(context, query, id, at)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceName)
	}
	return nil
}

// # Helpers

func (repository *PostgresUserRepository) findOne(context context.Context, where string, arg any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, userColumns, schema.UserAccount.Table, where)

	user, err := scanUser(repository.db.QueryRow(context, query, arg))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return user, nil
}

// scanUser reads the columns in [schema.UserAccountTable.Columns] order.
func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Bio,
		&user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
