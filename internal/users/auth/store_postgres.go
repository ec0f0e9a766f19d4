// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/database/schema"
	"github.com/avpech/yamdb-final/internal/platform/dberr"
	"github.com/avpech/yamdb-final/internal/platform/postgres"
)

// userConstraintMessages names the unique indexes of users.account.
var userConstraintMessages = dberr.Messages{
	"account_username_key":    "A user with this username already exists",
	"account_email_key":       "A user with this email already exists",
	"account_username_not_me": "Username \"me\" is reserved",
	"account_role_check":      "Unknown role",
}

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// selectColumns lists the columns scanned by [scanUser], in order.
func selectColumns() string {
	table := schema.UserAccount
	return strings.Join([]string{
		table.ID, table.Username, table.Email, table.FirstName, table.LastName,
		table.Bio, table.Role, table.DateJoined, table.UpdatedAt,
	}, ", ")
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.DateJoined,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// findBy loads a single account by an equality match on column.
func (repository *PostgresUserRepository) findBy(context context.Context, column string, value any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns(), schema.UserAccount.Table, column,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

// FindByID retrieves a user record by its primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

// FindByUsername retrieves a user record by its unique username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

// FindByEmail retrieves a user record by its unique email address.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

/*
Create persists a new user record into the users.account table.

Description: The database assigns the identity and the join timestamp. A
concurrent signup for the same username or email loses on the unique index
and surfaces as CONFLICT.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist; ID and DateJoined are filled in)

Returns:
  - error: apperr.Conflict on duplicate identity, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s`,
		table.Table,
		table.Username, table.Email, table.FirstName, table.LastName, table.Bio, table.Role,
		table.ID, table.DateJoined, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
	).Scan(&user.ID, &user.DateJoined, &user.UpdatedAt)

	if err != nil {
		return dberr.WrapWith(err, "User", userConstraintMessages)
	}
	return nil
}

/*
Update writes every mutable column of the account and refreshes updated_at.

Returns:
  - error: apperr.NotFound if the account vanished, apperr.Conflict on a taken
    username or email
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		table.Table,
		table.Username, table.Email, table.FirstName, table.LastName, table.Bio, table.Role, table.UpdatedAt,
		table.ID,
		table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
	).Scan(&user.UpdatedAt)

	if err != nil {
		return dberr.WrapWith(err, "User", userConstraintMessages)
	}
	return nil
}

// Delete removes the account row; foreign keys cascade to reviews and comments.
func (repository *PostgresUserRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

/*
List retrieves one page of accounts.

Description: Uses COUNT(*) OVER() so the page and the total come back in
a single round trip.

Returns:
  - []*User: Page of accounts ordered by join date
  - int: Total number of matching accounts
  - error: Database failures
*/
func (repository *PostgresUserRepository) List(context context.Context, filter UserFilter, limit, offset int) ([]*User, int, error) {
	table := schema.UserAccount

	var (
		conditions []string
		args       []any
	)

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, postgres.ContainsPattern(search))
		conditions = append(conditions, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, table.Username, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		%s
		ORDER BY %s, %s
		LIMIT $%d OFFSET $%d`,
		selectColumns(), table.Table, where,
		table.DateJoined, table.ID,
		len(args)-1, len(args),
	)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	total := 0
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.Bio, &user.Role, &user.DateJoined, &user.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	return users, total, nil
}
