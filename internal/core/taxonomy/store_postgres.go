// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/dberr"
	"github.com/avpech/yamdb-final/internal/platform/postgres"
)

// taxonomyConstraintMessages names the slug indexes of both tables.
var taxonomyConstraintMessages = dberr.Messages{
	"category_slug_key": "A category with this slug already exists",
	"genre_slug_key":    "A genre with this slug already exists",
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed taxonomy store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns one page of entries, using COUNT(*) OVER() for the total.
func (repository *PostgresRepository) List(context context.Context, kind Kind, search string, limit, offset int) ([]*Taxonomy, int, error) {
	table := kind.table()
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE ($1 = '' OR %s ILIKE $4 ESCAPE '\')
		ORDER BY %s ASC, %s ASC
		LIMIT $2 OFFSET $3`,
		table.ID, table.Name, table.Slug,
		table.Table,
		table.Name,
		table.Name, table.ID,
	)

	rows, err := repository.pool.Query(context, query, search, limit, offset, postgres.ContainsPattern(search))
	if err != nil {
		return nil, 0, dberr.Wrap(err, kind.Label())
	}
	defer rows.Close()

	entries := make([]*Taxonomy, 0)
	total := 0
	for rows.Next() {
		entry := &Taxonomy{}
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, kind.Label())
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, kind.Label())
	}

	return entries, total, nil
}

// FindBySlugs resolves a set of slugs in one round-trip.
func (repository *PostgresRepository) FindBySlugs(context context.Context, kind Kind, slugs []string) ([]*Taxonomy, error) {
	if len(slugs) == 0 {
		return []*Taxonomy{}, nil
	}

	table := kind.table()
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		table.ID, table.Name, table.Slug, table.Table, table.Slug, table.Name,
	)

	rows, err := repository.pool.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, kind.Label())
	}
	defer rows.Close()

	entries := make([]*Taxonomy, 0, len(slugs))
	for rows.Next() {
		entry := &Taxonomy{}
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Slug); err != nil {
			return nil, dberr.Wrap(err, kind.Label())
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, kind.Label())
	}

	return entries, nil
}

// Create inserts entry. The slug index decides concurrent duplicates.
func (repository *PostgresRepository) Create(context context.Context, kind Kind, entry *Taxonomy) error {
	table := kind.table()
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		table.Table, table.Name, table.Slug, table.ID,
	)

	err := repository.pool.QueryRow(context, query, entry.Name, entry.Slug).Scan(&entry.ID)
	if err != nil {
		return dberr.WrapWith(err, kind.Label(), taxonomyConstraintMessages)
	}
	return nil
}

// DeleteBySlug removes an entry. Foreign keys null or drop the references.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, kind Kind, slug string) error {
	table := kind.table()
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, kind.Label())
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(kind.Label())
	}
	return nil
}
