// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avpech/yamdb-final/internal/core/taxonomy"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/database/schema"
	"github.com/avpech/yamdb-final/internal/platform/dberr"
	"github.com/avpech/yamdb-final/internal/platform/postgres"
)

const resourceName = "Title"

// titleConstraintMessages covers a category deleted between resolution and write.
var titleConstraintMessages = dberr.Messages{
	"title_category_id_fkey":    "Category no longer exists",
	"title_genre_genre_id_fkey": "Genre no longer exists",
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed title store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
titleColumns is the projection shared by List and FindByID.

The category comes from a LEFT JOIN (it may be null), the genres are
aggregated into a JSON array in a sub-query, and the rating is the live
average of review scores (NULL with no reviews).
*/
var titleColumns = fmt.Sprintf(`
		t.%s, t.%s, t.%s, t.%s,
		c.%s, c.%s, c.%s,
		(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS rating,
		COALESCE((
			SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s tg ON tg.%s = g.%s
			WHERE tg.%s = t.%s
		), '[]') AS genres`,
	schema.CatalogTitle.ID, schema.CatalogTitle.Name, schema.CatalogTitle.Year, schema.CatalogTitle.Description,
	schema.CatalogCategory.ID, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
	schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID, schema.CatalogTitle.ID,
	schema.CatalogGenre.Name, schema.CatalogGenre.Slug, schema.CatalogGenre.Name,
	schema.CatalogGenre.Table,
	schema.CatalogTitleGenre.Table, schema.CatalogTitleGenre.GenreID, schema.CatalogGenre.ID,
	schema.CatalogTitleGenre.TitleID, schema.CatalogTitle.ID,
)

// titleSource joins the optional category onto the title.
var titleSource = fmt.Sprintf(`
	FROM %s t
	LEFT JOIN %s c ON c.%s = t.%s`,
	schema.CatalogTitle.Table,
	schema.CatalogCategory.Table, schema.CatalogCategory.ID, schema.CatalogTitle.CategoryID,
)

// scanTitle reads one row of [titleColumns], plus any trailing columns in extra.
func scanTitle(row pgx.Row, extra ...any) (*Title, error) {
	title := &Title{}
	var (
		categoryID   *int64
		categoryName *string
		categorySlug *string
		genresJSON   []byte
	)

	dest := []any{
		&title.ID, &title.Name, &title.Year, &title.Description,
		&categoryID, &categoryName, &categorySlug,
		&title.Rating,
		&genresJSON,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if categoryID != nil {
		title.Category = &taxonomy.Taxonomy{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	title.Genres = make([]taxonomy.Taxonomy, 0)
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal genres: %w", err)
	}
	return title, nil
}

/*
List returns a filtered, paginated slice of titles and the total count.

Description: Filters are appended as parameterised WHERE clauses. The total
comes from COUNT(*) OVER() in the same round-trip.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString("SELECT " + titleColumns + ", COUNT(*) OVER() AS total_count" + titleSource)
	queryBuilder.WriteString(" WHERE TRUE")

	// Category slug
	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CatalogCategory.Slug, argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	// Genre slug
	if filter.GenreSlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s
			WHERE tg.%s = t.%s AND g.%s = $%d)`,
			schema.CatalogTitleGenre.Table, schema.CatalogGenre.Table, schema.CatalogGenre.ID, schema.CatalogTitleGenre.GenreID,
			schema.CatalogTitleGenre.TitleID, schema.CatalogTitle.ID, schema.CatalogGenre.Slug, argID,
		))
		args = append(args, filter.GenreSlug)
		argID++
	}

	// Name substring
	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND t.%s ILIKE $%d ESCAPE '\'`, schema.CatalogTitle.Name, argID))
		args = append(args, postgres.ContainsPattern(filter.Name))
		argID++
	}

	// Exact year
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CatalogTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s ASC, t.%s ASC LIMIT $%d OFFSET $%d",
		schema.CatalogTitle.Name, schema.CatalogTitle.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	total := 0
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	return titles, total, nil
}

// FindByID returns a single title. NOT_FOUND when absent.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := "SELECT " + titleColumns + titleSource + fmt.Sprintf(" WHERE t.%s = $1", schema.CatalogTitle.ID)

	title, err := scanTitle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return title, nil
}

/*
Create persists a title and its genre links in one transaction.

Returns:
  - int64: The new title ID
  - error: NOT_FOUND when a referenced category or genre vanished, or database errors
*/
func (repository *PostgresRepository) Create(context context.Context, record *Record) (int64, error) {
	table := schema.CatalogTitle
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		table.Table, table.Name, table.Year, table.Description, table.CategoryID,
		table.ID,
	)

	var id int64
	err := postgres.Transact(context, repository.pool, func(transaction pgx.Tx) error {
		if err := transaction.QueryRow(context, query,
			record.Name, record.Year, record.Description, record.CategoryID,
		).Scan(&id); err != nil {
			return err
		}
		return insertGenres(context, transaction, id, record.GenreIDs)
	})
	if err != nil {
		return 0, dberr.WrapWith(err, resourceName, titleConstraintMessages)
	}
	return id, nil
}

/*
Update rewrites a title's columns and, when record.ReplaceGenres is set, its
whole genre set. Both happen in one transaction.
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, record *Record) error {
	table := schema.CatalogTitle
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4
		WHERE %s = $5`,
		table.Table, table.Name, table.Year, table.Description, table.CategoryID,
		table.ID,
	)

	err := postgres.Transact(context, repository.pool, func(transaction pgx.Tx) error {
		tag, err := transaction.Exec(context, query, record.Name, record.Year, record.Description, record.CategoryID, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound(resourceName)
		}

		if !record.ReplaceGenres {
			return nil
		}

		// ── Replace the genre set ─────────────────────────────────────────
		junction := schema.CatalogTitleGenre
		if _, err := transaction.Exec(context,
			fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, junction.Table, junction.TitleID), id,
		); err != nil {
			return err
		}
		return insertGenres(context, transaction, id, record.GenreIDs)
	})
	if err != nil {
		return dberr.WrapWith(err, resourceName, titleConstraintMessages)
	}
	return nil
}

// Delete removes a title; the foreign keys cascade to reviews and comments.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogTitle.Table, schema.CatalogTitle.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceName)
	}
	return nil
}

// insertGenres links genreIDs to a title with a pipelined batch.
func insertGenres(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	junction := schema.CatalogTitleGenre
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		junction.Table, junction.TitleID, junction.GenreID,
	)

	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(query, titleID, genreID)
	}

	results := transaction.SendBatch(context, batch)
	defer results.Close()

	for range genreIDs {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}
