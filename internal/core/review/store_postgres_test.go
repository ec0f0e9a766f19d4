// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpech/yamdb-final/internal/core/review"
	"github.com/avpech/yamdb-final/internal/core/taxonomy"
	"github.com/avpech/yamdb-final/internal/core/title"
	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/migration"
	pgstore "github.com/avpech/yamdb-final/internal/platform/postgres"
	"github.com/avpech/yamdb-final/internal/platform/sec"
	"github.com/avpech/yamdb-final/internal/users/auth"
)

// openTestDatabase rebuilds the schema of the database named by
// TEST_DATABASE_URL, or skips the test when it is unset.
func openTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, migration.Reset(dsn, "../../../data/migrations", logger))

	pool, err := pgstore.NewPool(context.Background(), dsn, pgstore.Options{MaxConns: 10}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type postgresFixture struct {
	pool     *pgxpool.Pool
	reviews  *review.Service
	titles   *title.PostgresRepository
	category *taxonomy.Taxonomy
	titleID  int64
	authors  []*auth.User
}

func newPostgresFixture(t *testing.T) *postgresFixture {
	t.Helper()
	ctx := context.Background()
	pool := openTestDatabase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := auth.NewUserRepository(pool)
	fixture := &postgresFixture{
		pool:    pool,
		reviews: review.NewService(review.NewReviewRepository(pool), review.NewCommentRepository(pool), logger),
		titles:  title.NewPostgresRepository(pool),
	}

	for _, name := range []string{"alice", "bob"} {
		user := &auth.User{Username: name, Email: name + "@example.com", Role: sec.RoleUser}
		require.NoError(t, users.Create(ctx, user))
		fixture.authors = append(fixture.authors, user)
	}

	taxonomies := taxonomy.NewPostgresRepository(pool)
	fixture.category = &taxonomy.Taxonomy{Name: "Films", Slug: "films"}
	require.NoError(t, taxonomies.Create(ctx, taxonomy.Category, fixture.category))
	drama := &taxonomy.Taxonomy{Name: "Drama", Slug: "drama"}
	require.NoError(t, taxonomies.Create(ctx, taxonomy.Genre, drama))

	titleID, err := fixture.titles.Create(ctx, &title.Record{
		Name:       "Ikiru",
		Year:       1952,
		CategoryID: &fixture.category.ID,
		GenreIDs:   []int64{drama.ID},
	})
	require.NoError(t, err)
	fixture.titleID = titleID
	return fixture
}

func (fixture *postgresFixture) actor(index int) access.Actor {
	return access.Authenticated(fixture.authors[index].ID, sec.RoleUser)
}

/*
TestPostgres_RatingAndCascade exercises the relational rules end to end.
*/
func TestPostgres_RatingAndCascade(t *testing.T) {
	fixture := newPostgresFixture(t)
	ctx := context.Background()

	// 1. Reviews feed the computed rating
	first, err := fixture.reviews.CreateReview(ctx, fixture.actor(0), fixture.titleID, review.CreateReviewInput{Text: "Moving", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Author)
	_, err = fixture.reviews.CreateReview(ctx, fixture.actor(1), fixture.titleID, review.CreateReviewInput{Text: "Slow", Score: 6})
	require.NoError(t, err)

	loaded, err := fixture.titles.FindByID(ctx, fixture.titleID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Rating)
	assert.InDelta(t, 7.5, *loaded.Rating, 1e-9)

	rating, err := fixture.reviews.ComputeRating(ctx, fixture.titleID)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, *rating, 1e-9)

	// 2. Duplicate (author, title) is a conflict
	_, err = fixture.reviews.CreateReview(ctx, fixture.actor(0), fixture.titleID, review.CreateReviewInput{Text: "Again", Score: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	// 3. Deleting the category keeps the title
	_, err = fixture.pool.Exec(ctx, `DELETE FROM catalog.category WHERE id = $1`, fixture.category.ID)
	require.NoError(t, err)
	loaded, err = fixture.titles.FindByID(ctx, fixture.titleID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Category)

	// 4. Deleting the title removes its reviews and their comments
	_, err = fixture.reviews.CreateComment(ctx, fixture.actor(1), fixture.titleID, first.ID, "Agreed")
	require.NoError(t, err)
	require.NoError(t, fixture.titles.Delete(ctx, fixture.titleID))

	var remaining int
	require.NoError(t, fixture.pool.QueryRow(ctx, `SELECT (SELECT COUNT(*) FROM social.review) + (SELECT COUNT(*) FROM social.comment)`).Scan(&remaining))
	assert.Zero(t, remaining)
}

/*
TestPostgres_ConcurrentReviews races one author against the unique index.
*/
func TestPostgres_ConcurrentReviews(t *testing.T) {
	fixture := newPostgresFixture(t)
	const attempts = 8

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fixture.reviews.CreateReview(context.Background(), fixture.actor(0), fixture.titleID, review.CreateReviewInput{Text: "race", Score: 5})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict), err.Error())
	}
	assert.Equal(t, 1, successes)
}

/*
TestPostgres_SearchTreatsWildcardsLiterally checks that % and _ typed into a
search box only match themselves.
*/
func TestPostgres_SearchTreatsWildcardsLiterally(t *testing.T) {
	fixture := newPostgresFixture(t)
	ctx := context.Background()

	taxonomies := taxonomy.NewPostgresRepository(fixture.pool)
	require.NoError(t, taxonomies.Create(ctx, taxonomy.Genre, &taxonomy.Taxonomy{Name: "100% Noir", Slug: "noir"}))
	_, err := fixture.titles.Create(ctx, &title.Record{Name: "8_1/2", Year: 1963})
	require.NoError(t, err)

	users := auth.NewUserRepository(fixture.pool)
	for _, name := range []string{"a_c", "abc"} {
		require.NoError(t, users.Create(ctx, &auth.User{Username: name, Email: name + "@example.com", Role: sec.RoleUser}))
	}

	genres, total, err := taxonomies.List(ctx, taxonomy.Genre, "%", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, genres, 1)
	assert.Equal(t, "noir", genres[0].Slug)

	titles, total, err := fixture.titles.List(ctx, title.Filter{Name: "_"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, titles, 1)
	assert.Equal(t, "8_1/2", titles[0].Name)

	accounts, total, err := users.List(ctx, auth.UserFilter{Search: "a_c"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, accounts, 1)
	assert.Equal(t, "a_c", accounts[0].Username)
}
