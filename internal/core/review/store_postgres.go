// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/database/schema"
	"github.com/avpech/yamdb-final/internal/platform/dberr"
)

// reviewConstraintMessages names the constraints of social.review.
var reviewConstraintMessages = dberr.Messages{
	schema.SocialReview.AuthorTitleKey: "You have already reviewed this title",
	"review_score_range":               "Score must be between 1 and 10",
	"review_title_id_fkey":             "Title not found",
	"review_author_id_fkey":            "Author not found",
}

// commentConstraintMessages names the constraints of social.comment.
var commentConstraintMessages = dberr.Messages{
	"comment_review_id_fkey": "Review not found",
	"comment_author_id_fkey": "Author not found",
}

// # Review Repository

// PostgresReviewRepository implements [ReviewRepository] using pgx.
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository constructs a PostgreSQL backed review store.
func NewReviewRepository(pool *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool}
}

// reviewColumns is the projection scanned by [scanReview].
var reviewColumns = fmt.Sprintf(`r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s`,
	schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
	schema.UserAccount.Username,
	schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.PubDate,
)

// reviewSource joins the author onto the review.
var reviewSource = fmt.Sprintf(`FROM %s r JOIN %s a ON a.%s = r.%s`,
	schema.SocialReview.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID,
)

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	review := &Review{}
	dest := []any{
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return review, nil
}

// TitleExists runs an EXISTS probe on catalog.title.
func (repository *PostgresReviewRepository) TitleExists(context context.Context, titleID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CatalogTitle.Table, schema.CatalogTitle.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Title")
	}
	return exists, nil
}

/*
Create inserts a review and returns the database-assigned identity and date.

Description: The insert and the author lookup run as one statement. When two
requests race for the same (author, title), the loser's insert fails on
review_author_title_key and surfaces as CONFLICT.
*/
func (repository *PostgresReviewRepository) Create(context context.Context, review *Review) error {
	table := schema.SocialReview
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s, %s, %s)
			VALUES ($1, $2, $3, $4)
			RETURNING %s, %s, %s
		)
		SELECT i.%s, i.%s, a.%s
		FROM inserted i
		JOIN %s a ON a.%s = i.%s`,
		table.Table, table.AuthorID, table.TitleID, table.Text, table.Score,
		table.ID, table.PubDate, table.AuthorID,
		table.ID, table.PubDate, schema.UserAccount.Username,
		schema.UserAccount.Table, schema.UserAccount.ID, table.AuthorID,
	)

	err := repository.pool.QueryRow(context, query,
		review.AuthorID, review.TitleID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate, &review.Author)
	if err != nil {
		return dberr.WrapWith(err, "Review", reviewConstraintMessages)
	}
	return nil
}

// List returns a page of a title's reviews, newest first.
func (repository *PostgresReviewRepository) List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		reviewColumns, reviewSource,
		schema.SocialReview.TitleID,
		schema.SocialReview.PubDate, schema.SocialReview.ID,
	)

	rows, err := repository.pool.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Review")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	total := 0
	for rows.Next() {
		review, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Review")
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Review")
	}

	return reviews, total, nil
}

// Find loads a review scoped to its title.
func (repository *PostgresReviewRepository) Find(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE r.%s = $1 AND r.%s = $2`,
		reviewColumns, reviewSource, schema.SocialReview.ID, schema.SocialReview.TitleID,
	)

	review, err := scanReview(repository.pool.QueryRow(context, query, reviewID, titleID))
	if err != nil {
		return nil, dberr.Wrap(err, "Review")
	}
	return review, nil
}

// Update rewrites text and score.
func (repository *PostgresReviewRepository) Update(context context.Context, review *Review) error {
	table := schema.SocialReview
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		table.Table, table.Text, table.Score, table.ID,
	)

	tag, err := repository.pool.Exec(context, query, review.Text, review.Score, review.ID)
	if err != nil {
		return dberr.WrapWith(err, "Review", reviewConstraintMessages)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// Delete removes a review; comment_review_id_fkey cascades to its comments.
func (repository *PostgresReviewRepository) Delete(context context.Context, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialReview.Table, schema.SocialReview.ID)

	tag, err := repository.pool.Exec(context, query, reviewID)
	if err != nil {
		return dberr.Wrap(err, "Review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// Scores collects the raw scores of a title.
func (repository *PostgresReviewRepository) Scores(context context.Context, titleID int64) ([]int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID,
	)

	rows, err := repository.pool.Query(context, query, titleID)
	if err != nil {
		return nil, dberr.Wrap(err, "Review")
	}

	scores, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, dberr.Wrap(err, "Review")
	}
	return scores, nil
}

// # Comment Repository

// PostgresCommentRepository implements [CommentRepository] using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs a PostgreSQL backed comment store.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

var commentColumns = fmt.Sprintf(`c.%s, c.%s, c.%s, a.%s, c.%s, c.%s`,
	schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID,
	schema.UserAccount.Username,
	schema.SocialComment.Text, schema.SocialComment.PubDate,
)

var commentSource = fmt.Sprintf(`FROM %s c JOIN %s a ON a.%s = c.%s`,
	schema.SocialComment.Table, schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.AuthorID,
)

func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	comment := &Comment{}
	dest := []any{
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return comment, nil
}

// Create inserts a comment and resolves its author's username.
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	table := schema.SocialComment
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s, %s)
			VALUES ($1, $2, $3)
			RETURNING %s, %s, %s
		)
		SELECT i.%s, i.%s, a.%s
		FROM inserted i
		JOIN %s a ON a.%s = i.%s`,
		table.Table, table.AuthorID, table.ReviewID, table.Text,
		table.ID, table.PubDate, table.AuthorID,
		table.ID, table.PubDate, schema.UserAccount.Username,
		schema.UserAccount.Table, schema.UserAccount.ID, table.AuthorID,
	)

	err := repository.pool.QueryRow(context, query,
		comment.AuthorID, comment.ReviewID, comment.Text,
	).Scan(&comment.ID, &comment.PubDate, &comment.Author)
	if err != nil {
		return dberr.WrapWith(err, "Comment", commentConstraintMessages)
	}
	return nil
}

// List returns a page of a review's comments, newest first.
func (repository *PostgresCommentRepository) List(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC
		LIMIT $2 OFFSET $3`,
		commentColumns, commentSource,
		schema.SocialComment.ReviewID,
		schema.SocialComment.PubDate, schema.SocialComment.ID,
	)

	rows, err := repository.pool.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Comment")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	total := 0
	for rows.Next() {
		comment, err := scanComment(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Comment")
	}

	return comments, total, nil
}

// Find loads a comment scoped to its review.
func (repository *PostgresCommentRepository) Find(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE c.%s = $1 AND c.%s = $2`,
		commentColumns, commentSource, schema.SocialComment.ID, schema.SocialComment.ReviewID,
	)

	comment, err := scanComment(repository.pool.QueryRow(context, query, commentID, reviewID))
	if err != nil {
		return nil, dberr.Wrap(err, "Comment")
	}
	return comment, nil
}

// Update rewrites the comment text.
func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	table := schema.SocialComment
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, table.Table, table.Text, table.ID)

	tag, err := repository.pool.Exec(context, query, comment.Text, comment.ID)
	if err != nil {
		return dberr.Wrap(err, "Comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

// Delete removes a comment.
func (repository *PostgresCommentRepository) Delete(context context.Context, commentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ID)

	tag, err := repository.pool.Exec(context, query, commentID)
	if err != nil {
		return dberr.Wrap(err, "Comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
