// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/database/schema"
	"github.com/avpech/yamdb-final/internal/platform/dberr"
	"github.com/avpech/yamdb-final/internal/platform/validate"
	"github.com/avpech/yamdb-final/pkg/pagination"
)

// # Service Layer

// Service orchestrates reviews, comments and the derived title rating.
type Service struct {
	reviews  ReviewRepository
	comments CommentRepository
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(reviews ReviewRepository, comments CommentRepository, logger *slog.Logger) *Service {
	return &Service{
		reviews:  reviews,
		comments: comments,
		logger:   logger,
	}
}

// # Reviews

/*
CreateReview records the actor's review of a title.

Description: The title is passed explicitly by the caller (the HTTP layer
takes it from the route). A second review by the same author is rejected by
the storage layer's unique index, which makes concurrent attempts safe: one
insert wins and every other returns CONFLICT.

Parameters:
  - context: context.Context
  - actor: access.Actor (becomes the author)
  - titleID: int64
  - input: CreateReviewInput

Returns:
  - *Review: The stored review with its pub_date
  - error: NOT_FOUND, VALIDATION_ERROR, CONFLICT, UNAUTHORIZED
*/
func (service *Service) CreateReview(context context.Context, actor access.Actor, titleID int64, input CreateReviewInput) (*Review, error) {
	if err := access.Check(actor, access.Create, access.Review, 0); err != nil {
		return nil, err
	}

	// ── 1. Target ─────────────────────────────────────────────────────────
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	// ── 2. Fields ─────────────────────────────────────────────────────────
	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Text:     strings.TrimSpace(input.Text),
		Score:    input.Score,
	}
	if err := checkReview(review); err != nil {
		return nil, err
	}

	// ── 3. Insert ─────────────────────────────────────────────────────────
	if err := service.reviews.Create(context, review); err != nil {
		if dberr.IsUniqueViolation(err, schema.SocialReview.AuthorTitleKey) {
			service.logger.InfoContext(context, "review_duplicate_rejected",
				slog.Int64("title_id", titleID),
				slog.Int64("author_id", actor.UserID),
			)
		}
		return nil, err
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.Int64("author_id", actor.UserID),
		slog.Int("score", review.Score),
	)
	return review, nil
}

// ListReviews returns a title's reviews, newest first.
func (service *Service) ListReviews(context context.Context, actor access.Actor, titleID int64, page pagination.Params) ([]*Review, int, error) {
	if err := access.Check(actor, access.List, access.Review, 0); err != nil {
		return nil, 0, err
	}
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.reviews.List(context, titleID, page.Limit, page.Offset())
}

// GetReview returns one review of a title.
func (service *Service) GetReview(context context.Context, actor access.Actor, titleID, reviewID int64) (*Review, error) {
	if err := access.Check(actor, access.Retrieve, access.Review, 0); err != nil {
		return nil, err
	}
	return service.reviews.Find(context, titleID, reviewID)
}

// UpdateReview changes text and/or score. pub_date never moves.
func (service *Service) UpdateReview(context context.Context, actor access.Actor, titleID, reviewID int64, patch ReviewPatch) (*Review, error) {
	review, err := service.ownedReview(context, actor, access.PartialUpdate, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		review.Text = strings.TrimSpace(*patch.Text)
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}
	if err := checkReview(review); err != nil {
		return nil, err
	}

	if err := service.reviews.Update(context, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review together with its comments.
func (service *Service) DeleteReview(context context.Context, actor access.Actor, titleID, reviewID int64) error {
	review, err := service.ownedReview(context, actor, access.Destroy, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := service.reviews.Delete(context, review.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.Int64("by_user_id", actor.UserID),
	)
	return nil
}

/*
ComputeRating returns the mean score of a title.

Returns:
  - *float64: The mean, or nil when the title has no reviews
  - error: NOT_FOUND when the title does not exist
*/
func (service *Service) ComputeRating(context context.Context, titleID int64) (*float64, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	scores, err := service.reviews.Scores(context, titleID)
	if err != nil {
		return nil, err
	}
	return Mean(scores), nil
}

// # Comments

// CreateComment attaches a comment to a review of the given title.
func (service *Service) CreateComment(context context.Context, actor access.Actor, titleID, reviewID int64, text string) (*Comment, error) {
	if err := access.Check(actor, access.Create, access.Comment, 0); err != nil {
		return nil, err
	}

	if _, err := service.reviews.Find(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{ReviewID: reviewID, AuthorID: actor.UserID, Text: strings.TrimSpace(text)}
	if err := checkComment(comment); err != nil {
		return nil, err
	}

	if err := service.comments.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
		slog.Int64("author_id", actor.UserID),
	)
	return comment, nil
}

// ListComments returns a review's comments, newest first.
func (service *Service) ListComments(context context.Context, actor access.Actor, titleID, reviewID int64, page pagination.Params) ([]*Comment, int, error) {
	if err := access.Check(actor, access.List, access.Comment, 0); err != nil {
		return nil, 0, err
	}
	if _, err := service.reviews.Find(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.comments.List(context, reviewID, page.Limit, page.Offset())
}

// GetComment returns one comment, addressed through its title and review.
func (service *Service) GetComment(context context.Context, actor access.Actor, titleID, reviewID, commentID int64) (*Comment, error) {
	if err := access.Check(actor, access.Retrieve, access.Comment, 0); err != nil {
		return nil, err
	}
	if _, err := service.reviews.Find(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.comments.Find(context, reviewID, commentID)
}

// UpdateComment rewrites a comment's text.
func (service *Service) UpdateComment(context context.Context, actor access.Actor, titleID, reviewID, commentID int64, text *string) (*Comment, error) {
	comment, err := service.ownedComment(context, actor, access.PartialUpdate, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if text != nil {
		comment.Text = strings.TrimSpace(*text)
	}
	if err := checkComment(comment); err != nil {
		return nil, err
	}

	if err := service.comments.Update(context, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment.
func (service *Service) DeleteComment(context context.Context, actor access.Actor, titleID, reviewID, commentID int64) error {
	comment, err := service.ownedComment(context, actor, access.Destroy, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := service.comments.Delete(context, comment.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
		slog.Int64("by_user_id", actor.UserID),
	)
	return nil
}

// # Helpers

func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.reviews.TitleExists(context, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

/*
ownedReview loads a review for a write and applies the ownership rule.

The owner-independent check runs first, so an anonymous caller is told to
authenticate before learning whether the review exists.
*/
func (service *Service) ownedReview(context context.Context, actor access.Actor, action access.Action, titleID, reviewID int64) (*Review, error) {
	if err := access.CheckAttempt(actor, action, access.Review); err != nil {
		return nil, err
	}

	review, err := service.reviews.Find(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(actor, action, access.Review, review.AuthorID); err != nil {
		return nil, err
	}
	return review, nil
}

func (service *Service) ownedComment(context context.Context, actor access.Actor, action access.Action, titleID, reviewID, commentID int64) (*Comment, error) {
	if err := access.CheckAttempt(actor, action, access.Comment); err != nil {
		return nil, err
	}

	if _, err := service.reviews.Find(context, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := service.comments.Find(context, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(actor, action, access.Comment, comment.AuthorID); err != nil {
		return nil, err
	}
	return comment, nil
}

func checkReview(review *Review) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, review.Text)
	validator.Range(FieldScore, review.Score, MinScore, MaxScore)
	return validator.Err()
}

func checkComment(comment *Comment) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, comment.Text)
	return validator.Err()
}
