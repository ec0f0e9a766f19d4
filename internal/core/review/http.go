// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/middleware"
	requestutil "github.com/avpech/yamdb-final/internal/platform/request"
	"github.com/avpech/yamdb-final/internal/platform/respond"
	"github.com/avpech/yamdb-final/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Routes returns the review and comment endpoints.

It is meant to be mounted at /titles/{title_id}/reviews; the title ID is
read from the parent route.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.Authorize(access.Review, access.List)).Get("/", handler.listReviews)
	router.With(middleware.Authorize(access.Review, access.Create)).Post("/", handler.createReview)

	router.Route("/{review_id}", func(router chi.Router) {
		router.With(middleware.Authorize(access.Review, access.Retrieve)).Get("/", handler.getReview)
		router.With(middleware.Authorize(access.Review, access.PartialUpdate)).Patch("/", handler.updateReview)
		router.With(middleware.Authorize(access.Review, access.Destroy)).Delete("/", handler.deleteReview)

		router.Route("/comments", func(router chi.Router) {
			router.With(middleware.Authorize(access.Comment, access.List)).Get("/", handler.listComments)
			router.With(middleware.Authorize(access.Comment, access.Create)).Post("/", handler.createComment)
			router.With(middleware.Authorize(access.Comment, access.Retrieve)).Get("/{comment_id}", handler.getComment)
			router.With(middleware.Authorize(access.Comment, access.PartialUpdate)).Patch("/{comment_id}", handler.updateComment)
			router.With(middleware.Authorize(access.Comment, access.Destroy)).Delete("/{comment_id}", handler.deleteComment)
		})
	})

	return router
}

// # Request Payloads

type createReviewRequest struct {
	Text  string `json:"text"  validate:"required"`
	Score *int   `json:"score" validate:"required,min=1,max=10"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"  validate:"omitempty,min=1"`
	Score *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

type updateCommentRequest struct {
	Text *string `json:"text" validate:"omitempty,min=1"`
}

// # Path Parameters

type reviewPath struct {
	titleID  int64
	reviewID int64
}

// parsePath reads title_id, and review_id when withReview is set.
func parsePath(request *http.Request, withReview bool) (reviewPath, error) {
	var path reviewPath
	var err error

	if path.titleID, err = requestutil.Int64(request, "title_id", "Title"); err != nil {
		return path, err
	}
	if withReview {
		if path.reviewID, err = requestutil.Int64(request, "review_id", "Review"); err != nil {
			return path, err
		}
	}
	return path, nil
}

// # Review Endpoints

/*
GET /api/v1/titles/{title_id}/reviews.

Response:
  - 200: []Review newest first, with pagination meta
  - 401: Authentication required
  - 404: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	page := pagination.FromRequest(request)

	reviews, total, err := handler.service.ListReviews(request.Context(), requestutil.Actor(request), path.titleID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
POST /api/v1/titles/{title_id}/reviews.

Response:
  - 201: Review
  - 400: VALIDATION_ERROR, or CONFLICT when the caller already reviewed the title
  - 401: Authentication required
  - 404: Unknown title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReviewRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), requestutil.Actor(request), path.titleID, CreateReviewInput{
		Text:  input.Text,
		Score: *input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}.
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), requestutil.Actor(request), path.titleID, path.reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
PATCH /api/v1/titles/{title_id}/reviews/{review_id}.

Response:
  - 200: Review
  - 403: Neither the author nor a moderator/admin
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateReviewRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), requestutil.Actor(request), path.titleID, path.reviewID, ReviewPatch{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}.
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), requestutil.Actor(request), path.titleID, path.reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Endpoints

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments.
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	page := pagination.FromRequest(request)

	comments, total, err := handler.service.ListComments(request.Context(), requestutil.Actor(request), path.titleID, path.reviewID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(page.Page, page.Limit, total))
}

// POST /api/v1/titles/{title_id}/reviews/{review_id}/comments.
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), requestutil.Actor(request), path.titleID, path.reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.Int64(request, "comment_id", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), requestutil.Actor(request), path.titleID, path.reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// PATCH /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.Int64(request, "comment_id", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateCommentRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), requestutil.Actor(request), path.titleID, path.reviewID, commentID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	path, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.Int64(request, "comment_id", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), requestutil.Actor(request), path.titleID, path.reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
