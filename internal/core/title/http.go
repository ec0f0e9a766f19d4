// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/middleware"
	requestutil "github.com/avpech/yamdb-final/internal/platform/request"
	"github.com/avpech/yamdb-final/internal/platform/respond"
	"github.com/avpech/yamdb-final/pkg/pagination"
)

// Handler implements the HTTP layer for titles.
type Handler struct {
	service *Service
}

// NewHandler constructs a title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Routes returns the title endpoints.

nested mounts sub-routers under /{title_id} (reviews and comments).
*/
func (handler *Handler) Routes(nested func(router chi.Router)) chi.Router {
	router := chi.NewRouter()

	router.With(middleware.Authorize(access.Title, access.List)).Get("/", handler.list)
	router.With(middleware.Authorize(access.Title, access.Create)).Post("/", handler.create)

	router.Route("/{title_id}", func(router chi.Router) {
		router.With(middleware.Authorize(access.Title, access.Retrieve)).Get("/", handler.get)
		router.With(middleware.Authorize(access.Title, access.PartialUpdate)).Patch("/", handler.update)
		router.With(middleware.Authorize(access.Title, access.Destroy)).Delete("/", handler.delete)

		if nested != nil {
			nested(router)
		}
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Name        string   `json:"name"        validate:"required,max=200"`
	Year        *int     `json:"year"        validate:"required"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	Category    string   `json:"category"    validate:"omitempty,slugfield"`
	Genres      []string `json:"genre"       validate:"omitempty,dive,slugfield"`
}

type updateRequest struct {
	Name        *string   `json:"name"        validate:"omitempty,max=200"`
	Year        *int      `json:"year"`
	Description *string   `json:"description" validate:"omitempty,max=255"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"       validate:"omitempty,dive,slugfield"`
}

// filterFromQuery reads ?category=&genre=&name=&year=.
func filterFromQuery(request *http.Request) (Filter, error) {
	query := request.URL.Query()
	filter := Filter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
	}

	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, apperr.ValidationError("Validation failed", apperr.FieldError{Field: FieldYear, Message: "Must be an integer"})
		}
		filter.Year = &year
	}
	return filter, nil
}

// # Endpoints

/*
GET /api/v1/titles.

Request:
  - category, genre: slug filters (exact)
  - name: substring filter (case-insensitive)
  - year: exact year
  - page, limit: pagination

Response:
  - 200: []Title with pagination meta
  - 400: Malformed year
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFromQuery(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	page := pagination.FromRequest(request)

	titles, total, err := handler.service.List(request.Context(), requestutil.Actor(request), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(page.Page, page.Limit, total))
}

// GET /api/v1/titles/{title_id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "title_id", resourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), requestutil.Actor(request), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
POST /api/v1/titles.

Response:
  - 201: Title
  - 400: VALIDATION_ERROR (including unknown category or genre slugs)
  - 401/403: Not an admin
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), requestutil.Actor(request), CreateInput{
		Name:        input.Name,
		Year:        *input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

// PATCH /api/v1/titles/{title_id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "title_id", resourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), requestutil.Actor(request), id, Patch{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

// DELETE /api/v1/titles/{title_id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "title_id", resourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
