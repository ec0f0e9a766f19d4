// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/middleware"
	requestutil "github.com/avpech/yamdb-final/internal/platform/request"
	"github.com/avpech/yamdb-final/internal/platform/respond"
	"github.com/avpech/yamdb-final/pkg/pagination"
)

// Handler serves one classification kind over HTTP.
type Handler struct {
	service *Service
	kind    Kind
}

// NewHandler constructs a [Handler] for kind.
func NewHandler(service *Service, kind Kind) *Handler {
	return &Handler{service: service, kind: kind}
}

// Routes mounts list, create and delete for the handler's kind.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	resource := handler.kind.Resource()

	router.With(middleware.Authorize(resource, access.List)).Get("/", handler.list)
	router.With(middleware.Authorize(resource, access.Create)).Post("/", handler.create)
	router.With(middleware.Authorize(resource, access.Destroy)).Delete("/{slug}", handler.delete)

	return router
}

type createRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Slug string `json:"slug" validate:"omitempty,max=50,slugfield"`
}

/*
GET /api/v1/{categories|genres}.

Request:
  - search: string (optional, name substring)
  - page, limit: pagination

Response:
  - 200: []Taxonomy with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	entries, total, err := handler.service.List(request.Context(), requestutil.Actor(request), handler.kind, request.URL.Query().Get("search"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(page.Page, page.Limit, total))
}

// POST /api/v1/{categories|genres}.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Create(request.Context(), requestutil.Actor(request), handler.kind, CreateInput{
		Name: input.Name,
		Slug: input.Slug,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

// DELETE /api/v1/{categories|genres}/{slug}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.Delete(request.Context(), requestutil.Actor(request), handler.kind, requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
