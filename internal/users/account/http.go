// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/middleware"
	requestutil "github.com/avpech/yamdb-final/internal/platform/request"
	"github.com/avpech/yamdb-final/internal/platform/respond"
	"github.com/avpech/yamdb-final/pkg/pagination"
)

// Handler implements the HTTP layer for user management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Own profile: any signed-in account
	router.Group(func(me chi.Router) {
		me.Use(middleware.RequireAuth)
		me.Get("/me", handler.getMe)
		me.Patch("/me", handler.updateMe)
	})

	// Admin management
	router.With(middleware.Authorize(access.User, access.List)).Get("/", handler.list)
	router.With(middleware.Authorize(access.User, access.Create)).Post("/", handler.create)
	router.With(middleware.Authorize(access.User, access.Retrieve)).Get("/{username}", handler.get)
	router.With(middleware.Authorize(access.User, access.PartialUpdate)).Patch("/{username}", handler.update)
	router.With(middleware.Authorize(access.User, access.Destroy)).Delete("/{username}", handler.delete)

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username  string `json:"username"   validate:"required,username"`
	Email     string `json:"email"      validate:"required,max=254,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

type updateUserRequest struct {
	Username  *string `json:"username"   validate:"omitempty,username"`
	Email     *string `json:"email"      validate:"omitempty,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

// updateMeRequest has no role: a submitted role is dropped while decoding.
type updateMeRequest struct {
	Username  *string `json:"username"   validate:"omitempty,username"`
	Email     *string `json:"email"      validate:"omitempty,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
}

// # Admin Endpoints

/*
GET /api/v1/users.

Description: Lists accounts ordered by join date.

Request:
  - search: string (optional, username substring)
  - page, limit: pagination

Response:
  - 200: []User with pagination meta
  - 401/403: Not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	users, total, err := handler.accountService.List(request.Context(), requestutil.Actor(request), request.URL.Query().Get("search"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
POST /api/v1/users.

Response:
  - 201: User
  - 400: VALIDATION_ERROR or CONFLICT
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), requestutil.Actor(request), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// GET /api/v1/users/{username}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	if !usernameParam(username) {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	user, err := handler.accountService.Get(request.Context(), requestutil.Actor(request), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/{username}.

Response:
  - 200: User: The updated account
  - 400: VALIDATION_ERROR or CONFLICT
  - 404: Unknown username
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	if !usernameParam(username) {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), requestutil.Actor(request), username, ProfilePatch{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// DELETE /api/v1/users/{username}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	if !usernameParam(username) {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	if err := handler.accountService.Delete(request.Context(), requestutil.Actor(request), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Own Profile Endpoints

/*
GET /api/v1/users/me.

Response:
  - 200: User: The caller's profile
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Me(request.Context(), requestutil.Actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the caller's profile. The role is
read-only here.

Response:
  - 200: User: The updated profile
  - 400: VALIDATION_ERROR or CONFLICT
  - 401: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var input updateMeRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateMe(request.Context(), requestutil.Actor(request), ProfilePatch{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
