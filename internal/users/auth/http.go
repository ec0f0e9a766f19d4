// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/avpech/yamdb-final/internal/platform/request"
	"github.com/avpech/yamdb-final/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the public sign-up and token endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup : Registers (or re-finds) an account and mails a code.
//   - POST /token  : Exchanges a confirmation code for a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email"    validate:"required,max=254,email"`
}

type signupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"          validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=40"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

/*
Signup registers an account (or re-finds it) and mails a confirmation code.

POST /api/v1/auth/signup

Request:
  - Body: signupRequest (username, email)

Response:
  - 200: signupResponse: The identity the code was sent for
  - 400: VALIDATION_ERROR or CONFLICT
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signupResponse{Username: user.Username, Email: user.Email})
}

/*
Token exchanges a confirmation code for an access token.

POST /api/v1/auth/token

Request:
  - Body: tokenRequest (username, confirmation_code)

Response:
  - 200: tokenResponse: Signed JWT
  - 400: VALIDATION_ERROR or INVALID_CODE
  - 404: NOT_FOUND: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Redeem(request.Context(), RedeemInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenResponse{Token: token})
}
