// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/mailer"
	"github.com/avpech/yamdb-final/internal/platform/sec"
	"github.com/avpech/yamdb-final/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID int64, username string, role sec.Role, timeToLive time.Duration) (string, error)
}

// MailDispatcher queues outgoing mail. It reports false when the message
// could not be queued.
type MailDispatcher interface {
	Dispatch(message mailer.Message) bool
}

// Service implements the sign-up and token exchange use cases.
type Service struct {
	userRepository UserRepository
	codes          *CodeGenerator
	tokenProvider  TokenProvider
	mail           MailDispatcher
	accessTokenTTL time.Duration
	logger         *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codes *CodeGenerator,
	tokenProv TokenProvider,
	mail MailDispatcher,
	accessTokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codes:          codes,
		tokenProvider:  tokenProv,
		mail:           mail,
		accessTokenTTL: accessTokenTTL,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the identity a caller signs up with.
type RegisterInput struct {
	Username string
	Email    string
}

/*
Register finds or creates the account for a (username, email) pair and mails
it a fresh confirmation code.

Description: Signing up twice with the same pair is not an error; the second
call simply mails another code. A pair whose halves belong to different
accounts (or one half to an existing account and the other to nobody) is a
CONFLICT.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: The found or created account
  - error: VALIDATION_ERROR, CONFLICT or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// ── 1. Validation ─────────────────────────────────────────────────────
	if err := validateIdentity(input.Username, input.Email); err != nil {
		return nil, err
	}

	// ── 2. Identity Resolution ────────────────────────────────────────────
	byUsername, err := service.optionalUser(service.userRepository.FindByUsername(context, input.Username))
	if err != nil {
		return nil, err
	}

	byEmail, err := service.optionalUser(service.userRepository.FindByEmail(context, input.Email))
	if err != nil {
		return nil, err
	}

	var user *User
	switch {
	case byUsername == nil && byEmail == nil:
		user = &User{
			Username: input.Username,
			Email:    input.Email,
			Role:     sec.RoleUser,
		}

		// A concurrent signup for the same identity trips the unique index.
		if err := service.userRepository.Create(context, user); err != nil {
			return nil, err
		}

		service.logger.InfoContext(context, "user_registered",
			slog.Int64("user_id", user.ID),
			slog.String("username", user.Username),
		)

	case byUsername.SameIdentity(byEmail):
		user = byUsername

	default:
		return nil, apperr.Conflict("Username or email already taken by another account")
	}

	// ── 3. Code Delivery ──────────────────────────────────────────────────
	if _, err := service.IssueCode(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
IssueCode derives a confirmation code for the user's current state and queues
it for delivery by email.

Description: Delivery is fire-and-forget. A full mail queue is logged, not
reported to the caller, since signing up again issues another code.

Returns:
  - string: The issued code
  - error: Template rendering failures only
*/
func (service *Service) IssueCode(context context.Context, user *User) (string, error) {
	code, expiresAt := service.codes.Generate(user)

	message, err := mailer.Render(mailer.ConfirmationCodeTemplate, user.Email, map[string]any{
		"Username":  user.Username,
		"Code":      code,
		"ExpiresAt": expiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("auth_service_render_code_failed: %w", err)
	}

	if !service.mail.Dispatch(message) {
		service.logger.WarnContext(context, "confirmation_code_not_queued", slog.Int64("user_id", user.ID))
		return code, nil
	}

	service.logger.InfoContext(context, "confirmation_code_dispatched",
		slog.Int64("user_id", user.ID),
		slog.Time("expires_at", expiresAt),
	)
	return code, nil
}

// # Token Exchange

// RedeemInput is a confirmation code presented for an account.
type RedeemInput struct {
	Username         string
	ConfirmationCode string
}

/*
Redeem exchanges a valid confirmation code for a signed access token.

Parameters:
  - context: context.Context
  - input: RedeemInput

Returns:
  - string: Signed JWT access token
  - error: NOT_FOUND (unknown username), INVALID_CODE (wrong, stale or expired code)
*/
func (service *Service) Redeem(context context.Context, input RedeemInput) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode).
		MaxLen(FieldConfirmationCode, input.ConfirmationCode, ConfirmationCodeMaxLen)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return "", err
	}

	if !service.codes.Verify(user, input.ConfirmationCode) {
		service.logger.InfoContext(context, "confirmation_code_rejected", slog.Int64("user_id", user.ID))
		return "", apperr.InvalidCode(FieldConfirmationCode)
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Role, service.accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_failed: %w", err)
	}

	service.logger.InfoContext(context, "access_token_issued", slog.Int64("user_id", user.ID))
	return token, nil
}

// # Helpers

// optionalUser turns a NOT_FOUND lookup into (nil, nil).
func (service *Service) optionalUser(user *User, err error) (*User, error) {
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	return user, err
}

// checkIdentity applies the username and email rules shared by signup and
// profile edits.
func checkIdentity(validator *validate.Validator, username, email string) *validate.Validator {
	validator.Required(FieldUsername, username)
	if username != "" {
		validator.Username(FieldUsername, username)
	}

	validator.Required(FieldEmail, email)
	if email != "" {
		validator.MaxLen(FieldEmail, email, validate.EmailMaxLen).Email(FieldEmail, email)
	}
	return validator
}

func validateIdentity(username, email string) error {
	return checkIdentity(&validate.Validator{}, username, email).Err()
}

// ValidateProfile checks every editable account field. It is shared with the
// account management service.
func ValidateProfile(user *User) error {
	validator := checkIdentity(&validate.Validator{}, user.Username, user.Email)
	validator.MaxLen(FieldFirstName, user.FirstName, NameMaxLen).
		MaxLen(FieldLastName, user.LastName, NameMaxLen).
		Custom(FieldRole, !user.Role.Valid(), fmt.Sprintf("Must be one of: %s", strings.Join(sec.RoleStrings(), ", ")))
	return validator.Err()
}
