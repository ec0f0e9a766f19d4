// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes every HTTP body the API produces.
//
// Envelopes:
//
//	{"data": ...}                       single resource
//	{"data": [...], "meta": {...}}      paginated list
//	{"error": "...", "code": "...", "details": [...]}
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/ctxutil"
	"github.com/avpech/yamdb-final/pkg/pagination"
)

const contentTypeJSON = "application/json; charset=utf-8"

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON encodes payload with statusCode. Encoding failures after the header is
// sent cannot be reported to the client and are dropped.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", contentTypeJSON)
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

func OK(writer http.ResponseWriter, data any) { Status(writer, http.StatusOK, data) }

func Created(writer http.ResponseWriter, data any) { Status(writer, http.StatusCreated, data) }

// Status wraps data in the success envelope under an explicit status.
func Status(writer http.ResponseWriter, statusCode int, data any) {
	JSON(writer, statusCode, SuccessEnvelope{Data: data})
}

func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error writes err as an error envelope.

An [*apperr.AppError] anywhere in the chain decides the status and body.
Any other error becomes INTERNAL_ERROR. Server-side failures are logged with
their cause; the client only sees the generic message.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.Internal(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		ctx := request.Context()
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appErr.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appErr.Cause),
		)
	}

	JSON(writer, appErr.HTTPStatus, ErrorEnvelope{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}
