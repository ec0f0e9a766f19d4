// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/avpech/yamdb-final/internal/platform/constants"
	"github.com/avpech/yamdb-final/internal/platform/respond"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase HealthCheck

	// CheckCache pings the Redis client.
	CheckCache HealthCheck
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

/*
readiness handles GET /ready.

Response:
  - 200: every configured dependency answered
  - 503: at least one dependency failed; the body lists which
*/
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)
	ready := true

	probe := func(name string, check HealthCheck) {
		if check == nil {
			return
		}
		result := checkResult{Name: name, IsOK: true}
		if err := check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			ready = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	probe("postgres", handler.dependencies.CheckDatabase)
	probe("redis", handler.dependencies.CheckCache)

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	respond.Status(writer, code, map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	})
}
