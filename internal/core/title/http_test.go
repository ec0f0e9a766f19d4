// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpech/yamdb-final/internal/core/title"
	"github.com/avpech/yamdb-final/internal/platform/ctxutil"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

func serveTitles(router http.Handler, claims *sec.AuthClaims, method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_CreateAndRead walks the title endpoints, including a nested mount.
*/
func TestHandler_CreateAndRead(t *testing.T) {
	fixture := newTitleFixture(t)
	nestedHit := false
	router := title.NewHandler(fixture.service).Routes(func(router chi.Router) {
		router.Get("/reviews", func(writer http.ResponseWriter, request *http.Request) {
			nestedHit = chi.URLParam(request, "title_id") == "1"
			writer.WriteHeader(http.StatusOK)
		})
	})
	adminClaims := &sec.AuthClaims{UserID: 1, Role: sec.RoleAdmin}

	// 1. Admin creates
	recorder := serveTitles(router, adminClaims, http.MethodPost, "/",
		`{"name":"Rashomon","year":1950,"category":"films","genre":["drama"]}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	assert.Nil(t, created.Data["rating"])
	assert.Equal(t, map[string]any{"name": "Films", "slug": "films"}, created.Data["category"])

	// 2. Anyone reads
	assert.Equal(t, http.StatusOK, serveTitles(router, nil, http.MethodGet, "/1", "").Code)
	assert.Equal(t, http.StatusOK, serveTitles(router, nil, http.MethodGet, "/?year=1950&genre=drama", "").Code)

	// 3. Nested routes see the title id
	assert.Equal(t, http.StatusOK, serveTitles(router, nil, http.MethodGet, "/1/reviews", "").Code)
	assert.True(t, nestedHit)
}

/*
TestHandler_Errors maps bad input and permissions onto status codes.
*/
func TestHandler_Errors(t *testing.T) {
	fixture := newTitleFixture(t)
	router := title.NewHandler(fixture.service).Routes(nil)
	adminClaims := &sec.AuthClaims{UserID: 1, Role: sec.RoleAdmin}
	userClaims := &sec.AuthClaims{UserID: 2, Role: sec.RoleUser}

	tests := []struct {
		name       string
		claims     *sec.AuthClaims
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"bad year filter", nil, http.MethodGet, "/?year=abc", "", http.StatusBadRequest},
		{"non numeric id", nil, http.MethodGet, "/abc", "", http.StatusNotFound},
		{"unknown id", nil, http.MethodGet, "/42", "", http.StatusNotFound},
		{"anonymous create", nil, http.MethodPost, "/", `{"name":"X","year":2000}`, http.StatusUnauthorized},
		{"user create", userClaims, http.MethodPost, "/", `{"name":"X","year":2000}`, http.StatusForbidden},
		{"missing year", adminClaims, http.MethodPost, "/", `{"name":"X"}`, http.StatusBadRequest},
		{"unknown genre", adminClaims, http.MethodPost, "/", `{"name":"X","year":2000,"genre":["jazz"]}`, http.StatusBadRequest},
		{"future year", adminClaims, http.MethodPost, "/", `{"name":"X","year":2999}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantStatus, serveTitles(router, tc.claims, tc.method, tc.path, tc.body).Code)
		})
	}
}
