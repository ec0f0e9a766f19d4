// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpech/yamdb-final/internal/platform/ctxutil"
	"github.com/avpech/yamdb-final/internal/platform/sec"
	"github.com/avpech/yamdb-final/internal/users/account"
	"github.com/avpech/yamdb-final/internal/users/auth"
)

// serve runs one request through the account routes as the given user (nil = anonymous).
func serve(t *testing.T, fixture *accountFixture, as *auth.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if as != nil {
		claims := &sec.AuthClaims{UserID: as.ID, Username: as.Username, Role: as.Role}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	recorder := httptest.NewRecorder()
	account.NewHandler(fixture.service).Routes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Permissions maps the user-management surface onto status codes.
*/
func TestHandler_Permissions(t *testing.T) {
	fixture := newAccountFixture(t)

	tests := []struct {
		name       string
		as         *auth.User
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"anonymous list", nil, http.MethodGet, "/", "", http.StatusUnauthorized},
		{"anonymous me", nil, http.MethodGet, "/me", "", http.StatusUnauthorized},
		{"user list", fixture.critic, http.MethodGet, "/", "", http.StatusForbidden},
		{"user get other", fixture.critic, http.MethodGet, "/root", "", http.StatusForbidden},
		{"user create", fixture.critic, http.MethodPost, "/", `{"username":"x","email":"x@example.com"}`, http.StatusForbidden},
		{"user me", fixture.critic, http.MethodGet, "/me", "", http.StatusOK},
		{"admin list", fixture.admin, http.MethodGet, "/", "", http.StatusOK},
		{"admin get", fixture.admin, http.MethodGet, "/critic", "", http.StatusOK},
		{"admin get unknown", fixture.admin, http.MethodGet, "/ghost", "", http.StatusNotFound},
		{"admin bad role", fixture.admin, http.MethodPatch, "/critic", `{"role":"superuser"}`, http.StatusBadRequest},
		{"admin create", fixture.admin, http.MethodPost, "/", `{"username":"newbie","email":"newbie@example.com"}`, http.StatusCreated},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := serve(t, fixture, tc.as, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}

/*
TestHandler_PatchMeDropsRole verifies that a role in the /me payload is ignored.
*/
func TestHandler_PatchMeDropsRole(t *testing.T) {
	fixture := newAccountFixture(t)

	recorder := serve(t, fixture, fixture.critic, http.MethodPatch, "/me", `{"first_name":"Ann","role":"admin"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, "Ann", envelope.Data["first_name"])
	assert.Equal(t, "user", envelope.Data["role"])
	assert.NotContains(t, envelope.Data, "id")
}

/*
TestHandler_DeleteUser verifies admin deletion.
*/
func TestHandler_DeleteUser(t *testing.T) {
	fixture := newAccountFixture(t)

	assert.Equal(t, http.StatusNoContent, serve(t, fixture, fixture.admin, http.MethodDelete, "/critic", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, fixture, fixture.admin, http.MethodGet, "/critic", "").Code)
}
