// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/users/profile"
)

func newRouter(actor access.ManagerAccess) http.Handler {
	handler := profile.NewHandler(profile.NewService(newMemoryRepository()))

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(access.WithManagerAccess(r.Context(), actor)))
		})
	})
	router.Route("/me", handler.RegisterMeRoutes)
	router.Route("/admin", handler.RegisterAdminRoutes)
	return router
}

func TestHandler_Me(t *testing.T) {
	router := newRouter(actorFor(staffID, access.RoleStaff))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me/", nil))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var body struct {
		Data struct {
			Access access.ManagerAccess `json:"access"`
			Routes map[string]bool      `json:"routes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, access.RoleStaff, body.Data.Access.Role)
	assert.True(t, body.Data.Routes["/entry"])
	assert.False(t, body.Data.Routes["/admin"])
}

/*
TestHandler_AssignRole verifies the status mapping of role changes.
*/
func TestHandler_AssignRole(t *testing.T) {
	router := newRouter(actorFor(adminID, access.RoleAdmin))

	patch := func(id, body string) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/admin/users/"+id+"/role", strings.NewReader(body)))
		return recorder
	}

	recorder := patch(staffID, `{"role":"manager"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"role":"manager"`)

	assert.Equal(t, http.StatusForbidden, patch(staffID, `{"role":"super_admin"}`).Code)
	assert.Equal(t, http.StatusForbidden, patch(superAdminID, `{"role":"staff"}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(staffID, `{"role":"manager","extra":true}`).Code)
}

func TestHandler_RoleOptionsAndNav(t *testing.T) {
	router := newRouter(actorFor(adminID, access.RoleAdmin))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/roles/options", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[
		{"value":"staff","label":"Staff"},
		{"value":"manager","label":"Manager"},
		{"value":"admin","label":"Admin"}
	]}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/nav?path=/admin", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `{"href":"/admin/master-data","label":"Master Data","active":true}`)
}

func TestHandler_Departments(t *testing.T) {
	router := newRouter(actorFor(adminID, access.RoleAdmin))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/departments", nil))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var body struct {
		Data []profile.Department `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, departmentID, body.Data[0].ID)
	assert.Equal(t, 2, body.Data[0].Members)
}
