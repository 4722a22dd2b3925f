// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/timekeep/internal/access"
	requestutil "github.com/taibuivan/timekeep/internal/platform/request"
	"github.com/taibuivan/timekeep/internal/platform/respond"
	"github.com/taibuivan/timekeep/pkg/pagination"
)

// Handler implements the HTTP layer for profiles and role administration.
type Handler struct {
	service *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterMeRoutes mounts the self-service endpoints. Any authenticated role may call them.
func (handler *Handler) RegisterMeRoutes(router chi.Router) {
	router.Get("/", handler.getMe)
}

// RegisterAdminRoutes mounts the admin endpoints. The caller guards them with the admin route.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/nav", handler.adminNav)
	router.Get("/users", handler.listProfiles)
	router.Patch("/users/{id}/role", handler.assignRole)
	router.Get("/roles/options", handler.roleOptions)
	router.Get("/departments", handler.listDepartments)
}

/*
GET /api/v1/me.

Description: Returns the caller's profile, resolved role and accessible routes.

Response:
  - 200: Me
  - 401: ErrUnauthorized
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	me, err := handler.service.Me(request.Context(), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, me)
}

/*
GET /api/v1/admin/users.

Description: Lists profiles with optional role and department filters.

Response:
  - 200: []Profile (paginated)
  - 400: ErrValidation
*/
func (handler *Handler) listProfiles(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{
		Role:         access.Role(query.Get(FieldRole)),
		DepartmentID: query.Get(FieldDepartmentID),
	}
	page := pagination.FromRequest(request)

	profiles, total, err := handler.service.ListProfiles(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, profiles, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
PATCH /api/v1/admin/users/{id}/role.

Description: Assigns a new role to a profile.

Request (JSON):
  - role: string (required)

Response:
  - 200: Profile
  - 403: ErrForbidden
  - 404: ErrNotFound
*/
func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.AssignRole(request.Context(), actor, requestutil.ID(request, "id"), input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
GET /api/v1/admin/roles/options.

Description: Lists the roles the caller may assign, with display labels.

Response:
  - 200: []RoleOption
*/
func (handler *Handler) roleOptions(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.Actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.service.RoleOptions(actor))
}

/*
GET /api/v1/admin/nav?path=.

Description: Returns the admin navigation with the active section marked.

Response:
  - 200: []NavItem
*/
func (handler *Handler) adminNav(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.AdminNav(request.URL.Query().Get(FieldPath)))
}

/*
GET /api/v1/admin/departments.

Description: Lists departments with their member counts.

Response:
  - 200: []Department
*/
func (handler *Handler) listDepartments(writer http.ResponseWriter, request *http.Request) {
	departments, err := handler.service.Departments(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, departments)
}
