package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskstar/taskstar/internal/api/middleware"
	"github.com/taskstar/taskstar/internal/api/request"
	"github.com/taskstar/taskstar/internal/api/response"
	"github.com/taskstar/taskstar/internal/domain"
)

// DependencyHandler handles dependency operations.
type DependencyHandler struct{}

// NewDependencyHandler creates a new DependencyHandler.
func NewDependencyHandler() *DependencyHandler {
	return &DependencyHandler{}
}

// ListDependencies handles GET /tasks/{id}/deps.
func (h *DependencyHandler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	deps, err := servicesFor(r, nil).deps.List(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	if deps == nil {
		deps = []*domain.Dependency{}
	}

	response.OK(w, deps)
}

// AddDependency handles POST /tasks/{id}/deps.
func (h *DependencyHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	var req request.AddDependencyRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	dep, err := servicesFor(r, nil).deps.Add(chi.URLParam(r, "id"), req.DependsOn, middleware.Agent(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, dep)
}

// RemoveDependency handles DELETE /tasks/{id}/deps/{depID}.
func (h *DependencyHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	err := servicesFor(r, nil).deps.Remove(
		chi.URLParam(r, "id"),
		chi.URLParam(r, "depID"),
		middleware.Agent(r.Context()),
	)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
