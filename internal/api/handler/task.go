package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskstar/taskstar/internal/api/middleware"
	"github.com/taskstar/taskstar/internal/api/request"
	"github.com/taskstar/taskstar/internal/api/response"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/service"
)

// TaskHandler handles task CRUD operations.
type TaskHandler struct{}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler() *TaskHandler {
	return &TaskHandler{}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	task, err := servicesFor(r, nil).tasks.Create(service.CreateTaskInput{
		Name:        req.Name,
		Duration:    req.Duration,
		Description: req.Description,
	}, middleware.Agent(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, task)
}

// GetTask handles GET /tasks/{id}. The id may also be a task name.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := servicesFor(r, nil).tasks.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	tasks, total, err := servicesFor(r, nil).tasks.List(pagination.Page, pagination.PerPage)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, tasks, pagination.Page, pagination.PerPage, total)
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	task, err := servicesFor(r, nil).tasks.Update(chi.URLParam(r, "id"), service.UpdateTaskInput{
		Name:        req.Name,
		Duration:    req.Duration,
		Description: req.Description,
	}, middleware.Agent(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := servicesFor(r, nil).tasks.Delete(chi.URLParam(r, "id"), middleware.Agent(r.Context())); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
