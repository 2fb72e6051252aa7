package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskstar/taskstar/internal/api/request"
	"github.com/taskstar/taskstar/internal/api/response"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/service"
)

// AuditHandler handles audit log operations.
type AuditHandler struct{}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler() *AuditHandler {
	return &AuditHandler{}
}

// GetTaskHistory handles GET /tasks/{id}/history.
func (h *AuditHandler) GetTaskHistory(w http.ResponseWriter, r *http.Request) {
	writeHistory(w)(servicesFor(r, nil).audit.GetTaskHistory(chi.URLParam(r, "id")))
}

// GetScheduleHistory handles GET /schedules/{id}/history.
func (h *AuditHandler) GetScheduleHistory(w http.ResponseWriter, r *http.Request) {
	writeHistory(w)(servicesFor(r, nil).audit.GetScheduleHistory(chi.URLParam(r, "id")))
}

func writeHistory(w http.ResponseWriter) func([]*domain.AuditEntry, error) {
	return func(entries []*domain.AuditEntry, err error) {
		if err != nil {
			response.Error(w, err)
			return
		}
		if entries == nil {
			entries = []*domain.AuditEntry{}
		}
		response.OK(w, entries)
	}
}

// QueryAuditLog handles GET /audit.
func (h *AuditHandler) QueryAuditLog(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)
	queryParams, errors := request.ParseAuditQuery(r)
	if len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	entries, total, err := servicesFor(r, nil).audit.Query(service.QueryInput{
		Action:    queryParams.Action,
		AgentID:   queryParams.AgentID,
		StartTime: queryParams.StartTime,
		EndTime:   queryParams.EndTime,
		Page:      pagination.Page,
		PerPage:   pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, entries, pagination.Page, pagination.PerPage, total)
}
