package handler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/taskstar/taskstar/internal/api/middleware"
	"github.com/taskstar/taskstar/internal/api/request"
	"github.com/taskstar/taskstar/internal/api/response"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/gantt"
	"github.com/taskstar/taskstar/internal/service"
)

// ScheduleHandler handles schedule runs, their charts and comparisons.
type ScheduleHandler struct {
	logger *zap.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(logger *zap.Logger) *ScheduleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleHandler{logger: logger}
}

// RunSchedule handles POST /schedules.
func (h *ScheduleHandler) RunSchedule(w http.ResponseWriter, r *http.Request) {
	var req request.RunScheduleRequest
	if err := request.DecodeOptionalJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	run, err := servicesFor(r, h.logger).schedules.Run(r.Context(), service.RunInput{
		Algorithm:     req.Algorithm,
		Workers:       req.Workers,
		MaxExpansions: req.MaxExpansions,
	}, middleware.Agent(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, run)
}

// GetSchedule handles GET /schedules/{id}.
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	run, err := servicesFor(r, h.logger).schedules.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, run)
}

// ListSchedules handles GET /schedules.
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	runs, total, err := servicesFor(r, h.logger).schedules.List(pagination.Page, pagination.PerPage)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, runs, pagination.Page, pagination.PerPage, total)
}

// GetGantt handles GET /schedules/{id}/gantt?format=svg|html|text|markdown|json.
func (h *ScheduleHandler) GetGantt(w http.ResponseWriter, r *http.Request) {
	format := gantt.FormatSVG
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := gantt.ParseFormat(f)
		if err != nil {
			response.Error(w, domain.NewValidationError([]string{err.Error()}))
			return
		}
		format = parsed
	}

	run, err := servicesFor(r, h.logger).schedules.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := gantt.Render(&buf, *run, format); err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}

	response.Content(w, format.ContentType(), buf.Bytes())
}

// Compare handles POST /compare.
func (h *ScheduleHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req request.CompareRequest
	if err := request.DecodeOptionalJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	cmp, err := servicesFor(r, h.logger).schedules.Compare(r.Context(), service.CompareInput{
		Algorithms:    req.Algorithms,
		Workers:       req.Workers,
		MaxExpansions: req.MaxExpansions,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, cmp)
}
