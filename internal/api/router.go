package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/taskstar/taskstar/internal/api/handler"
	"github.com/taskstar/taskstar/internal/api/middleware"
	"github.com/taskstar/taskstar/internal/store"
)

// NewRouter creates and configures the HTTP router. A nil logger discards output.
func NewRouter(manager *store.Manager, logger *zap.Logger) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware chain
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AgentID)
	r.Use(middleware.Logging(logger))

	systemHandler := handler.NewSystemHandler(manager)
	taskHandler := handler.NewTaskHandler()
	dependencyHandler := handler.NewDependencyHandler()
	scheduleHandler := handler.NewScheduleHandler(logger)
	auditHandler := handler.NewAuditHandler()

	// System routes (no project context needed)
	r.Get("/v1/health", systemHandler.Health)
	r.Get("/v1/projects", systemHandler.ListProjects)

	// Project-scoped routes
	r.Route("/v1/projects/{project}", func(r chi.Router) {
		r.Use(middleware.ProjectContext(manager))

		// Task CRUD
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		// Dependencies
		r.Get("/tasks/{id}/deps", dependencyHandler.ListDependencies)
		r.Post("/tasks/{id}/deps", dependencyHandler.AddDependency)
		r.Delete("/tasks/{id}/deps/{depID}", dependencyHandler.RemoveDependency)

		// Schedules
		r.Post("/schedules", scheduleHandler.RunSchedule)
		r.Get("/schedules", scheduleHandler.ListSchedules)
		r.Get("/schedules/{id}", scheduleHandler.GetSchedule)
		r.Get("/schedules/{id}/gantt", scheduleHandler.GetGantt)
		r.Post("/compare", scheduleHandler.Compare)

		// Audit
		r.Get("/tasks/{id}/history", auditHandler.GetTaskHistory)
		r.Get("/schedules/{id}/history", auditHandler.GetScheduleHistory)
		r.Get("/audit", auditHandler.QueryAuditLog)
	})

	return r
}
