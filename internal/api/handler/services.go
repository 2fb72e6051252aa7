package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taskstar/taskstar/internal/api/middleware"
	"github.com/taskstar/taskstar/internal/service"
	"github.com/taskstar/taskstar/internal/store/sqlite"
)

// services holds the per-request services bound to the project database.
type services struct {
	tasks     *service.TaskService
	deps      *service.DependencyService
	schedules *service.ScheduleService
	audit     *service.AuditService
}

func servicesFor(r *http.Request, logger *zap.Logger) services {
	db := middleware.DB(r.Context())

	taskRepo := sqlite.NewTaskRepository(db)
	depRepo := sqlite.NewDependencyRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	scheduleRepo := sqlite.NewScheduleRepository(db)

	if logger != nil {
		logger = logger.With(zap.String("project", middleware.Project(r.Context())))
	}

	return services{
		tasks:     service.NewTaskService(taskRepo, auditRepo),
		deps:      service.NewDependencyService(depRepo, taskRepo, auditRepo),
		schedules: service.NewScheduleService(taskRepo, depRepo, scheduleRepo, auditRepo, logger),
		audit:     service.NewAuditService(auditRepo, taskRepo, scheduleRepo),
	}
}
