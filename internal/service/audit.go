package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/store/sqlite"
)

// AuditService reads the project change log.
type AuditService struct {
	auditRepo    *sqlite.AuditRepository
	taskRepo     *sqlite.TaskRepository
	scheduleRepo *sqlite.ScheduleRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo *sqlite.AuditRepository, taskRepo *sqlite.TaskRepository, scheduleRepo *sqlite.ScheduleRepository) *AuditService {
	return &AuditService{
		auditRepo:    auditRepo,
		taskRepo:     taskRepo,
		scheduleRepo: scheduleRepo,
	}
}

// GetTaskHistory returns the changes to a task, newest first. The task may
// be given by name while it still exists. Entries outlive the task, so only
// an unknown ID with no entries is an error.
func (s *AuditService) GetTaskHistory(ref string) ([]*domain.AuditEntry, error) {
	taskID := ref
	if t, err := s.taskRepo.GetByName(ref); err == nil {
		taskID = t.ID
	}

	return s.history(taskID, func() error {
		_, err := s.taskRepo.GetByID(taskID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewTaskNotFoundError(ref)
		}
		return err
	})
}

// GetScheduleHistory returns the audit entries of a schedule run.
func (s *AuditService) GetScheduleHistory(runID string) ([]*domain.AuditEntry, error) {
	return s.history(runID, func() error {
		_, err := s.scheduleRepo.GetByID(runID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewScheduleNotFoundError(runID)
		}
		return err
	})
}

// history loads the entries of subjectID and, when there are none, asks
// exists whether the subject is known at all.
func (s *AuditService) history(subjectID string, exists func() error) ([]*domain.AuditEntry, error) {
	entries, err := s.auditRepo.History(subjectID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if len(entries) > 0 {
		return entries, nil
	}

	if err := exists(); err != nil {
		var derr *domain.DomainError
		if errors.As(err, &derr) {
			return nil, err
		}
		return nil, domain.NewInternalError(err)
	}
	return entries, nil
}

// QueryInput filters the audit log. Nil fields match everything.
type QueryInput struct {
	Action    *string
	AgentID   *string
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	PerPage   int
}

// Query returns one page of the audit log and the number of matches.
func (s *AuditService) Query(input QueryInput) ([]*domain.AuditEntry, int, error) {
	entries, total, err := s.auditRepo.Query(sqlite.AuditFilter{
		Action:    input.Action,
		ChangedBy: input.AgentID,
		Since:     input.StartTime,
		Until:     input.EndTime,
		Page:      input.Page,
		PerPage:   input.PerPage,
	})
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return entries, total, nil
}
