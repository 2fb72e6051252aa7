package service

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/store/sqlite"
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo  *sqlite.TaskRepository
	auditRepo *sqlite.AuditRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo *sqlite.TaskRepository, auditRepo *sqlite.AuditRepository) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
	}
}

// CreateTaskInput contains the input for creating a task.
type CreateTaskInput struct {
	Name        string
	Duration    int
	Description *string
}

// Create creates a new task.
func (s *TaskService) Create(input CreateTaskInput, agentID string) (*domain.Task, error) {
	if err := validateTask(input.Name, input.Duration); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(input.Name, input.Duration, input.Description)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	if err := s.taskRepo.Create(task); err != nil {
		if errors.Is(err, sqlite.ErrDuplicate) {
			return nil, domain.NewDuplicateNameError(input.Name)
		}
		return nil, domain.NewInternalError(err)
	}

	entry := domain.NewAuditEntry(task.ID, domain.ActionCreate, agentID).WithNewValue(task.Name)
	s.auditRepo.Record(entry)

	return task, nil
}

// Get retrieves a task by ID, falling back to a lookup by name.
func (s *TaskService) Get(ref string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ref)
	if errors.Is(err, sql.ErrNoRows) {
		task, err = s.taskRepo.GetByName(ref)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewTaskNotFoundError(ref)
		}
		return nil, domain.NewInternalError(err)
	}
	return task, nil
}

// List retrieves tasks in insertion order with pagination.
func (s *TaskService) List(page, perPage int) ([]*domain.Task, int, error) {
	tasks, total, err := s.taskRepo.List(page, perPage)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return tasks, total, nil
}

// UpdateTaskInput contains the input for updating a task.
type UpdateTaskInput struct {
	Name        *string
	Duration    *int
	Description *string
}

// Update updates a task. Every changed field gets its own audit entry.
func (s *TaskService) Update(ref string, input UpdateTaskInput, agentID string) (*domain.Task, error) {
	task, err := s.Get(ref)
	if err != nil {
		return nil, err
	}

	name, duration := task.Name, task.Duration
	if input.Name != nil {
		name = *input.Name
	}
	if input.Duration != nil {
		duration = *input.Duration
	}
	if err := validateTask(name, duration); err != nil {
		return nil, err
	}

	var changes []domain.AuditEntry
	if name != task.Name {
		changes = append(changes, domain.NewAuditEntry(task.ID, domain.ActionUpdate, agentID).
			WithField("name").WithOldValue(task.Name).WithNewValue(name))
		task.Name = name
	}
	if duration != task.Duration {
		changes = append(changes, domain.NewAuditEntry(task.ID, domain.ActionUpdate, agentID).
			WithField("duration").WithOldValue(strconv.Itoa(task.Duration)).WithNewValue(strconv.Itoa(duration)))
		task.Duration = duration
	}
	if input.Description != nil {
		oldDesc := ""
		if task.Description != nil {
			oldDesc = *task.Description
		}
		if *input.Description != oldDesc {
			changes = append(changes, domain.NewAuditEntry(task.ID, domain.ActionUpdate, agentID).
				WithField("description").WithOldValue(oldDesc).WithNewValue(*input.Description))
			task.Description = input.Description
		}
	}

	if len(changes) == 0 {
		return task, nil
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.taskRepo.Update(task); err != nil {
		if errors.Is(err, sqlite.ErrDuplicate) {
			return nil, domain.NewDuplicateNameError(task.Name)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewTaskNotFoundError(ref)
		}
		return nil, domain.NewInternalError(err)
	}

	s.auditRepo.Record(changes...)
	return task, nil
}

// Delete deletes a task and its dependency edges.
func (s *TaskService) Delete(ref string, agentID string) error {
	task, err := s.Get(ref)
	if err != nil {
		return err
	}

	entry := domain.NewAuditEntry(task.ID, domain.ActionDelete, agentID).WithOldValue(task.Name)
	s.auditRepo.Record(entry)

	if err := s.taskRepo.Delete(task.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewTaskNotFoundError(ref)
		}
		return domain.NewInternalError(err)
	}
	return nil
}

func validateTask(name string, duration int) error {
	var details []string
	if !domain.ValidName(name) {
		details = append(details, "name is required and must be at most "+strconv.Itoa(domain.MaxNameLength)+" characters")
	}
	if !domain.ValidDuration(duration) {
		details = append(details, "duration must be between 1 and "+strconv.Itoa(domain.MaxDuration))
	}
	if len(details) > 0 {
		return domain.NewValidationError(details)
	}
	return nil
}
