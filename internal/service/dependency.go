package service

import (
	"database/sql"
	"errors"

	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/store/sqlite"
)

// DependencyService handles dependency business logic.
type DependencyService struct {
	depRepo   *sqlite.DependencyRepository
	tasks     *TaskService
	auditRepo *sqlite.AuditRepository
}

// NewDependencyService creates a new DependencyService.
func NewDependencyService(depRepo *sqlite.DependencyRepository, taskRepo *sqlite.TaskRepository, auditRepo *sqlite.AuditRepository) *DependencyService {
	return &DependencyService{
		depRepo:   depRepo,
		tasks:     NewTaskService(taskRepo, auditRepo),
		auditRepo: auditRepo,
	}
}

// Add records that child cannot start before parent finishes. Both may be
// given by ID or name. Adding an existing edge is a no-op.
func (s *DependencyService) Add(childRef, parentRef, agentID string) (*domain.Dependency, error) {
	child, err := s.tasks.Get(childRef)
	if err != nil {
		return nil, err
	}
	parent, err := s.tasks.Get(parentRef)
	if err != nil {
		return nil, err
	}

	dep := domain.NewDependency(child.ID, parent.ID)
	if err := dep.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.depRepo.Exists(child.ID, parent.ID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if exists {
		return &dep, nil
	}

	cyclePath, err := s.depRepo.WouldCreateCycle(child.ID, parent.ID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if cyclePath != nil {
		return nil, domain.NewCycleDetectedError(cyclePath)
	}

	if err := s.depRepo.Add(child.ID, parent.ID); err != nil && !errors.Is(err, sqlite.ErrDuplicate) {
		return nil, domain.NewInternalError(err)
	}

	entry := domain.NewAuditEntry(child.ID, domain.ActionAddDependency, agentID).
		WithField("depends_on").WithNewValue(parent.ID)
	s.auditRepo.Record(entry)

	return &dep, nil
}

// Remove removes a dependency.
func (s *DependencyService) Remove(childRef, parentRef, agentID string) error {
	child, err := s.tasks.Get(childRef)
	if err != nil {
		return err
	}
	parent, err := s.tasks.Get(parentRef)
	if err != nil {
		if isCode(err, domain.ErrCodeTaskNotFound) {
			return domain.NewDependencyNotFoundError(child.ID, parentRef)
		}
		return err
	}

	if err := s.depRepo.Remove(child.ID, parent.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewDependencyNotFoundError(child.ID, parent.ID)
		}
		return domain.NewInternalError(err)
	}

	entry := domain.NewAuditEntry(child.ID, domain.ActionRemoveDependency, agentID).
		WithField("depends_on").WithOldValue(parent.ID)
	s.auditRepo.Record(entry)

	return nil
}

// List lists the tasks a task depends on.
func (s *DependencyService) List(ref string) ([]*domain.Dependency, error) {
	task, err := s.tasks.Get(ref)
	if err != nil {
		return nil, err
	}

	deps, err := s.depRepo.ListByChild(task.ID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return deps, nil
}

func isCode(err error, code domain.ErrorCode) bool {
	var de *domain.DomainError
	return errors.As(err, &de) && de.Code == code
}
