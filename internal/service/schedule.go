package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/scheduler"
	"github.com/taskstar/taskstar/internal/store/sqlite"
	"github.com/taskstar/taskstar/pkg/idgen"
)

// ScheduleService runs the schedulers over a project's tasks and keeps the
// resulting runs.
type ScheduleService struct {
	taskRepo     *sqlite.TaskRepository
	depRepo      *sqlite.DependencyRepository
	scheduleRepo *sqlite.ScheduleRepository
	auditRepo    *sqlite.AuditRepository
	logger       *zap.Logger
}

// NewScheduleService creates a new ScheduleService. A nil logger discards output.
func NewScheduleService(
	taskRepo *sqlite.TaskRepository,
	depRepo *sqlite.DependencyRepository,
	scheduleRepo *sqlite.ScheduleRepository,
	auditRepo *sqlite.AuditRepository,
	logger *zap.Logger,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		taskRepo:     taskRepo,
		depRepo:      depRepo,
		scheduleRepo: scheduleRepo,
		auditRepo:    auditRepo,
		logger:       logger,
	}
}

// RunInput contains the input for a schedule run. Zero values select defaults.
type RunInput struct {
	Algorithm     domain.Algorithm
	Workers       int
	MaxExpansions int
}

// Run schedules every task in the project and stores the result.
func (s *ScheduleService) Run(ctx context.Context, input RunInput, agentID string) (*domain.ScheduleRun, error) {
	algo := input.Algorithm
	if algo == "" {
		algo = domain.DefaultAlgorithm
	}
	if !algo.IsValid() {
		return nil, domain.NewValidationError([]string{fmt.Sprintf("unknown algorithm %q", algo)})
	}

	plan, err := s.loadPlan(input.Workers, input.MaxExpansions)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := scheduler.Run(ctx, plan, algo, s.logger)
	if err != nil {
		return nil, mapSchedulerError(err)
	}

	id, err := idgen.GenerateScheduleID()
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	run := res.Run()
	run.ID = id
	run.CreatedAt = time.Now().UTC()
	run.CreatedBy = agentID

	if err := s.scheduleRepo.Create(&run); err != nil {
		return nil, domain.NewInternalError(err)
	}

	entry := domain.NewAuditEntry(run.ID, domain.ActionSchedule, agentID).
		WithField("algorithm").
		WithNewValue(string(run.Algorithm))
	s.auditRepo.Record(entry)

	s.logger.Info("schedule created",
		zap.String("schedule_id", run.ID),
		zap.String("algorithm", string(run.Algorithm)),
		zap.Int("tasks", run.Metrics.TotalTasks),
		zap.Int("workers", run.Workers),
		zap.Int("makespan", run.Metrics.Makespan),
		zap.Bool("optimal", run.Optimal),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &run, nil
}

// Get retrieves a stored run with its entries.
func (s *ScheduleService) Get(id string) (*domain.ScheduleRun, error) {
	run, err := s.scheduleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewScheduleNotFoundError(id)
		}
		return nil, domain.NewInternalError(err)
	}
	return run, nil
}

// List retrieves stored runs newest first, without entries.
func (s *ScheduleService) List(page, perPage int) ([]*domain.ScheduleRun, int, error) {
	runs, total, err := s.scheduleRepo.List(page, perPage)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return runs, total, nil
}

// CompareInput contains the input for comparing algorithms. No algorithms
// means astar and greedy.
type CompareInput struct {
	Algorithms    []domain.Algorithm
	Workers       int
	MaxExpansions int
}

// Compare runs several algorithms over the project's tasks. Nothing is stored.
func (s *ScheduleService) Compare(ctx context.Context, input CompareInput) (*domain.Comparison, error) {
	for _, a := range input.Algorithms {
		if !a.IsValid() {
			return nil, domain.NewValidationError([]string{fmt.Sprintf("unknown algorithm %q", a)})
		}
	}

	plan, err := s.loadPlan(input.Workers, input.MaxExpansions)
	if err != nil {
		return nil, err
	}

	cmp, err := scheduler.Compare(ctx, plan, s.logger, input.Algorithms...)
	if err != nil {
		return nil, mapSchedulerError(err)
	}

	out := &domain.Comparison{
		Workers: plan.Workers(),
		Best:    cmp.Best.Algorithm,
		Runs:    make([]domain.ScheduleRun, len(cmp.Results)),
	}
	for i, r := range cmp.Results {
		out.Runs[i] = r.Run()
	}
	return out, nil
}

// loadPlan reads every task and dependency in the project into a plan.
// Zero workers or expansions select the scheduler defaults.
func (s *ScheduleService) loadPlan(workers, maxExpansions int) (*scheduler.Plan, error) {
	var details []string
	if workers != 0 && !domain.ValidWorkers(workers) {
		details = append(details, fmt.Sprintf("workers must be between 1 and %d", domain.MaxWorkers))
	}
	if maxExpansions < 0 {
		details = append(details, "max_expansions must not be negative")
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}

	tasks, err := s.taskRepo.ListAll()
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	deps, err := s.depRepo.ListAll()
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	parents := domain.ParentsByChild(deps)

	input := make([]scheduler.Task, len(tasks))
	for i, t := range tasks {
		input[i] = scheduler.Task{
			ID:           t.ID,
			Name:         t.Name,
			Duration:     t.Duration,
			Dependencies: parents[t.ID],
		}
	}

	plan, err := scheduler.NewPlan(input, scheduler.Options{Workers: workers, MaxExpansions: maxExpansions})
	if err != nil {
		return nil, mapSchedulerError(err)
	}
	return plan, nil
}

// mapSchedulerError converts scheduler errors to domain errors.
func mapSchedulerError(err error) error {
	var cycle *scheduler.CycleError
	var unknown *scheduler.UnknownDependencyError

	switch {
	case errors.As(err, &cycle):
		return domain.NewCycleDetectedError(cycle.Path)
	case errors.As(err, &unknown):
		return domain.NewUnknownDependencyError(unknown.TaskID, unknown.DependencyID)
	case errors.Is(err, scheduler.ErrScheduleImpossible):
		return domain.NewCycleDetectedError(nil)
	case errors.Is(err, scheduler.ErrNoTasks):
		return domain.NewValidationError([]string{"project has no tasks to schedule"})
	case errors.Is(err, scheduler.ErrInvalidWorkers),
		errors.Is(err, scheduler.ErrInvalidBudget),
		errors.Is(err, scheduler.ErrInvalidTask),
		errors.Is(err, scheduler.ErrUnknownAlgorithm):
		return domain.NewValidationError([]string{err.Error()})
	default:
		return domain.NewInternalError(err)
	}
}
