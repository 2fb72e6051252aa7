package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by NewPlan and the schedulers.
var (
	// ErrNoTasks is returned when a plan is built from an empty task list.
	ErrNoTasks = errors.New("no tasks to schedule")

	// ErrInvalidTask is matched by TaskError.
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidWorkers is returned when the worker count is out of range.
	ErrInvalidWorkers = errors.New("worker count must be at least 1")

	// ErrInvalidBudget is returned for a negative expansion budget.
	ErrInvalidBudget = errors.New("max expansions must not be negative")

	// ErrUnknownAlgorithm is returned by New for an unrecognized algorithm.
	ErrUnknownAlgorithm = errors.New("unknown scheduling algorithm")

	// ErrScheduleImpossible is returned when tasks remain but none is ready.
	ErrScheduleImpossible = errors.New("circular dependency or scheduling impossible")
)

// TaskError describes a task that failed validation.
type TaskError struct {
	TaskID string
	Reason string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q: %s", e.TaskID, e.Reason)
}

func (e *TaskError) Is(target error) bool {
	return target == ErrInvalidTask
}

// UnknownDependencyError is returned when a task depends on an ID that is not
// part of the plan.
type UnknownDependencyError struct {
	TaskID       string
	DependencyID string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("task %q depends on unknown task %q", e.TaskID, e.DependencyID)
}

// CycleError is returned when the dependency graph contains a cycle. Path
// starts and ends with the same task.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrScheduleImpossible
}
