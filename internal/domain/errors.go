package domain

import "fmt"

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeTaskNotFound       ErrorCode = "TASK_NOT_FOUND"
	ErrCodeDuplicateName      ErrorCode = "DUPLICATE_NAME"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeCycleDetected      ErrorCode = "CYCLE_DETECTED"
	ErrCodeUnknownDependency  ErrorCode = "UNKNOWN_DEPENDENCY"
	ErrCodeScheduleNotFound   ErrorCode = "SCHEDULE_NOT_FOUND"
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrCodeProjectNotFound    ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeDependencyNotFound ErrorCode = "DEPENDENCY_NOT_FOUND"
)

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewTaskNotFoundError creates a task not found error.
func NewTaskNotFoundError(taskID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTaskNotFound,
		Message: fmt.Sprintf("Task %s not found", taskID),
		Context: map[string]interface{}{"id": taskID},
	}
}

// NewDuplicateNameError creates an error for a task name that is already taken.
func NewDuplicateNameError(name string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateName,
		Message: fmt.Sprintf("A task named %q already exists", name),
		Context: map[string]interface{}{"name": name},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Context: map[string]interface{}{"details": details},
	}
}

// NewCycleDetectedError creates a cycle detected error.
func NewCycleDetectedError(path []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCycleDetected,
		Message: "Circular dependency: scheduling is impossible",
		Context: map[string]interface{}{"path": path},
	}
}

// NewUnknownDependencyError creates an error for a dependency on a task that does not exist.
func NewUnknownDependencyError(taskID, dependencyID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownDependency,
		Message: fmt.Sprintf("Task %s depends on unknown task %s", taskID, dependencyID),
		Context: map[string]interface{}{
			"task_id":       taskID,
			"dependency_id": dependencyID,
		},
	}
}

// NewScheduleNotFoundError creates a schedule not found error.
func NewScheduleNotFoundError(scheduleID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeScheduleNotFound,
		Message: fmt.Sprintf("Schedule %s not found", scheduleID),
		Context: map[string]interface{}{"id": scheduleID},
	}
}

// NewProjectNotFoundError creates a project not found error.
func NewProjectNotFoundError(project string) *DomainError {
	return &DomainError{
		Code:    ErrCodeProjectNotFound,
		Message: fmt.Sprintf("Project %s not found", project),
		Context: map[string]interface{}{"project": project},
	}
}

// NewDependencyNotFoundError creates a dependency not found error.
func NewDependencyNotFoundError(childID, parentID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDependencyNotFound,
		Message: fmt.Sprintf("Dependency from %s to %s not found", childID, parentID),
		Context: map[string]interface{}{
			"child_id":  childID,
			"parent_id": parentID,
		},
	}
}

// NewInternalError creates an internal error. The cause is not exposed to callers.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Context: map[string]interface{}{},
	}
}
