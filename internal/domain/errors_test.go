package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := &DomainError{
		Code:    ErrCodeTaskNotFound,
		Message: "Test message",
		Context: map[string]interface{}{"key": "value"},
	}

	if err.Error() != "Test message" {
		t.Errorf("DomainError.Error() = %v, want %v", err.Error(), "Test message")
	}
}

func TestDomainError_As(t *testing.T) {
	var wrapped error = NewScheduleNotFoundError("sc-1")

	var domainErr *DomainError
	if !errors.As(wrapped, &domainErr) {
		t.Fatal("errors.As should match *DomainError")
	}
	if domainErr.Code != ErrCodeScheduleNotFound {
		t.Errorf("Code = %v, want %v", domainErr.Code, ErrCodeScheduleNotFound)
	}
}

func TestNewTaskNotFoundError(t *testing.T) {
	taskID := "tk-123456"
	err := NewTaskNotFoundError(taskID)

	if err.Code != ErrCodeTaskNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTaskNotFound)
	}
	if !strings.Contains(err.Message, taskID) {
		t.Errorf("Message should contain task ID, got: %v", err.Message)
	}
	if err.Context["id"] != taskID {
		t.Errorf("Context[id] = %v, want %v", err.Context["id"], taskID)
	}
}

func TestNewDuplicateNameError(t *testing.T) {
	err := NewDuplicateNameError("Backend")

	if err.Code != ErrCodeDuplicateName {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateName)
	}
	if !strings.Contains(err.Message, "Backend") {
		t.Errorf("Message should contain the name, got: %v", err.Message)
	}
	if err.Context["name"] != "Backend" {
		t.Errorf("Context[name] = %v, want Backend", err.Context["name"])
	}
}

func TestNewValidationError(t *testing.T) {
	details := []string{"name is required", "duration must be at least 1"}
	err := NewValidationError(details)

	if err.Code != ErrCodeValidationFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidationFailed)
	}
	got, ok := err.Context["details"].([]string)
	if !ok {
		t.Fatalf("Context[details] has type %T, want []string", err.Context["details"])
	}
	if len(got) != 2 {
		t.Errorf("Context[details] has %d items, want 2", len(got))
	}
}

func TestNewCycleDetectedError(t *testing.T) {
	path := []string{"tk-a", "tk-b", "tk-a"}
	err := NewCycleDetectedError(path)

	if err.Code != ErrCodeCycleDetected {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCycleDetected)
	}
	got, ok := err.Context["path"].([]string)
	if !ok || len(got) != 3 {
		t.Errorf("Context[path] = %v, want %v", err.Context["path"], path)
	}
}

func TestNewUnknownDependencyError(t *testing.T) {
	err := NewUnknownDependencyError("Testing", "QA")

	if err.Code != ErrCodeUnknownDependency {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownDependency)
	}
	if err.Context["task_id"] != "Testing" {
		t.Errorf("Context[task_id] = %v, want Testing", err.Context["task_id"])
	}
	if err.Context["dependency_id"] != "QA" {
		t.Errorf("Context[dependency_id] = %v, want QA", err.Context["dependency_id"])
	}
}

func TestNewDependencyNotFoundError(t *testing.T) {
	err := NewDependencyNotFoundError("tk-child", "tk-parent")

	if err.Code != ErrCodeDependencyNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDependencyNotFound)
	}
	if err.Context["child_id"] != "tk-child" {
		t.Errorf("Context[child_id] = %v, want tk-child", err.Context["child_id"])
	}
	if err.Context["parent_id"] != "tk-parent" {
		t.Errorf("Context[parent_id] = %v, want tk-parent", err.Context["parent_id"])
	}
}

func TestNewInternalError(t *testing.T) {
	err := NewInternalError(errors.New("disk I/O error"))

	if err.Code != ErrCodeInternalError {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternalError)
	}
	// Message should not expose internal details
	if strings.Contains(err.Message, "disk") {
		t.Error("Internal error message should not expose details")
	}
}

func TestErrorCodes_Unique(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeTaskNotFound,
		ErrCodeDuplicateName,
		ErrCodeValidationFailed,
		ErrCodeCycleDetected,
		ErrCodeUnknownDependency,
		ErrCodeScheduleNotFound,
		ErrCodeInternalError,
		ErrCodeProjectNotFound,
		ErrCodeDependencyNotFound,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true
	}
}
