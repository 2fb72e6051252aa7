package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/taskstar/taskstar/internal/domain"
)

// Client-specific errors.
var (
	// ErrServerNotRunning indicates the server is not reachable.
	ErrServerNotRunning = errors.New("server is not running or unreachable")
	// ErrServerUnhealthy indicates the health check failed.
	ErrServerUnhealthy = errors.New("server health check failed")
)

// APIError represents an error response from the API.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

type apiErrorResponse struct {
	Error APIError `json:"error"`
}

// parseErrorResponse parses an error response from the API and returns the
// matching domain error.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Code == "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}

	return mapAPIErrorToDomain(&apiErr.Error)
}

// mapAPIErrorToDomain rebuilds the domain error the server reported.
func mapAPIErrorToDomain(apiErr *APIError) error {
	str := func(key string) string {
		s, _ := apiErr.Context[key].(string)
		return s
	}

	switch domain.ErrorCode(apiErr.Code) {
	case domain.ErrCodeTaskNotFound:
		return domain.NewTaskNotFoundError(str("id"))
	case domain.ErrCodeDuplicateName:
		return domain.NewDuplicateNameError(str("name"))
	case domain.ErrCodeValidationFailed:
		return domain.NewValidationError(extractStringSlice(apiErr.Context, "details"))
	case domain.ErrCodeCycleDetected:
		return domain.NewCycleDetectedError(extractStringSlice(apiErr.Context, "path"))
	case domain.ErrCodeUnknownDependency:
		return domain.NewUnknownDependencyError(str("task_id"), str("dependency_id"))
	case domain.ErrCodeScheduleNotFound:
		return domain.NewScheduleNotFoundError(str("id"))
	case domain.ErrCodeProjectNotFound:
		return domain.NewProjectNotFoundError(str("project"))
	case domain.ErrCodeDependencyNotFound:
		return domain.NewDependencyNotFoundError(str("child_id"), str("parent_id"))
	default:
		return &domain.DomainError{
			Code:    domain.ErrorCode(apiErr.Code),
			Message: apiErr.Message,
			Context: apiErr.Context,
		}
	}
}

// extractStringSlice extracts a string slice from a context map.
func extractStringSlice(ctx map[string]any, key string) []string {
	// JSON unmarshals arrays as []any
	slice, ok := ctx[key].([]any)
	if !ok {
		return nil
	}

	result := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// wrapConnectionError turns a refused connection into ErrServerNotRunning.
func wrapConnectionError(op string, err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrServerNotRunning
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
