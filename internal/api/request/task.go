package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/taskstar/taskstar/internal/domain"
)

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	Name        string  `json:"name"`
	Duration    int     `json:"duration"`
	Description *string `json:"description,omitempty"`
}

// Validate validates the create task request.
func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, "name is required")
	} else if !domain.ValidName(r.Name) {
		errors = append(errors, fmt.Sprintf("name must be at most %d characters", domain.MaxNameLength))
	}

	if !domain.ValidDuration(r.Duration) {
		errors = append(errors, fmt.Sprintf("duration must be between 1 and %d", domain.MaxDuration))
	}

	return errors
}

// UpdateTaskRequest represents a request to update a task.
type UpdateTaskRequest struct {
	Name        *string `json:"name,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate validates the update task request.
func (r *UpdateTaskRequest) Validate() []string {
	var errors []string

	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			errors = append(errors, "name cannot be empty")
		} else if !domain.ValidName(*r.Name) {
			errors = append(errors, fmt.Sprintf("name must be at most %d characters", domain.MaxNameLength))
		}
	}

	if r.Duration != nil && !domain.ValidDuration(*r.Duration) {
		errors = append(errors, fmt.Sprintf("duration must be between 1 and %d", domain.MaxDuration))
	}

	return errors
}

// DecodeJSON decodes JSON from request body into the given value.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// DecodeOptionalJSON is DecodeJSON for endpoints whose body may be empty.
func DecodeOptionalJSON(r *http.Request, v any) error {
	if err := DecodeJSON(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Pagination contains pagination parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// DefaultPage is the default page number.
const DefaultPage = 1

// DefaultPerPage is the default items per page.
const DefaultPerPage = 50

// MaxPerPage is the maximum items per page.
const MaxPerPage = 100

// ParsePagination extracts pagination from query parameters. Invalid values
// fall back to the defaults.
func ParsePagination(r *http.Request) Pagination {
	page := DefaultPage
	perPage := DefaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if v, err := strconv.Atoi(pp); err == nil && v > 0 {
			perPage = v
		}
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Pagination{Page: page, PerPage: perPage}
}
