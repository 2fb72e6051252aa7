package client

import "github.com/taskstar/taskstar/internal/domain"

// Pagination contains pagination metadata from API responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// TaskListResponse represents a paginated list of tasks.
type TaskListResponse = Page[*domain.Task]

// ScheduleListResponse represents a paginated list of schedule runs.
type ScheduleListResponse = Page[*domain.ScheduleRun]

// AuditListResponse represents a paginated audit log query.
type AuditListResponse = Page[domain.AuditEntry]

// TaskUpdates contains optional fields for updating a task.
type TaskUpdates struct {
	Name        *string `json:"name,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u TaskUpdates) IsEmpty() bool {
	return u.Name == nil && u.Duration == nil && u.Description == nil
}

// ScheduleOptions selects how the server schedules a project. Zero values use
// the server defaults.
type ScheduleOptions struct {
	Algorithm     domain.Algorithm `json:"algorithm,omitempty"`
	Workers       int              `json:"workers,omitempty"`
	MaxExpansions int              `json:"max_expansions,omitempty"`
}

// CompareOptions selects the algorithms to compare.
type CompareOptions struct {
	Algorithms    []domain.Algorithm `json:"algorithms,omitempty"`
	Workers       int                `json:"workers,omitempty"`
	MaxExpansions int                `json:"max_expansions,omitempty"`
}

// AuditQuery filters the project audit log.
type AuditQuery struct {
	Action  string
	Agent   string
	Page    int
	PerPage int
}

// Health is the server health report.
type Health struct {
	Status     string             `json:"status"`
	Algorithms []domain.Algorithm `json:"algorithms"`
}

type createTaskRequest struct {
	Name        string  `json:"name"`
	Duration    int     `json:"duration"`
	Description *string `json:"description,omitempty"`
}

type addDependencyRequest struct {
	DependsOn string `json:"depends_on"`
}
