package domain

import (
	"time"
	"unicode/utf8"

	"github.com/taskstar/taskstar/pkg/idgen"
)

const (
	// MaxNameLength is the maximum number of characters in a task name.
	MaxNameLength = 128
	// MaxDuration is the largest duration a task may declare.
	MaxDuration = 1_000_000
)

// Task represents a unit of work with a fixed duration.
type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Duration    int       `json:"duration"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidDuration checks if the duration is within the valid range (1-MaxDuration).
func ValidDuration(d int) bool {
	return d >= 1 && d <= MaxDuration
}

// ValidName checks if the name is non-empty and has at most MaxNameLength
// characters.
func ValidName(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= MaxNameLength
}

// NewTask creates a new task with a fresh ID. Both timestamps are the same
// UTC instant.
func NewTask(name string, duration int, description *string) (*Task, error) {
	id, err := idgen.Generate()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Task{
		ID:          id,
		Name:        name,
		Duration:    duration,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
