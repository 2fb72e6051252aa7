package request

import (
	"fmt"

	"github.com/taskstar/taskstar/internal/domain"
)

// RunScheduleRequest represents a request to schedule the project's tasks.
// Zero values select the defaults.
type RunScheduleRequest struct {
	Algorithm     domain.Algorithm `json:"algorithm,omitempty"`
	Workers       int              `json:"workers,omitempty"`
	MaxExpansions int              `json:"max_expansions,omitempty"`
}

// Validate validates the run schedule request.
func (r *RunScheduleRequest) Validate() []string {
	var errors []string
	if r.Algorithm != "" && !r.Algorithm.IsValid() {
		errors = append(errors, fmt.Sprintf("algorithm must be one of %v", domain.ValidAlgorithms))
	}
	return append(errors, validateLimits(r.Workers, r.MaxExpansions)...)
}

// CompareRequest represents a request to compare algorithms.
type CompareRequest struct {
	Algorithms    []domain.Algorithm `json:"algorithms,omitempty"`
	Workers       int                `json:"workers,omitempty"`
	MaxExpansions int                `json:"max_expansions,omitempty"`
}

// Validate validates the compare request.
func (r *CompareRequest) Validate() []string {
	var errors []string
	for _, a := range r.Algorithms {
		if !a.IsValid() {
			errors = append(errors, fmt.Sprintf("unknown algorithm %q", a))
		}
	}
	return append(errors, validateLimits(r.Workers, r.MaxExpansions)...)
}

func validateLimits(workers, maxExpansions int) []string {
	var errors []string
	if workers != 0 && !domain.ValidWorkers(workers) {
		errors = append(errors, fmt.Sprintf("workers must be between 1 and %d", domain.MaxWorkers))
	}
	if maxExpansions < 0 {
		errors = append(errors, "max_expansions must not be negative")
	}
	return errors
}
