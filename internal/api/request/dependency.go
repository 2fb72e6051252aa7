package request

import "strings"

// AddDependencyRequest represents a request to add a dependency. DependsOn
// may be a task ID or name.
type AddDependencyRequest struct {
	DependsOn string `json:"depends_on"`
}

// Validate validates the add dependency request.
func (r *AddDependencyRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.DependsOn) == "" {
		errors = append(errors, "depends_on is required")
	}

	return errors
}
