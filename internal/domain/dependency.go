package domain

// Dependency is an edge of the task graph: the child cannot start until the
// parent has finished.
type Dependency struct {
	ChildID  string `json:"child_id"`
	ParentID string `json:"parent_id"`
}

// NewDependency creates a dependency of child on parent.
func NewDependency(childID, parentID string) Dependency {
	return Dependency{
		ChildID:  childID,
		ParentID: parentID,
	}
}

// Validate rejects edges with a missing end and self-dependencies.
func (d Dependency) Validate() error {
	var details []string
	if d.ChildID == "" {
		details = append(details, "child task is required")
	}
	if d.ParentID == "" {
		details = append(details, "depends_on is required")
	}
	if len(details) == 0 && d.ChildID == d.ParentID {
		details = append(details, "Cannot add self-dependency")
	}
	if len(details) > 0 {
		return NewValidationError(details)
	}
	return nil
}

// ParentsByChild groups edges by child, keeping their order.
func ParentsByChild(deps []*Dependency) map[string][]string {
	parents := make(map[string][]string)
	for _, d := range deps {
		parents[d.ChildID] = append(parents[d.ChildID], d.ParentID)
	}
	return parents
}
