package sqlite

import (
	"database/sql"

	"github.com/taskstar/taskstar/internal/domain"
)

// DependencyRepository handles dependency persistence operations.
type DependencyRepository struct {
	db *sql.DB
}

// NewDependencyRepository creates a new DependencyRepository.
func NewDependencyRepository(db *sql.DB) *DependencyRepository {
	return &DependencyRepository{db: db}
}

// Add records that child cannot start before parent finishes.
func (r *DependencyRepository) Add(childID, parentID string) error {
	_, err := r.db.Exec(
		"INSERT INTO dependencies (child_id, parent_id) VALUES (?, ?)",
		childID, parentID,
	)
	return mapConstraint(err)
}

// Remove removes a dependency.
func (r *DependencyRepository) Remove(childID, parentID string) error {
	result, err := r.db.Exec(
		"DELETE FROM dependencies WHERE child_id = ? AND parent_id = ?",
		childID, parentID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByChild returns all dependencies for a given child task.
func (r *DependencyRepository) ListByChild(childID string) ([]*domain.Dependency, error) {
	rows, err := r.db.Query(
		"SELECT child_id, parent_id FROM dependencies WHERE child_id = ? ORDER BY rowid",
		childID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDependencies(rows)
}

// ListAll returns every dependency edge in the project, ordered by the
// child's position and then the parent's.
func (r *DependencyRepository) ListAll() ([]*domain.Dependency, error) {
	rows, err := r.db.Query(`
		SELECT d.child_id, d.parent_id
		FROM dependencies d
		JOIN tasks c ON c.id = d.child_id
		JOIN tasks p ON p.id = d.parent_id
		ORDER BY c.position ASC, p.position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDependencies(rows)
}

// ListByParent returns all tasks that depend on a given parent task.
func (r *DependencyRepository) ListByParent(parentID string) ([]*domain.Dependency, error) {
	rows, err := r.db.Query(
		"SELECT child_id, parent_id FROM dependencies WHERE parent_id = ? ORDER BY rowid",
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDependencies(rows)
}

// Exists reports whether child already depends on parent.
func (r *DependencyRepository) Exists(childID, parentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM dependencies WHERE child_id = ? AND parent_id = ?)",
		childID, parentID,
	).Scan(&exists)
	return exists, err
}

// WouldCreateCycle reports the cycle that making child depend on parent
// would close, as a path starting and ending at child, or nil when the edge
// is safe. The edge closes a cycle iff child is already an ancestor of
// parent.
func (r *DependencyRepository) WouldCreateCycle(childID, parentID string) ([]string, error) {
	all, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	parents := domain.ParentsByChild(all)

	cameFrom := map[string]string{parentID: ""}
	queue := []string{parentID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == childID {
			path := []string{childID}
			for node := childID; node != parentID; {
				node = cameFrom[node]
				path = append(path, node)
			}
			return append(path, childID), nil
		}

		for _, p := range parents[current] {
			if _, seen := cameFrom[p]; !seen {
				cameFrom[p] = current
				queue = append(queue, p)
			}
		}
	}
	return nil, nil
}

func scanDependencies(rows *sql.Rows) ([]*domain.Dependency, error) {
	var deps []*domain.Dependency
	for rows.Next() {
		var dep domain.Dependency
		if err := rows.Scan(&dep.ChildID, &dep.ParentID); err != nil {
			return nil, err
		}
		deps = append(deps, &dep)
	}
	return deps, rows.Err()
}
