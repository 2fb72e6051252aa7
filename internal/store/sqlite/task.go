package sqlite

import (
	"database/sql"
	"errors"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/taskstar/taskstar/internal/domain"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate")

const taskColumns = "id, name, duration, description, created_at, updated_at"

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task at the end of the project's task order.
func (r *TaskRepository) Create(task *domain.Task) error {
	_, err := r.db.Exec(`
		INSERT INTO tasks (id, name, duration, description, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks), ?, ?)
	`,
		task.ID,
		task.Name,
		task.Duration,
		task.Description,
		task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339),
	)
	return mapConstraint(err)
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(id string) (*domain.Task, error) {
	row := r.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	return scanTask(row)
}

// GetByName retrieves a task by its unique name.
func (r *TaskRepository) GetByName(name string) (*domain.Task, error) {
	row := r.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE name = ?", name)
	return scanTask(row)
}

// List retrieves tasks in insertion order with pagination.
func (r *TaskRepository) List(page, perPage int) ([]*domain.Task, int, error) {
	offset := (page - 1) * perPage

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(
		"SELECT "+taskColumns+" FROM tasks ORDER BY position ASC LIMIT ? OFFSET ?",
		perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// ListAll retrieves every task in insertion order.
func (r *TaskRepository) ListAll() ([]*domain.Task, error) {
	rows, err := r.db.Query("SELECT " + taskColumns + " FROM tasks ORDER BY position ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Update updates a task's fields.
func (r *TaskRepository) Update(task *domain.Task) error {
	result, err := r.db.Exec(`
		UPDATE tasks
		SET name = ?, duration = ?, description = ?, updated_at = ?
		WHERE id = ?
	`,
		task.Name,
		task.Duration,
		task.Description,
		task.UpdatedAt.Format(time.RFC3339),
		task.ID,
	)
	if err != nil {
		return mapConstraint(err)
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

// Delete deletes a task by ID. Its dependency edges are removed with it.
func (r *TaskRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Duration,
		&description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	task.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	task.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &task, nil
}

func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// mapConstraint turns unique and primary key violations into ErrDuplicate.
func mapConstraint(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return ErrDuplicate
	}
	return err
}
