package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taskstar/taskstar/internal/domain"
)

// ScheduleRepository handles schedule run persistence operations.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create stores a run and its entries in one transaction.
func (r *ScheduleRepository) Create(run *domain.ScheduleRun) error {
	metrics, err := json.Marshal(run.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO schedules (id, algorithm, workers, optimal, expansions, metrics, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.Algorithm),
		run.Workers,
		run.Optimal,
		run.Expansions,
		string(metrics),
		run.CreatedAt.Format(time.RFC3339),
		run.CreatedBy,
	)
	if err != nil {
		return mapConstraint(err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO schedule_entries (schedule_id, seq, task_id, name, start_time, end_time, worker)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range run.Entries {
		if _, err := stmt.Exec(run.ID, i, e.TaskID, e.Name, e.Start, e.End, e.Worker); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a run with its entries in dispatch order.
func (r *ScheduleRepository) GetByID(id string) (*domain.ScheduleRun, error) {
	row := r.db.QueryRow(`
		SELECT id, algorithm, workers, optimal, expansions, metrics, created_at, created_by
		FROM schedules WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT task_id, name, start_time, end_time, worker
		FROM schedule_entries
		WHERE schedule_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run.Entries = []domain.ScheduleEntry{}
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.TaskID, &e.Name, &e.Start, &e.End, &e.Worker); err != nil {
			return nil, err
		}
		run.Entries = append(run.Entries, e)
	}
	return run, rows.Err()
}

// List retrieves runs newest first with pagination. Entries are not loaded.
func (r *ScheduleRepository) List(page, perPage int) ([]*domain.ScheduleRun, int, error) {
	offset := (page - 1) * perPage

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM schedules").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`
		SELECT id, algorithm, workers, optimal, expansions, metrics, created_at, created_by
		FROM schedules
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*domain.ScheduleRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

func scanRun(row rowScanner) (*domain.ScheduleRun, error) {
	var run domain.ScheduleRun
	var algorithm, metrics, createdAt string

	err := row.Scan(
		&run.ID,
		&algorithm,
		&run.Workers,
		&run.Optimal,
		&run.Expansions,
		&metrics,
		&createdAt,
		&run.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	run.Algorithm = domain.Algorithm(algorithm)
	if err := json.Unmarshal([]byte(metrics), &run.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics for schedule %s: %w", run.ID, err)
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &run, nil
}
