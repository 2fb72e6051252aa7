package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taskstar/taskstar/internal/domain"
)

const auditColumns = "id, task_id, action, field, old_value, new_value, changed_at, changed_by"

// AuditRepository stores the change log of tasks, dependencies and
// schedule runs. An entry's subject is a task ID or a schedule run ID.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record appends entries in a single transaction.
func (r *AuditRepository) Record(entries ...domain.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO audit_log (task_id, action, field, old_value, new_value, changed_at, changed_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.TaskID, e.Action, e.Field, e.OldValue, e.NewValue,
			e.ChangedAt.Format(time.RFC3339), e.ChangedBy); err != nil {
			return fmt.Errorf("record %s of %s: %w", e.Action, e.TaskID, err)
		}
	}
	return tx.Commit()
}

// History returns every entry for one subject, newest first.
func (r *AuditRepository) History(subjectID string) ([]*domain.AuditEntry, error) {
	rows, err := r.db.Query(
		"SELECT "+auditColumns+" FROM audit_log WHERE task_id = ? ORDER BY changed_at DESC, id DESC",
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// AuditFilter narrows an audit log query. Nil fields match everything.
type AuditFilter struct {
	Action    *string
	ChangedBy *string
	Since     *time.Time
	Until     *time.Time
	Page      int
	PerPage   int
}

func (f AuditFilter) where() (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}
	if f.Action != nil {
		add("action = ?", *f.Action)
	}
	if f.ChangedBy != nil {
		add("changed_by = ?", *f.ChangedBy)
	}
	if f.Since != nil {
		add("changed_at >= ?", f.Since.UTC().Format(time.RFC3339))
	}
	if f.Until != nil {
		add("changed_at <= ?", f.Until.UTC().Format(time.RFC3339))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Query returns one page of matching entries, newest first, and the number
// of matches.
func (r *AuditRepository) Query(f AuditFilter) ([]*domain.AuditEntry, int, error) {
	where, args := f.where()

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM audit_log"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(
		"SELECT "+auditColumns+" FROM audit_log"+where+" ORDER BY changed_at DESC, id DESC LIMIT ? OFFSET ?",
		append(args, f.PerPage, (f.Page-1)*f.PerPage)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := scanAuditEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func scanAuditEntries(rows *sql.Rows) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	for rows.Next() {
		var (
			e                         domain.AuditEntry
			field, oldValue, newValue sql.NullString
			changedAt                 string
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Action, &field, &oldValue, &newValue, &changedAt, &e.ChangedBy); err != nil {
			return nil, err
		}

		e.Field = nullableString(field)
		e.OldValue = nullableString(oldValue)
		e.NewValue = nullableString(newValue)
		e.ChangedAt, _ = time.Parse(time.RFC3339, changedAt)

		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
