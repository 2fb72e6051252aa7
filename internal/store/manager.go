package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// initialSchema is the SQL schema for initializing a new project database.
const initialSchema = `
-- Enable WAL mode for better concurrent read performance
PRAGMA journal_mode=WAL;

-- Tasks table
CREATE TABLE IF NOT EXISTS tasks (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    duration    INTEGER NOT NULL CHECK (duration >= 1),
    description TEXT,
    position    INTEGER NOT NULL,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

-- Index for listing tasks in insertion order
CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);

-- Dependencies table (DAG edges)
CREATE TABLE IF NOT EXISTS dependencies (
    child_id  TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    parent_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    PRIMARY KEY (child_id, parent_id),
    CHECK (child_id != parent_id)
);

-- Index for finding what a task depends on
CREATE INDEX IF NOT EXISTS idx_dependencies_child ON dependencies(child_id);

-- Index for finding what depends on a task
CREATE INDEX IF NOT EXISTS idx_dependencies_parent ON dependencies(parent_id);

-- Schedule runs table
CREATE TABLE IF NOT EXISTS schedules (
    id         TEXT PRIMARY KEY,
    algorithm  TEXT NOT NULL CHECK (algorithm IN ('astar', 'greedy', 'search')),
    workers    INTEGER NOT NULL CHECK (workers >= 1),
    optimal    INTEGER NOT NULL DEFAULT 0,
    expansions INTEGER NOT NULL DEFAULT 0,
    metrics    TEXT NOT NULL,
    created_at TEXT NOT NULL,
    created_by TEXT NOT NULL
);

-- Index for listing schedules newest first
CREATE INDEX IF NOT EXISTS idx_schedules_created_at ON schedules(created_at);

-- Schedule entries table. Task names are copied so a run survives task deletion.
CREATE TABLE IF NOT EXISTS schedule_entries (
    schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
    seq         INTEGER NOT NULL,
    task_id     TEXT NOT NULL,
    name        TEXT NOT NULL,
    start_time  INTEGER NOT NULL,
    end_time    INTEGER NOT NULL,
    worker      INTEGER NOT NULL,
    PRIMARY KEY (schedule_id, seq)
);

-- Audit log table
CREATE TABLE IF NOT EXISTS audit_log (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id    TEXT NOT NULL,
    action     TEXT NOT NULL,
    field      TEXT,
    old_value  TEXT,
    new_value  TEXT,
    changed_at TEXT NOT NULL,
    changed_by TEXT NOT NULL
);

-- Index for querying audit log by task
CREATE INDEX IF NOT EXISTS idx_audit_log_task_id ON audit_log(task_id);

-- Index for querying audit log by action
CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);

-- Index for querying audit log by agent
CREATE INDEX IF NOT EXISTS idx_audit_log_changed_by ON audit_log(changed_by);

-- Index for querying audit log by time
CREATE INDEX IF NOT EXISTS idx_audit_log_changed_at ON audit_log(changed_at);
`

// Manager handles multiple SQLite database connections, one per project.
type Manager struct {
	basePath string
	dbs      map[string]*sql.DB
	mu       sync.RWMutex
}

// NewManager creates a new database manager.
// basePath is the directory where project databases are stored (e.g., ~/.taskstar/projects/).
func NewManager(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return &Manager{
		basePath: basePath,
		dbs:      make(map[string]*sql.DB),
	}, nil
}

// GetDB returns the database connection for a project, creating it if necessary.
func (m *Manager) GetDB(project string) (*sql.DB, error) {
	m.mu.RLock()
	if db, ok := m.dbs[project]; ok {
		m.mu.RUnlock()
		return db, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if db, ok := m.dbs[project]; ok {
		return db, nil
	}

	dbPath := filepath.Join(m.basePath, project+".db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(initialSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	m.dbs[project] = db
	return db, nil
}

// ListProjects returns the names of all projects with a database file, sorted.
func (m *Manager) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".db" {
			projects = append(projects, name[:len(name)-3])
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// Close closes all database connections.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for project, db := range m.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", project, err))
		}
	}
	m.dbs = make(map[string]*sql.DB)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing databases: %v", errs)
	}
	return nil
}
