package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PabloGalante/helper-kust/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
`

// Store is a TaskStore backed by a local SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
// path may be ":memory:".
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(task.ID),
		task.Title,
		task.Description,
		string(task.Status),
		task.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite CreateTask: %w", err)
	}
	return nil
}

// ListTasks returns tasks newest first.
func (s *Store) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, status, created_at
		FROM tasks
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListTasks: %w", err)
	}
	defer rows.Close()

	var result []*domain.Task
	for rows.Next() {
		var (
			t         domain.Task
			id        string
			status    string
			createdAt int64
		)
		if err := rows.Scan(&id, &t.Title, &t.Description, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite ListTasks scan: %w", err)
		}
		t.ID = domain.TaskID(id)
		t.Status = domain.TaskStatus(status)
		t.CreatedAt = time.Unix(0, createdAt)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite ListTasks iterate: %w", err)
	}
	return result, nil
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id domain.TaskID, status domain.TaskStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), string(id))
	if err != nil {
		return fmt.Errorf("sqlite UpdateTaskStatus: %w", err)
	}
	return requireRow(res, id)
}

func (s *Store) DeleteTask(ctx context.Context, id domain.TaskID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("sqlite DeleteTask: %w", err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id domain.TaskID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return nil
}
