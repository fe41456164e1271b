package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a todo id does not exist.
var ErrNotFound = errors.New("todo not found")

// ErrAlreadyCompleted is returned when completing a todo twice.
var ErrAlreadyCompleted = errors.New("todo already completed")

// Todo is a single stored item.
type Todo struct {
	ID          string
	Title       string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Store wraps a SQLite database holding todos.
// Use ":memory:" as the path for throwaway databases in tests and demos.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and applies the
// schema. Idempotent, safe to call on an existing database.
//
// The connection pool is limited to a single connection: SQLite supports one
// writer at a time and a single shared connection avoids SQLITE_BUSY errors.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add inserts a new todo.
func (s *Store) Add(ctx context.Context, id, title string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (id, title, completed, created_at) VALUES (?, ?, 0, ?)`,
		id, title, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("add todo %s: %w", id, err)
	}
	return nil
}

// Complete marks a todo as completed. Fails with ErrNotFound for unknown ids
// and ErrAlreadyCompleted when the todo is already done.
func (s *Store) Complete(ctx context.Context, id string) error {
	var completed bool
	err := s.db.QueryRowContext(ctx, `SELECT completed FROM todos WHERE id = ?`, id).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("complete todo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("complete todo %s: %w", id, err)
	}
	if completed {
		return fmt.Errorf("complete todo %s: %w", id, ErrAlreadyCompleted)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE todos SET completed = 1, completed_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("complete todo %s: %w", id, err)
	}
	return nil
}

// List returns all todos in insertion order.
func (s *Store) List(ctx context.Context) ([]Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, completed, created_at, completed_at FROM todos ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []Todo
	for rows.Next() {
		var (
			t           Todo
			createdAt   string
			completedAt sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &createdAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", t.ID, err)
		}
		if completedAt.Valid {
			at, err := time.Parse(time.RFC3339Nano, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse completed_at for %s: %w", t.ID, err)
			}
			t.CompletedAt = &at
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// CountCompleted returns the number of completed todos.
func (s *Store) CountCompleted(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos WHERE completed = 1`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed: %w", err)
	}
	return n, nil
}
