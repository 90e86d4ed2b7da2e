package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/model"
	_ "modernc.org/sqlite"
)

// Reserved keys for guest data. Never shared with authenticated data, which
// only ever lives on the server.
const (
	localKeyCategories = "categories_guest"
	localKeyTodos      = "todos_guest"
)

const migrationGuestState = `
CREATE TABLE IF NOT EXISTS guest_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Local is the guest-mode target: the full in-memory structures serialized
// as JSON under fixed keys in a single-file SQLite database. No identity is
// required.
type Local struct {
	db *sql.DB
}

// DefaultLocalPath returns the default guest database path (~/.daygrid/guest.db)
func DefaultLocalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".daygrid", "guest.db"), nil
}

// OpenLocal opens or creates the guest database
func OpenLocal(path string) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open guest database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to guest database: %w", err)
	}

	if _, err := db.Exec(migrationGuestState); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Local{db: db}, nil
}

// OpenLocalDefault opens the guest database at the default path
func OpenLocalDefault() (*Local, error) {
	path, err := DefaultLocalPath()
	if err != nil {
		return nil, err
	}
	return OpenLocal(path)
}

// Close closes the underlying database
func (l *Local) Close() error {
	return l.db.Close()
}

func (l *Local) get(ctx context.Context, key string, v interface{}) (bool, error) {
	var raw string
	err := l.db.QueryRowContext(ctx, `SELECT value FROM guest_state WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("corrupt guest state under %q: %w", key, err)
	}
	return true, nil
}

func (l *Local) put(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO guest_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw))
	return err
}

// LoadCategories returns the stored guest categories, or nil when none have
// been saved yet.
func (l *Local) LoadCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	ok, err := l.get(ctx, localKeyCategories, &cats)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return cats, nil
}

// LoadTodos returns the stored guest per-day map, or an empty map.
func (l *Local) LoadTodos(ctx context.Context) (model.DayTodos, error) {
	todos := model.DayTodos{}
	if _, err := l.get(ctx, localKeyTodos, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// ReplaceCategories overwrites the stored guest category sequence.
func (l *Local) ReplaceCategories(ctx context.Context, cats []model.Category) error {
	if err := l.put(ctx, localKeyCategories, cats); err != nil {
		return fmt.Errorf("failed to save categories: %w", err)
	}
	logger.Debug("Saved guest categories", logger.F("count", len(cats)))
	return nil
}

// ReplaceTodosForDay overwrites one day's list inside the stored map. The
// whole map is rewritten under the fixed key; days with empty lists are
// dropped so absence stays equivalent to empty.
func (l *Local) ReplaceTodosForDay(ctx context.Context, dayKey string, items []model.TodoItem) error {
	todos, err := l.LoadTodos(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		delete(todos, dayKey)
	} else {
		todos[dayKey] = items
	}

	if err := l.put(ctx, localKeyTodos, todos); err != nil {
		return fmt.Errorf("failed to save todos: %w", err)
	}
	logger.Debug("Saved guest todos", logger.F("dayKey", dayKey), logger.F("count", len(items)))
	return nil
}
