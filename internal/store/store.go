// Package store implements durable persistence for conversation messages
// and to-do items over the local sqlite database.
//
// The store is the source of truth; the in-memory session state in the
// session package is a read-through cache over it. Rows carry
// monotonically increasing ids assigned on insert, and there is no
// update operation: corrections happen by clearing and re-adding.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Message roles as persisted in the messages table.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one persisted conversation message.
type Message struct {
	ID      int64
	Role    string
	Content string
}

// Store provides create/read/delete operations over the messages and
// admin_tasks tables. Safe for concurrent use; sqlite serializes writes
// at row granularity and the design accepts last-writer-wins between
// concurrent sessions.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Store over an opened and migrated database.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// AppendMessage inserts one message and returns it with its assigned id.
// Storage errors are fatal to the operation and never retried.
func (s *Store) AppendMessage(ctx context.Context, role, content string) (*Message, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (role, content) VALUES (?, ?)",
		role, content,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get message id: %w", err)
	}

	s.logger.Debug("appended message", "id", id, "role", role)
	return &Message{ID: id, Role: role, Content: content}, nil
}

// Messages returns all messages in insertion order.
// An empty table yields an empty slice, not an error.
func (s *Store) Messages(ctx context.Context) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, role, content FROM messages ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	messages := []*Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// LoadAll returns all messages and all to-do items, each in insertion
// order. Used to initialize the session cache at startup.
func (s *Store) LoadAll(ctx context.Context) ([]*Message, []string, error) {
	messages, err := s.Messages(ctx)
	if err != nil {
		return nil, nil, err
	}

	todos, err := s.ListTodos(ctx)
	if err != nil {
		return nil, nil, err
	}

	return messages, todos, nil
}

// ClearAll deletes every message and every to-do item. Idempotent.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM messages"); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM admin_tasks"); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	s.logger.Debug("cleared all messages and tasks")
	return nil
}

// AddTodo appends one to-do item.
func (s *Store) AddTodo(ctx context.Context, task string) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO admin_tasks (task) VALUES (?)", task,
	); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	s.logger.Debug("added task", "task", task)
	return nil
}

// ListTodos returns all to-do items in insertion order.
func (s *Store) ListTodos(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT task FROM admin_tasks ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []string{}
	for rows.Next() {
		var task string
		if err := rows.Scan(&task); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// ClearTodos deletes every to-do item. Idempotent.
func (s *Store) ClearTodos(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM admin_tasks"); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	s.logger.Debug("cleared all tasks")
	return nil
}
