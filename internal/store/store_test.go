package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hwells/adjutant/internal/database"
	"github.com/hwells/adjutant/internal/log"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))

	return New(db, log.NewNop())
}

func TestAppendMessageAssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.AppendMessage(ctx, RoleUser, "hello")
	require.NoError(t, err)
	second, err := s.AppendMessage(ctx, RoleAssistant, "hi there")
	require.NoError(t, err)

	require.Greater(t, second.ID, first.ID)
}

func TestMessagesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	inputs := []struct{ role, content string }{
		{RoleUser, "schedule a meeting"},
		{RoleTool, "Scheduled a meeting about 'standup' at 9am."},
		{RoleAssistant, "Done, your meeting is scheduled."},
	}
	for _, in := range inputs {
		_, err := s.AppendMessage(ctx, in.role, in.content)
		require.NoError(t, err)
	}

	messages, err := s.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, len(inputs))
	for i, in := range inputs {
		require.Equal(t, in.role, messages[i].Role)
		require.Equal(t, in.content, messages[i].Content)
	}
}

func TestLoadAllEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	messages, todos, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, messages)
	require.Empty(t, todos)
	require.NotNil(t, messages)
	require.NotNil(t, todos)
}

func TestTodosInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tasks := []string{"buy milk", "write report", "call back"}
	for _, task := range tasks {
		require.NoError(t, s.AddTodo(ctx, task))
	}

	got, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Equal(t, tasks, got)
}

func TestClearTodos(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.AddTodo(ctx, "a"))
	require.NoError(t, s.AddTodo(ctx, "b"))

	require.NoError(t, s.ClearTodos(ctx))
	got, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	// Idempotent on an already empty table.
	require.NoError(t, s.ClearTodos(ctx))
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.AppendMessage(ctx, RoleUser, "hello")
	require.NoError(t, err)
	require.NoError(t, s.AddTodo(ctx, "task"))

	require.NoError(t, s.ClearAll(ctx))

	messages, todos, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, messages)
	require.Empty(t, todos)

	// Idempotent.
	require.NoError(t, s.ClearAll(ctx))
}
