// Package session holds the in-memory view of one user's interaction
// window: the ordered message history and the cached to-do items.
//
// The task store is the source of truth; a Session is a read-through
// cache initialized from it at startup and refreshed after any write
// that could have changed to-do state. It is the only state the display
// surface ever shows.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hwells/adjutant/internal/store"
)

// ExportedMessage is the JSON projection of one message for export.
type ExportedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the per-interaction state cache. Not safe for concurrent
// use; one orchestration cycle runs at a time for a given session.
type Session struct {
	store  *store.Store
	logger *slog.Logger

	messages []*store.Message
	todos    []string
}

// Load initializes a session from the task store.
func Load(ctx context.Context, st *store.Store, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	messages, todos, err := st.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading session state: %w", err)
	}

	logger.Debug("session loaded", "messages", len(messages), "todos", len(todos))
	return &Session{
		store:    st,
		logger:   logger,
		messages: messages,
		todos:    todos,
	}, nil
}

// Messages returns the cached message history in display order.
func (s *Session) Messages() []*store.Message {
	return s.messages
}

// Todos returns the cached to-do items in display order.
func (s *Session) Todos() []string {
	return s.todos
}

// Append adds already-persisted messages to the in-memory history.
// Called by the orchestrator after a cycle commits.
func (s *Session) Append(messages ...*store.Message) {
	s.messages = append(s.messages, messages...)
}

// RefreshTodos re-reads the to-do cache from the store. Must be called
// after any tool call that may have mutated to-do state.
func (s *Session) RefreshTodos(ctx context.Context) error {
	todos, err := s.store.ListTodos(ctx)
	if err != nil {
		return fmt.Errorf("refreshing todo cache: %w", err)
	}
	s.todos = todos
	return nil
}

// Reset clears all persisted state and empties the caches.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	s.messages = []*store.Message{}
	s.todos = []string{}
	return nil
}

// ExportJSON serializes the message history as indented JSON. This is a
// read-only projection for download, never a round-trip import.
func (s *Session) ExportJSON() ([]byte, error) {
	exported := make([]ExportedMessage, len(s.messages))
	for i, m := range s.messages {
		exported[i] = ExportedMessage{Role: m.Role, Content: m.Content}
	}

	data, err := json.MarshalIndent(exported, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("exporting messages: %w", err)
	}
	return data, nil
}
