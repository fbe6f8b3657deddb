package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/hwells/adjutant/internal/store"
)

// Registry resolves tool calls against the fixed tool set. The to-do
// tool reads and writes the task store; the other two are pure.
type Registry struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Registry backed by the given task store.
func New(st *store.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: st, logger: logger}
}

// Dispatch executes one tool call and returns its textual result plus
// whether the call may have changed to-do state (so the caller can
// refresh its cache). It never fails on unknown names or bad arguments;
// only a storage-layer error surfaces, and it is fatal to the call.
func (r *Registry) Dispatch(ctx context.Context, call Call) (string, bool, error) {
	// A nil argument struct dispatches as all-empty arguments, the same
	// as a call whose argument object could not be parsed.
	switch call.Kind {
	case KindScheduleMeeting:
		var args ScheduleMeetingArgs
		if call.Meeting != nil {
			args = *call.Meeting
		}
		return ScheduleMeeting(args), false, nil

	case KindSendEmail:
		var args SendEmailArgs
		if call.Email != nil {
			args = *call.Email
		}
		return SendEmail(args), false, nil

	case KindManageTodo:
		var args ManageTodoArgs
		if call.Todo != nil {
			args = *call.Todo
		}
		return r.manageTodo(ctx, args)

	default:
		r.logger.Warn("model requested unknown tool", "name", call.Name)
		return NotImplemented(call.Name), false, nil
	}
}

// DispatchRaw resolves a raw (name, argument object) pair as emitted by
// the model and dispatches it.
func (r *Registry) DispatchRaw(ctx context.Context, name string, input any) (string, bool, error) {
	return r.Dispatch(ctx, ParseCall(name, input))
}

// manageTodo handles the add/list/clear actions over the task store.
// Any unrecognized action, including add without a task, resolves to
// the "Unsupported action." soft failure.
func (r *Registry) manageTodo(ctx context.Context, args ManageTodoArgs) (string, bool, error) {
	switch {
	case args.Action == ActionAdd && args.Task != "":
		if err := r.store.AddTodo(ctx, args.Task); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Added task: %s", args.Task), true, nil

	case args.Action == ActionList:
		tasks, err := r.store.ListTodos(ctx)
		if err != nil {
			return "", false, err
		}
		if len(tasks) == 0 {
			return "No tasks in the list.", false, nil
		}
		lines := make([]string, len(tasks))
		for i, task := range tasks {
			lines[i] = "- " + task
		}
		return "Current tasks:\n" + strings.Join(lines, "\n"), false, nil

	case args.Action == ActionClear:
		if err := r.store.ClearTodos(ctx); err != nil {
			return "", false, err
		}
		return "Cleared all tasks.", true, nil

	default:
		return "Unsupported action.", false, nil
	}
}

// Define registers the three tools with Genkit so their schemas are
// declared to the model. The orchestrator dispatches tool requests
// manually, but the handlers still route through the registry so the
// behavior is identical either way.
func (r *Registry) Define(g *genkit.Genkit) []ai.Tool {
	schedule := genkit.DefineTool(
		g,
		NameScheduleMeeting,
		"Schedule a meeting given a topic and time",
		func(ctx *ai.ToolContext, input ScheduleMeetingArgs) (string, error) {
			return ScheduleMeeting(input), nil
		},
	)

	email := genkit.DefineTool(
		g,
		NameSendEmail,
		"Send a simple email",
		func(ctx *ai.ToolContext, input SendEmailArgs) (string, error) {
			return SendEmail(input), nil
		},
	)

	todo := genkit.DefineTool(
		g,
		NameManageTodo,
		"Add, list, or clear todo items",
		func(ctx *ai.ToolContext, input ManageTodoArgs) (string, error) {
			text, _, err := r.manageTodo(ctx.Context, input)
			return text, err
		},
	)

	return []ai.Tool{schedule, email, todo}
}
