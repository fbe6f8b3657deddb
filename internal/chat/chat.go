// Package chat implements the conversation orchestrator: the control
// loop that interleaves a model request, zero or more tool invocations,
// and a follow-up (optionally streamed) response, while keeping the
// session cache consistent with the task store.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hwells/adjutant/internal/session"
	"github.com/hwells/adjutant/internal/store"
	"github.com/hwells/adjutant/internal/tools"
)

// fallbackResponseMessage is persisted when the model produces an empty
// final answer.
const fallbackResponseMessage = "I apologize, but I couldn't generate a response. Please try rephrasing your question."

// StreamCallback is called for each text fragment of the streamed final
// answer. Fragments arrive in delivery order and the caller simply
// concatenates them. Returning an error aborts the stream.
type StreamCallback func(ctx context.Context, chunk string) error

// Completion is one model response at the orchestration boundary:
// either a plain text answer or a list of tool-call requests.
type Completion struct {
	// Message is the model's message, carrying tool request parts when
	// ToolRequests is non-empty. May be nil for fakes that only supply
	// text.
	Message      *ai.Message
	Text         string
	ToolRequests []*ai.ToolRequest
}

// CompleteOptions controls one completion request.
type CompleteOptions struct {
	// OfferTools declares the registry's tool schemas to the model.
	// Only the first request of a cycle offers tools; there is no
	// recursive tool calling.
	OfferTools bool

	// Stream, when non-nil, enables incremental delivery of the answer.
	Stream StreamCallback
}

// Completer is the model API boundary. The production implementation
// wraps Genkit; tests substitute a scripted fake.
type Completer interface {
	Complete(ctx context.Context, messages []*ai.Message, opts CompleteOptions) (*Completion, error)
}

// ToolResult is the textual outcome of one dispatched tool call,
// correlated to the originating call identifier.
type ToolResult struct {
	Name string
	Ref  string
	Text string
}

// Result is the outcome of one successful orchestration cycle.
type Result struct {
	FinalText   string
	ToolResults []ToolResult

	// Streamed reports whether FinalText was already delivered through
	// the stream callback, so callers don't print it twice.
	Streamed bool
}

// Config contains all required parameters for the orchestrator.
type Config struct {
	Completer Completer
	Registry  *tools.Registry
	Store     *store.Store
	Logger    *slog.Logger

	// MaxHistoryMessages bounds how many persisted messages are
	// replayed into each completion request (zero uses the default).
	MaxHistoryMessages int

	// RateLimiter proactively limits model requests (nil uses a
	// default of 10 req/s with a burst of 30).
	RateLimiter *rate.Limiter
}

func (cfg Config) validate() error {
	if cfg.Completer == nil {
		return errors.New("completer is required")
	}
	if cfg.Registry == nil {
		return errors.New("tool registry is required")
	}
	if cfg.Store == nil {
		return errors.New("store is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Agent runs orchestration cycles. Stateless between cycles: all
// conversation state lives in the session and the store.
type Agent struct {
	completer  Completer
	registry   *tools.Registry
	store      *store.Store
	logger     *slog.Logger
	maxHistory int
	limiter    *rate.Limiter
}

// New creates an Agent with required configuration.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxHistory := cfg.MaxHistoryMessages
	if maxHistory <= 0 {
		maxHistory = 100
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 30)
	}

	return &Agent{
		completer:  cfg.Completer,
		registry:   cfg.Registry,
		store:      cfg.Store,
		logger:     cfg.Logger,
		maxHistory: maxHistory,
		limiter:    limiter,
	}, nil
}

// Execute runs one cycle without streaming.
func (a *Agent) Execute(ctx context.Context, sess *session.Session, input string) (*Result, error) {
	return a.ExecuteStream(ctx, sess, input, nil)
}

// ExecuteStream runs one full orchestration cycle for a user turn:
// first completion with tool schemas, manual dispatch of any requested
// tool calls in emission order, then a final completion without tool
// schemas, streamed through callback when one is given.
//
// Persistence is all-or-nothing: the user message, tool results, and
// final answer are written to the store only after the cycle succeeds.
// On any transport or API failure the store and the session cache are
// left exactly as they were before the turn, and the error is surfaced
// for the caller to display; the conversation remains usable.
func (a *Agent) ExecuteStream(ctx context.Context, sess *session.Session, input string, callback StreamCallback) (*Result, error) {
	logger := a.logger.With("cycle_id", uuid.New().String())
	logger.Debug("starting cycle", "input_length", len(input), "streaming", callback != nil)

	messages := modelHistory(sess.Messages(), a.maxHistory)
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(input)))

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	first, err := a.completer.Complete(ctx, messages, CompleteOptions{OfferTools: true})
	if err != nil {
		logger.Error("completion request failed", "error", err)
		return nil, fmt.Errorf("completion request: %w", err)
	}

	finalText := first.Text
	streamed := false
	var toolResults []ToolResult

	if len(first.ToolRequests) > 0 {
		logger.Debug("model requested tools", "count", len(first.ToolRequests))

		if first.Message != nil {
			messages = append(messages, first.Message)
		}

		// Dispatch in the order the model emitted the calls. Each result
		// becomes a role=tool message correlated to its call identifier.
		for _, req := range first.ToolRequests {
			text, todoMutated, err := a.registry.DispatchRaw(ctx, req.Name, req.Input)
			if err != nil {
				logger.Error("tool dispatch failed", "tool", req.Name, "error", err)
				return nil, fmt.Errorf("dispatching tool %s: %w", req.Name, err)
			}
			if todoMutated {
				if err := sess.RefreshTodos(ctx); err != nil {
					return nil, err
				}
			}

			toolResults = append(toolResults, ToolResult{Name: req.Name, Ref: req.Ref, Text: text})
			messages = append(messages, ai.NewMessage(ai.RoleTool, nil,
				ai.NewToolResponsePart(&ai.ToolResponse{
					Name:   req.Name,
					Ref:    req.Ref,
					Output: text,
				})))
		}

		// Final completion over the full history including tool results.
		// Tool schemas are not offered again: no recursive tool calling.
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
		final, err := a.completer.Complete(ctx, messages, CompleteOptions{Stream: callback})
		if err != nil {
			logger.Error("final completion failed", "error", err)
			return nil, fmt.Errorf("final completion: %w", err)
		}
		finalText = final.Text
		streamed = callback != nil
	}

	if strings.TrimSpace(finalText) == "" {
		logger.Warn("model returned empty final answer")
		finalText = fallbackResponseMessage
		streamed = false
	}

	// Persist the completed exchange in display order. A storage failure
	// here is fatal to the operation and never retried.
	saved := make([]*store.Message, 0, len(toolResults)+2)

	userMsg, err := a.store.AppendMessage(ctx, store.RoleUser, input)
	if err != nil {
		return nil, err
	}
	saved = append(saved, userMsg)

	for _, tr := range toolResults {
		toolMsg, err := a.store.AppendMessage(ctx, store.RoleTool, tr.Text)
		if err != nil {
			return nil, err
		}
		saved = append(saved, toolMsg)
	}

	assistantMsg, err := a.store.AppendMessage(ctx, store.RoleAssistant, finalText)
	if err != nil {
		return nil, err
	}
	saved = append(saved, assistantMsg)

	sess.Append(saved...)
	logger.Debug("cycle complete", "tool_calls", len(toolResults), "answer_length", len(finalText))

	return &Result{
		FinalText:   finalText,
		ToolResults: toolResults,
		Streamed:    streamed,
	}, nil
}

// modelHistory converts persisted messages into the prompt history,
// bounded to the most recent limit entries. Tool-result rows are not
// replayed: without their originating tool-call linkage they would be
// orphans at the API boundary, and their content is reflected in the
// assistant answer that follows them.
func modelHistory(messages []*store.Message, limit int) []*ai.Message {
	history := make([]*ai.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case store.RoleUser:
			history = append(history, ai.NewUserMessage(ai.NewTextPart(m.Content)))
		case store.RoleAssistant:
			history = append(history, ai.NewModelMessage(ai.NewTextPart(m.Content)))
		}
	}

	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}
