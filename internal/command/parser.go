// Package command recognizes explicit slash commands typed by the user
// and maps them directly onto tool registry calls, bypassing the model.
//
// The parser is checked strictly before any model round-trip: matched
// commands are deterministic and work without model availability.
// Malformed arguments yield a usage hint instead of an error; input
// that matches no known prefix signals the caller to fall through to
// the model-driven path.
package command

import (
	"strings"

	"github.com/hwells/adjutant/internal/tools"
)

// Usage hints returned for malformed commands.
const (
	UsageSchedule = "usage: /schedule <topic>|<time>"
	UsageEmail    = "usage: /email <recipient>|<subject>|<body>"
	UsageTodo     = "usage: /todo add <task> | /todo list | /todo clear"
)

// Result is the outcome of parsing one input line.
//
// Matched reports whether the line was recognized as a slash command at
// all; when false the caller falls through to the model path. For a
// matched line either Call holds the tool invocation to dispatch, or
// Usage holds the hint to show the user — never both.
type Result struct {
	Matched bool
	Call    tools.Call
	Usage   string
}

// Parse examines one line of user input.
func Parse(line string) Result {
	trimmed := strings.TrimSpace(line)

	prefix, rest, _ := strings.Cut(trimmed, " ")
	switch prefix {
	case "/schedule":
		return parseSchedule(rest)
	case "/email":
		return parseEmail(rest)
	case "/todo":
		return parseTodo(rest)
	default:
		return Result{}
	}
}

// parseSchedule handles "/schedule <topic>|<time>".
func parseSchedule(rest string) Result {
	fields := splitFields(rest, 2)
	if fields == nil {
		return Result{Matched: true, Usage: UsageSchedule}
	}

	return Result{
		Matched: true,
		Call: tools.Call{
			Kind:    tools.KindScheduleMeeting,
			Name:    tools.NameScheduleMeeting,
			Meeting: &tools.ScheduleMeetingArgs{Topic: fields[0], Time: fields[1]},
		},
	}
}

// parseEmail handles "/email <recipient>|<subject>|<body>".
func parseEmail(rest string) Result {
	fields := splitFields(rest, 3)
	if fields == nil {
		return Result{Matched: true, Usage: UsageEmail}
	}

	return Result{
		Matched: true,
		Call: tools.Call{
			Kind:  tools.KindSendEmail,
			Name:  tools.NameSendEmail,
			Email: &tools.SendEmailArgs{Recipient: fields[0], Subject: fields[1], Body: fields[2]},
		},
	}
}

// parseTodo handles "/todo add <task>", "/todo list" and "/todo clear".
// The action is passed through verbatim: a syntactically well-formed but
// unknown action (e.g. "/todo remove x") is dispatched and resolved by
// the registry's soft-failure path.
func parseTodo(rest string) Result {
	action, task, _ := strings.Cut(strings.TrimSpace(rest), " ")
	action = strings.TrimSpace(action)
	task = strings.TrimSpace(task)

	if action == "" {
		return Result{Matched: true, Usage: UsageTodo}
	}
	if action == tools.ActionAdd && task == "" {
		return Result{Matched: true, Usage: UsageTodo}
	}

	return Result{
		Matched: true,
		Call: tools.Call{
			Kind: tools.KindManageTodo,
			Name: tools.NameManageTodo,
			Todo: &tools.ManageTodoArgs{Action: action, Task: task},
		},
	}
}

// splitFields splits a pipe-delimited argument list into exactly n
// trimmed, non-empty fields. Returns nil when the input is malformed
// (wrong field count, missing separator, empty field).
func splitFields(rest string, n int) []string {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}

	parts := strings.Split(rest, "|")
	if len(parts) != n {
		return nil
	}

	fields := make([]string, n)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil
		}
		fields[i] = p
	}
	return fields
}
