// Package tools implements the fixed registry of assistant actions:
// scheduling a meeting, sending an email, and managing the to-do list.
//
// The first two are mocks that only return a confirmation string; the
// to-do tool also mutates the task store. Dispatch never returns an
// error: malformed arguments and unknown tool names resolve to
// descriptive placeholder strings so that a bad model-generated call
// degrades gracefully instead of aborting the conversation.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the closed enumeration of tool kinds the registry knows.
type Kind int

const (
	// KindUnknown is any tool name outside the registry. The raw name
	// travels with the call for the placeholder-result path.
	KindUnknown Kind = iota
	KindScheduleMeeting
	KindSendEmail
	KindManageTodo
)

// Tool names as declared to the model.
const (
	NameScheduleMeeting = "schedule_meeting"
	NameSendEmail       = "send_email"
	NameManageTodo      = "manage_todo"
)

// To-do actions accepted by the manage_todo tool.
const (
	ActionAdd   = "add"
	ActionList  = "list"
	ActionClear = "clear"
)

// String returns the declared tool name, or the literal "unknown".
func (k Kind) String() string {
	switch k {
	case KindScheduleMeeting:
		return NameScheduleMeeting
	case KindSendEmail:
		return NameSendEmail
	case KindManageTodo:
		return NameManageTodo
	default:
		return "unknown"
	}
}

// ScheduleMeetingArgs are the arguments of the schedule_meeting tool.
type ScheduleMeetingArgs struct {
	Topic string `json:"topic" jsonschema_description:"Topic of the meeting"`
	Time  string `json:"time" jsonschema_description:"When the meeting takes place"`
}

// SendEmailArgs are the arguments of the send_email tool.
type SendEmailArgs struct {
	Recipient string `json:"recipient" jsonschema_description:"Email recipient"`
	Subject   string `json:"subject" jsonschema_description:"Email subject"`
	Body      string `json:"body" jsonschema_description:"Email body"`
}

// ManageTodoArgs are the arguments of the manage_todo tool.
type ManageTodoArgs struct {
	Action string `json:"action" jsonschema_description:"add, list, or clear tasks"`
	Task   string `json:"task,omitempty" jsonschema_description:"Task description (required for add)"`
}

// Call is one resolved tool invocation. Exactly one argument field is
// populated, matching Kind; KindUnknown carries only the raw Name.
type Call struct {
	Kind Kind
	Name string

	Meeting *ScheduleMeetingArgs
	Email   *SendEmailArgs
	Todo    *ManageTodoArgs
}

// ParseCall maps a raw tool request (name plus argument object as the
// model emitted it) onto the closed Call variant. Argument values that
// are absent or not strings parse as empty strings; Dispatch decides
// how each tool treats them.
func ParseCall(name string, input any) Call {
	args := argMap(input)

	switch name {
	case NameScheduleMeeting:
		return Call{
			Kind: KindScheduleMeeting,
			Name: name,
			Meeting: &ScheduleMeetingArgs{
				Topic: stringArg(args, "topic"),
				Time:  stringArg(args, "time"),
			},
		}
	case NameSendEmail:
		return Call{
			Kind: KindSendEmail,
			Name: name,
			Email: &SendEmailArgs{
				Recipient: stringArg(args, "recipient"),
				Subject:   stringArg(args, "subject"),
				Body:      stringArg(args, "body"),
			},
		}
	case NameManageTodo:
		return Call{
			Kind: KindManageTodo,
			Name: name,
			Todo: &ManageTodoArgs{
				Action: stringArg(args, "action"),
				Task:   stringArg(args, "task"),
			},
		}
	default:
		return Call{Kind: KindUnknown, Name: name}
	}
}

// argMap normalizes the model-provided argument object. Genkit decodes
// tool inputs to map[string]any; some providers hand the arguments
// through as a JSON-encoded string instead.
func argMap(input any) map[string]any {
	switch v := input.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return map[string]any{}
		}
		return m
	case json.RawMessage:
		var m map[string]any
		if err := json.Unmarshal(v, &m); err != nil {
			return map[string]any{}
		}
		return m
	default:
		return map[string]any{}
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// ScheduleMeeting returns the confirmation text for the mock meeting
// action. No side effect beyond the returned string. Empty fields are
// inlined as-is; the confirmation always succeeds.
func ScheduleMeeting(args ScheduleMeetingArgs) string {
	return fmt.Sprintf("Scheduled a meeting about '%s' at %s.", args.Topic, args.Time)
}

// SendEmail returns the confirmation text for the mock email action.
// No side effect beyond the returned string. Empty fields are inlined
// as-is; the confirmation always succeeds.
func SendEmail(args SendEmailArgs) string {
	return fmt.Sprintf("Email to %s with subject '%s' has been sent.", args.Recipient, args.Subject)
}

// NotImplemented is the placeholder result for tool names outside the
// registry.
func NotImplemented(name string) string {
	return fmt.Sprintf("Function %s not implemented.", name)
}
