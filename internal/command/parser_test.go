package command

import (
	"testing"

	"github.com/hwells/adjutant/internal/tools"
)

func TestParseWellFormed(t *testing.T) {
	tests := []struct {
		name string
		line string
		want tools.Call
	}{
		{
			name: "schedule",
			line: "/schedule sprint review|Friday 3pm",
			want: tools.Call{
				Kind:    tools.KindScheduleMeeting,
				Name:    tools.NameScheduleMeeting,
				Meeting: &tools.ScheduleMeetingArgs{Topic: "sprint review", Time: "Friday 3pm"},
			},
		},
		{
			name: "schedule trims field whitespace",
			line: "/schedule standup | 9am ",
			want: tools.Call{
				Kind:    tools.KindScheduleMeeting,
				Name:    tools.NameScheduleMeeting,
				Meeting: &tools.ScheduleMeetingArgs{Topic: "standup", Time: "9am"},
			},
		},
		{
			name: "email",
			line: "/email ana@example.com|Q3 numbers|see attachment",
			want: tools.Call{
				Kind:  tools.KindSendEmail,
				Name:  tools.NameSendEmail,
				Email: &tools.SendEmailArgs{Recipient: "ana@example.com", Subject: "Q3 numbers", Body: "see attachment"},
			},
		},
		{
			name: "todo add",
			line: "/todo add buy milk",
			want: tools.Call{
				Kind: tools.KindManageTodo,
				Name: tools.NameManageTodo,
				Todo: &tools.ManageTodoArgs{Action: "add", Task: "buy milk"},
			},
		},
		{
			name: "todo list",
			line: "/todo list",
			want: tools.Call{
				Kind: tools.KindManageTodo,
				Name: tools.NameManageTodo,
				Todo: &tools.ManageTodoArgs{Action: "list"},
			},
		},
		{
			name: "todo clear",
			line: "/todo clear",
			want: tools.Call{
				Kind: tools.KindManageTodo,
				Name: tools.NameManageTodo,
				Todo: &tools.ManageTodoArgs{Action: "clear"},
			},
		},
		{
			name: "todo unknown action passes through for soft failure",
			line: "/todo remove buy milk",
			want: tools.Call{
				Kind: tools.KindManageTodo,
				Name: tools.NameManageTodo,
				Todo: &tools.ManageTodoArgs{Action: "remove", Task: "buy milk"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if !got.Matched {
				t.Fatalf("Parse(%q).Matched = false, want true", tt.line)
			}
			if got.Usage != "" {
				t.Fatalf("Parse(%q).Usage = %q, want empty", tt.line, got.Usage)
			}
			assertCallEqual(t, got.Call, tt.want)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantUsage string
	}{
		{name: "schedule missing separator", line: "/schedule standup at 9", wantUsage: UsageSchedule},
		{name: "schedule missing second field", line: "/schedule standup|", wantUsage: UsageSchedule},
		{name: "schedule no arguments", line: "/schedule", wantUsage: UsageSchedule},
		{name: "schedule too many fields", line: "/schedule a|b|c", wantUsage: UsageSchedule},
		{name: "email two fields", line: "/email ana@example.com|hello", wantUsage: UsageEmail},
		{name: "email no separator", line: "/email ana@example.com", wantUsage: UsageEmail},
		{name: "todo bare", line: "/todo", wantUsage: UsageTodo},
		{name: "todo add without task", line: "/todo add", wantUsage: UsageTodo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if !got.Matched {
				t.Fatalf("Parse(%q).Matched = false, want true", tt.line)
			}
			if got.Usage != tt.wantUsage {
				t.Errorf("Parse(%q).Usage = %q, want %q", tt.line, got.Usage, tt.wantUsage)
			}
			// A malformed command must never carry a dispatchable call.
			if got.Call.Kind != tools.KindUnknown || got.Call.Name != "" {
				t.Errorf("Parse(%q).Call = %+v, want zero value", tt.line, got.Call)
			}
		})
	}
}

func TestParseNoMatch(t *testing.T) {
	lines := []string{
		"what's the weather like?",
		"schedule a meeting for me",
		"/unknown command",
		"",
		"   ",
	}

	for _, line := range lines {
		if got := Parse(line); got.Matched {
			t.Errorf("Parse(%q).Matched = true, want fall-through to model", line)
		}
	}
}

func assertCallEqual(t *testing.T, got, want tools.Call) {
	t.Helper()

	if got.Kind != want.Kind || got.Name != want.Name {
		t.Fatalf("call = {Kind:%v Name:%q}, want {Kind:%v Name:%q}", got.Kind, got.Name, want.Kind, want.Name)
	}
	switch {
	case want.Meeting != nil:
		if got.Meeting == nil || *got.Meeting != *want.Meeting {
			t.Errorf("Meeting = %+v, want %+v", got.Meeting, want.Meeting)
		}
	case want.Email != nil:
		if got.Email == nil || *got.Email != *want.Email {
			t.Errorf("Email = %+v, want %+v", got.Email, want.Email)
		}
	case want.Todo != nil:
		if got.Todo == nil || *got.Todo != *want.Todo {
			t.Errorf("Todo = %+v, want %+v", got.Todo, want.Todo)
		}
	}
}
