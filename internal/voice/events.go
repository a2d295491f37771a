package voice

import (
	"context"
	"time"

	"github.com/iksnae/voice-desk/internal/agent"
)

// EventType identifies what happened in a conversation.
type EventType string

const (
	EventAgentMessage EventType = "agent_message"
	EventToolCall     EventType = "tool_call"
	EventAgentSwitch  EventType = "agent_switch"
)

// Event is emitted to the transport for everything the user should see or hear.
// Voice and Model travel with agent messages so a speech front end can render them.
type Event struct {
	Type  EventType  `json:"type"`
	Agent agent.Role `json:"agent"`
	Time  time.Time  `json:"time"`

	Text  string `json:"text,omitempty"`
	Voice string `json:"voice,omitempty"`
	Model string `json:"model,omitempty"`

	Tool      string        `json:"tool,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
	Output    string        `json:"output,omitempty"`
	Failure   agent.Failure `json:"failure,omitempty"`

	From agent.Role `json:"from,omitempty"`
}

// Output receives session events. Emit is called from the conversation's
// goroutine, one event at a time.
type Output interface {
	Emit(ctx context.Context, ev Event) error
}

// OutputFunc adapts a function to Output.
type OutputFunc func(ctx context.Context, ev Event) error

// Emit calls f.
func (f OutputFunc) Emit(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Discard drops every event.
var Discard Output = OutputFunc(func(context.Context, Event) error { return nil })
