// Package agent defines specialized agents, their tools, the per-conversation
// session data they share, and how one agent hands a conversation to another.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/iksnae/voice-desk/internal/chat"
	"github.com/iksnae/voice-desk/internal/llm"
)

// HandoffHistoryItems is how many items of the previous agent's history an
// entering agent takes over.
const HandoffHistoryItems = 6

// Definition is the immutable part of an agent: who it is and what it can do.
type Definition struct {
	Role              Role
	Instructions      string
	Tools             []Tool
	Model             string
	Voice             string
	EntryInstructions string
	ParallelToolCalls *bool
	// TurnInstructions, when set, supplies per-turn reply instructions
	// derived from the session data and what the user just said.
	TurnInstructions func(data *SessionData, userText string) string
}

// ReplyOptions tunes a single reply.
type ReplyOptions struct {
	Instructions string
	ToolChoice   llm.ToolChoice
}

// Session is the conversation driver as seen from agents and tools.
type Session interface {
	Data() *SessionData
	CurrentAgent() *Agent
	GenerateReply(ctx context.Context, opts ReplyOptions) error
	Say(ctx context.Context, text string) error
	StartedAt() time.Time
}

// Agent is a Definition plus the live history of one conversation.
type Agent struct {
	def     *Definition
	chatCtx *chat.Context
}

// New creates a live agent for def with an empty history.
func New(def *Definition) *Agent {
	return &Agent{def: def, chatCtx: chat.NewContext()}
}

// Role returns the agent's role.
func (a *Agent) Role() Role { return a.def.Role }

// Definition returns the immutable definition.
func (a *Agent) Definition() *Definition { return a.def }

// ChatContext returns the live history.
func (a *Agent) ChatContext() *chat.Context { return a.chatCtx }

// UpdateChatContext replaces the live history.
func (a *Agent) UpdateChatContext(c *chat.Context) { a.chatCtx = c }

// Tool finds a tool by name.
func (a *Agent) Tool(name string) (Tool, bool) {
	for _, t := range a.def.Tools {
		if t.Name() == name {
			return t, true
		}
	}
	return Tool{}, false
}

// OnEnter runs when the agent becomes active. It takes over the recent history
// of the previous agent without duplicating items, records the current user
// data, and speaks without calling tools.
func (a *Agent) OnEnter(ctx context.Context, s Session) error {
	data := s.Data()

	merged := a.chatCtx.Copy(chat.CopyOptions{})
	if prev := data.PrevAgent; prev != nil && prev != a {
		recent := prev.ChatContext().
			Copy(chat.CopyOptions{ExcludeInstructions: true}).
			Truncate(HandoffHistoryItems)
		chat.NewMerger().Merge(merged, recent)
	}

	merged.AddMessage(chat.RoleSystem,
		fmt.Sprintf("You are %s agent. Current user data is %s", a.Role(), data.Summarize()))
	a.UpdateChatContext(merged)

	return s.GenerateReply(ctx, ReplyOptions{
		Instructions: a.def.EntryInstructions,
		ToolChoice:   llm.ToolChoiceNone,
	})
}

// RunContext is handed to every tool invocation.
type RunContext struct {
	Session Session
}

// NewRunContext wraps a session for tool calls.
func NewRunContext(s Session) *RunContext {
	return &RunContext{Session: s}
}

// Data returns the conversation's session data.
func (rc *RunContext) Data() *SessionData {
	return rc.Session.Data()
}

// TransferTo hands the conversation to the agent registered for role.
func (rc *RunContext) TransferTo(role Role) Result {
	data := rc.Data()
	next, ok := data.Agents[role]
	if !ok || next == nil {
		return Unavailable("%s agent not available.", role)
	}
	data.PrevAgent = rc.Session.CurrentAgent()
	return Result{Message: fmt.Sprintf("Transferring to %s.", role), Handoff: next}
}

// TransferToRoot hands the conversation back to the demo's root agent.
func (rc *RunContext) TransferToRoot() Result {
	return rc.TransferTo(rc.Data().Root)
}

// Register creates one live agent per definition and stores it by role.
func (d *SessionData) Register(defs ...*Definition) {
	for _, def := range defs {
		d.Agents[def.Role] = New(def)
	}
}

// Agent returns the live agent for role, if registered.
func (d *SessionData) Agent(role Role) (*Agent, bool) {
	a, ok := d.Agents[role]
	return a, ok
}
