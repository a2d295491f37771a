// Package llm talks to OpenAI-compatible chat-completions endpoints.
package llm

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/iksnae/voice-desk/internal/chat"
)

// ToolChoice controls whether the model may call tools.
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

// ToolSpec describes a callable tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// Request is one completion request.
type Request struct {
	Model             string
	Instructions      string
	Items             []chat.Item
	Tools             []ToolSpec
	ToolChoice        ToolChoice
	ParallelToolCalls *bool
	Temperature       *float32
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Response is the model's answer: text, tool calls, or both.
type Response struct {
	Text      string
	ToolCalls []ToolCall
	Usage     Usage
}

// Usage reports token counts when the provider returns them.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Client completes chat requests.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
