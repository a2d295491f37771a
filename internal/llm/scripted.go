package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted is returned when a ScriptedClient has no more responses.
var ErrScriptExhausted = errors.New("scripted client: no more responses")

// ScriptedClient replays canned responses in order and records every request.
// It backs offline demos and tests.
type ScriptedClient struct {
	mu        sync.Mutex
	responses []Response
	requests  []Request
}

var _ Client = (*ScriptedClient)(nil)

// NewScriptedClient creates a client that returns responses in order.
func NewScriptedClient(responses ...Response) *ScriptedClient {
	return &ScriptedClient{responses: responses}
}

// Push queues more responses.
func (c *ScriptedClient) Push(responses ...Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, responses...)
}

// Complete returns the next scripted response.
func (c *ScriptedClient) Complete(ctx context.Context, req Request) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	c.requests = append(c.requests, req)
	if len(c.responses) == 0 {
		return Response{}, ErrScriptExhausted
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

// Requests returns the requests seen so far.
func (c *ScriptedClient) Requests() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Request, len(c.requests))
	copy(out, c.requests)
	return out
}

// Text is shorthand for a plain text response.
func Text(s string) Response {
	return Response{Text: s}
}

// Call is shorthand for a response with a single tool call.
func Call(id, name, arguments string) Response {
	return Response{ToolCalls: []ToolCall{{ID: id, Name: name, Arguments: arguments}}}
}
