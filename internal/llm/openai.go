package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iksnae/voice-desk/internal/chat"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// Config configures an OpenAIClient.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIClient implements Client with go-openai.
type OpenAIClient struct {
	client  *go_openai.Client
	model   string
	timeout time.Duration
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: missing API key")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	config := go_openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = baseURL

	return &OpenAIClient{
		client:  go_openai.NewClientWithConfig(config),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Complete sends one chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if req.Model == "" {
		req.Model = c.model
	}
	creq := BuildChatCompletionRequest(req)

	log.Debug().
		Str("model", creq.Model).
		Int("message_count", len(creq.Messages)).
		Int("tool_count", len(creq.Tools)).
		Interface("tool_choice", creq.ToolChoice).
		Msg("Sending chat completion request")

	resp, err := c.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return Response{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, errors.New("chat completion returned no choices")
	}

	msg := resp.Choices[0].Message
	out := Response{
		Text: msg.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

// BuildChatCompletionRequest converts a Request into the go-openai wire shape.
func BuildChatCompletionRequest(req Request) go_openai.ChatCompletionRequest {
	creq := go_openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: BuildMessages(req.Instructions, req.Items),
	}
	if req.Temperature != nil {
		creq.Temperature = *req.Temperature
	}

	if len(req.Tools) == 0 {
		return creq
	}

	tools := make([]go_openai.Tool, 0, len(req.Tools))
	for _, t := range req.Tools {
		var params any
		if t.Parameters != nil {
			params = t.Parameters
		}
		tools = append(tools, go_openai.Tool{
			Type: go_openai.ToolTypeFunction,
			Function: &go_openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	creq.Tools = tools

	switch req.ToolChoice {
	case ToolChoiceNone:
		creq.ToolChoice = "none"
	default:
		creq.ToolChoice = "auto"
	}
	if req.ParallelToolCalls != nil {
		creq.ParallelToolCalls = *req.ParallelToolCalls
	}
	return creq
}

// BuildMessages flattens instructions and chat items into OpenAI messages.
// Consecutive function calls become one assistant message; calls without an
// output and outputs without a call are dropped.
func BuildMessages(instructions string, items []chat.Item) []go_openai.ChatCompletionMessage {
	calls := map[string]bool{}
	outputs := map[string]bool{}
	for _, item := range items {
		switch item.Kind {
		case chat.KindFunctionCall:
			calls[item.CallID] = true
		case chat.KindFunctionCallOutput:
			outputs[item.CallID] = true
		}
	}

	var msgs []go_openai.ChatCompletionMessage
	if instructions != "" {
		msgs = append(msgs, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleSystem,
			Content: instructions,
		})
	}

	var pending *go_openai.ChatCompletionMessage
	flush := func() {
		if pending != nil {
			msgs = append(msgs, *pending)
			pending = nil
		}
	}

	for _, item := range items {
		switch item.Kind {
		case chat.KindFunctionCall:
			if !outputs[item.CallID] {
				continue
			}
			if pending == nil {
				pending = &go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleAssistant}
			}
			pending.ToolCalls = append(pending.ToolCalls, go_openai.ToolCall{
				ID:   item.CallID,
				Type: go_openai.ToolTypeFunction,
				Function: go_openai.FunctionCall{
					Name:      item.Name,
					Arguments: item.Arguments,
				},
			})
		case chat.KindFunctionCallOutput:
			if !calls[item.CallID] {
				continue
			}
			flush()
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role:       go_openai.ChatMessageRoleTool,
				Content:    item.Output,
				Name:       item.Name,
				ToolCallID: item.CallID,
			})
		default:
			flush()
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role:    string(item.Role),
				Content: item.Content,
			})
		}
	}
	flush()
	return msgs
}
