package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/iksnae/voice-desk/internal/llm"
	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Failure classifies why a tool could not do what was asked.
type Failure string

const (
	FailureNone        Failure = ""
	FailureValidation  Failure = "validation"
	FailureNotFound    Failure = "not_found"
	FailureUnavailable Failure = "unavailable"
)

// Result is what every tool returns. Message is always user-presentable.
// Handoff, when set, is the agent that takes over the conversation.
type Result struct {
	Message string
	Failure Failure
	Handoff *Agent
}

// OK is a successful result.
func OK(format string, args ...any) Result {
	return Result{Message: sprintf(format, args...)}
}

// Invalid is a validation failure (missing or malformed input).
func Invalid(format string, args ...any) Result {
	return Result{Message: sprintf(format, args...), Failure: FailureValidation}
}

// NotFound reports a lookup that matched nothing.
func NotFound(format string, args ...any) Result {
	return Result{Message: sprintf(format, args...), Failure: FailureNotFound}
}

// Unavailable reports that a dependency failed.
func Unavailable(format string, args ...any) Result {
	return Result{Message: sprintf(format, args...), Failure: FailureUnavailable}
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Failed reports whether the result carries a failure.
func (r Result) Failed() bool {
	return r.Failure != FailureNone
}

// Validator is implemented by tool argument types with custom checks. It runs
// before schema validation so its messages win.
type Validator interface {
	Validate() error
}

// NoArgs is the argument type of tools without parameters.
type NoArgs struct{}

// Tool is a described, validated capability an agent can invoke.
type Tool struct {
	name        string
	description string
	parameters  *jsonschema.Schema
	schema      *gojsonschema.Schema
	invoke      func(ctx context.Context, rc *RunContext, raw []byte) Result
}

var reflector = jsonschema.Reflector{
	DoNotReference:            true,
	Anonymous:                 true,
	AllowAdditionalProperties: true,
}

// NewTool builds a tool whose parameter schema is reflected from A.
func NewTool[A any](name, description string, fn func(ctx context.Context, rc *RunContext, args A) Result) Tool {
	var zero A
	params := reflector.Reflect(&zero)
	params.Version = ""
	if params.Type == "" {
		params.Type = "object"
	}

	t := Tool{
		name:        name,
		description: description,
		parameters:  params,
	}

	if b, err := json.Marshal(params); err == nil {
		if s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b)); err == nil {
			t.schema = s
		} else {
			log.Warn().Err(err).Str("tool", name).Msg("Failed to compile tool schema")
		}
	}

	t.invoke = func(ctx context.Context, rc *RunContext, raw []byte) Result {
		var args A
		if err := json.Unmarshal(raw, &args); err != nil {
			return Invalid("Invalid arguments for %s: %v", name, err)
		}
		if v, ok := any(&args).(Validator); ok {
			if err := v.Validate(); err != nil {
				return Invalid("%s", err.Error())
			}
		}
		if msg := t.validate(raw); msg != "" {
			return Invalid("%s", msg)
		}
		return fn(ctx, rc, args)
	}
	return t
}

func (t Tool) validate(raw []byte) string {
	if t.schema == nil {
		return ""
	}
	res, err := t.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Sprintf("Invalid arguments for %s: %v", t.name, err)
	}
	if res.Valid() {
		return ""
	}
	var problems []string
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Sprintf("Invalid arguments for %s: %s", t.name, strings.Join(problems, "; "))
}

// Name returns the tool name the model calls.
func (t Tool) Name() string {
	return t.name
}

// Description returns the model-facing description.
func (t Tool) Description() string {
	return t.description
}

// Spec describes the tool for an LLM request.
func (t Tool) Spec() llm.ToolSpec {
	return llm.ToolSpec{Name: t.name, Description: t.description, Parameters: t.parameters}
}

// Invoke decodes, validates and runs the tool. Blank arguments are treated as {}.
func (t Tool) Invoke(ctx context.Context, rc *RunContext, arguments string) Result {
	raw := []byte(strings.TrimSpace(arguments))
	if len(raw) == 0 || string(raw) == "null" {
		raw = []byte("{}")
	}
	return t.invoke(ctx, rc, raw)
}
