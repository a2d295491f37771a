// Package voice drives a conversation: it runs the agent, model and tool loop
// for one session and reports what happens as events.
package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iksnae/voice-desk/internal"
	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/chat"
	"github.com/iksnae/voice-desk/internal/llm"
	"github.com/iksnae/voice-desk/internal/metrics"
	"github.com/rs/zerolog/log"
)

// DefaultMaxToolSteps bounds the tool rounds of a single reply.
const DefaultMaxToolSteps = 5

var (
	// ErrToolStepLimit is returned when a reply used every tool step without
	// producing text.
	ErrToolStepLimit = errors.New("tool step limit reached without a reply")
	ErrNotStarted    = errors.New("session not started")
)

// Options configure a Session.
type Options struct {
	ID           string
	Demo         string
	LLM          llm.Client
	MaxToolSteps int
	Output       Output
	// Now is used for timestamps; defaults to time.Now.
	Now func() time.Time
}

// Session is one conversation. It is not safe for concurrent use: the
// transport calls it from a single goroutine.
type Session struct {
	id       string
	demo     string
	data     *agent.SessionData
	current  *agent.Agent
	llm      llm.Client
	maxSteps int
	out      Output
	now      func() time.Time

	startedAt time.Time
	recorder  *internal.TranscriptRecorder
	closed    bool

	// held collects what agents say while a tool runs. Those messages reach
	// the chat context only after the tool's output, so every tool output
	// directly follows its call.
	holding bool
	held    []heldMessage
}

type heldMessage struct {
	agent *agent.Agent
	text  string
	at    time.Time
}

var _ agent.Session = (*Session)(nil)

// New creates a session over data. Start must be called before user input.
func New(data *agent.SessionData, opts Options) (*Session, error) {
	if data == nil {
		return nil, errors.New("session data is required")
	}
	if opts.LLM == nil {
		return nil, errors.New("llm client is required")
	}
	if opts.MaxToolSteps <= 0 {
		opts.MaxToolSteps = DefaultMaxToolSteps
	}
	if opts.Output == nil {
		opts.Output = Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}

	started := opts.Now()
	return &Session{
		id:        opts.ID,
		demo:      opts.Demo,
		data:      data,
		llm:       opts.LLM,
		maxSteps:  opts.MaxToolSteps,
		out:       opts.Output,
		now:       opts.Now,
		startedAt: started,
		recorder:  internal.NewTranscriptRecorder(opts.ID, opts.Demo, started),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Data returns the shared session data.
func (s *Session) Data() *agent.SessionData { return s.data }

// CurrentAgent returns the active agent, nil before Start.
func (s *Session) CurrentAgent() *agent.Agent { return s.current }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Start activates the root agent and lets it greet the caller.
func (s *Session) Start(ctx context.Context) error {
	root, ok := s.data.Agent(s.data.Root)
	if !ok {
		return fmt.Errorf("root agent %s not registered", s.data.Root)
	}
	metrics.ActiveSessions.WithLabelValues(s.demo).Inc()
	log.Info().Str("session", s.id).Str("demo", s.demo).Str("agent", root.Role().String()).Msg("Session started")

	s.current = root
	return root.OnEnter(ctx, s)
}

// HandleUserInput adds what the user said and generates the agent's reply.
func (s *Session) HandleUserInput(ctx context.Context, text string) error {
	if s.current == nil {
		return ErrNotStarted
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.current.ChatContext().AddMessage(chat.RoleUser, text)
	s.record(internal.TranscriptEntry{Actor: internal.ActorUser, Content: text})

	opts := agent.ReplyOptions{ToolChoice: llm.ToolChoiceAuto}
	if turn := s.current.Definition().TurnInstructions; turn != nil {
		opts.Instructions = turn(s.data, text)
	}
	return s.GenerateReply(ctx, opts)
}

// GenerateReply asks the current agent's model for a reply, running tools
// until it answers with text, hands off, or runs out of tool steps.
func (s *Session) GenerateReply(ctx context.Context, opts agent.ReplyOptions) error {
	if s.current == nil {
		return ErrNotStarted
	}
	choice := opts.ToolChoice
	if choice == "" {
		choice = llm.ToolChoiceAuto
	}

	for step := 0; ; step++ {
		a := s.current
		if step == s.maxSteps {
			choice = llm.ToolChoiceNone
		}

		resp, err := s.complete(ctx, a, opts.Instructions, choice)
		if err != nil {
			return &internal.ConversationError{Demo: s.demo, Agent: a.Role().String(), Err: err}
		}

		if text := strings.TrimSpace(resp.Text); text != "" {
			if err := s.speak(ctx, a, text); err != nil {
				return err
			}
		}
		if len(resp.ToolCalls) == 0 || choice == llm.ToolChoiceNone {
			if strings.TrimSpace(resp.Text) == "" && step == s.maxSteps {
				log.Warn().Str("session", s.id).Str("agent", a.Role().String()).Int("steps", step).
					Msg("Tool step limit reached without a reply")
				return ErrToolStepLimit
			}
			return nil
		}

		next, err := s.runTools(ctx, a, resp.ToolCalls)
		if err != nil {
			return err
		}
		if next != nil {
			return s.SwitchAgent(ctx, next)
		}
	}
}

func (s *Session) complete(ctx context.Context, a *agent.Agent, extra string, choice llm.ToolChoice) (llm.Response, error) {
	def := a.Definition()
	instructions := def.Instructions
	if extra != "" {
		instructions = strings.TrimSpace(instructions + "\n\n" + extra)
	}

	req := llm.Request{
		Model:             def.Model,
		Instructions:      instructions,
		Items:             a.ChatContext().Items(),
		ToolChoice:        choice,
		ParallelToolCalls: def.ParallelToolCalls,
	}
	if choice != llm.ToolChoiceNone {
		for _, t := range def.Tools {
			req.Tools = append(req.Tools, t.Spec())
		}
	}

	resp, err := s.llm.Complete(ctx, req)
	metrics.ObserveLLM(err, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp, err
}

// runTools executes calls strictly in order. It stops at the first hand-off
// and returns the agent taking over.
func (s *Session) runTools(ctx context.Context, a *agent.Agent, calls []llm.ToolCall) (*agent.Agent, error) {
	rc := agent.NewRunContext(s)
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if call.ID == "" {
			call.ID = "call_" + uuid.NewString()
		}
		a.ChatContext().AddFunctionCall(call.ID, call.Name, call.Arguments)

		var res agent.Result
		outcome := ""
		start := time.Now()
		if tool, ok := a.Tool(call.Name); ok {
			s.holding = true
			res = tool.Invoke(ctx, rc, call.Arguments)
			s.holding = false
			outcome = string(res.Failure)
		} else {
			res = agent.Invalid("Unknown tool: %s", call.Name)
			outcome = "unknown_tool"
		}
		metrics.ObserveTool(call.Name, outcome, time.Since(start))

		a.ChatContext().AddFunctionOutput(call.ID, call.Name, res.Message, res.Failed())
		s.record(internal.TranscriptEntry{
			Actor:     internal.ActorTool,
			Agent:     a.Role().String(),
			Tool:      call.Name,
			Arguments: call.Arguments,
			Content:   res.Message,
			Failure:   string(res.Failure),
		})
		s.releaseHeld()
		log.Debug().Str("session", s.id).Str("tool", call.Name).Str("failure", string(res.Failure)).Msg("Tool executed")

		if err := s.emit(ctx, Event{
			Type:      EventToolCall,
			Agent:     a.Role(),
			Tool:      call.Name,
			Arguments: call.Arguments,
			Output:    res.Message,
			Failure:   res.Failure,
		}); err != nil {
			return nil, err
		}

		if res.Handoff != nil {
			return res.Handoff, nil
		}
	}
	return nil, nil
}

// SwitchAgent makes next the active agent and runs its entry hook.
func (s *Session) SwitchAgent(ctx context.Context, next *agent.Agent) error {
	if next == nil {
		return errors.New("switch to nil agent")
	}
	from := s.current
	if from == next {
		return nil
	}
	s.data.PrevAgent = from
	s.current = next

	fromRole := agent.Role("")
	if from != nil {
		fromRole = from.Role()
	}
	metrics.Handoffs.WithLabelValues(fromRole.String(), next.Role().String()).Inc()
	s.record(internal.TranscriptEntry{
		Actor:   internal.ActorSystem,
		Agent:   next.Role().String(),
		Content: fmt.Sprintf("Transferred from %s to %s", fromRole, next.Role()),
	})
	log.Info().Str("session", s.id).Str("from", fromRole.String()).Str("to", next.Role().String()).Msg("Agent switched")

	if err := s.emit(ctx, Event{Type: EventAgentSwitch, Agent: next.Role(), From: fromRole}); err != nil {
		return err
	}
	return next.OnEnter(ctx, s)
}

// Say speaks text as the current agent without consulting the model.
func (s *Session) Say(ctx context.Context, text string) error {
	if s.current == nil {
		return ErrNotStarted
	}
	return s.speak(ctx, s.current, text)
}

func (s *Session) speak(ctx context.Context, a *agent.Agent, text string) error {
	if s.holding {
		s.held = append(s.held, heldMessage{agent: a, text: text, at: s.now()})
	} else {
		a.ChatContext().AddMessage(chat.RoleAssistant, text)
		s.record(internal.TranscriptEntry{Actor: internal.ActorAgent, Agent: a.Role().String(), Content: text})
	}
	return s.emit(ctx, Event{
		Type:  EventAgentMessage,
		Agent: a.Role(),
		Text:  text,
		Voice: a.Definition().Voice,
		Model: a.Definition().Model,
	})
}

// releaseHeld appends messages said during the last tool call.
func (s *Session) releaseHeld() {
	for _, m := range s.held {
		m.agent.ChatContext().AddMessage(chat.RoleAssistant, m.text)
		s.record(internal.TranscriptEntry{
			Actor:     internal.ActorAgent,
			Agent:     m.agent.Role().String(),
			Content:   m.text,
			Timestamp: m.at.Format(time.RFC3339),
		})
	}
	s.held = nil
}

func (s *Session) emit(ctx context.Context, ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = s.now()
	}
	if err := s.out.Emit(ctx, ev); err != nil {
		return fmt.Errorf("emit %s: %w", ev.Type, err)
	}
	return nil
}

func (s *Session) record(e internal.TranscriptEntry) {
	if e.Timestamp == "" {
		e.Timestamp = s.now().Format(time.RFC3339)
	}
	s.recorder.Add(e)
}

// Transcript returns the conversation so far.
func (s *Session) Transcript() *internal.Transcript {
	return s.recorder.Snapshot()
}

// Close ends the session and returns the final transcript. It is safe to call
// more than once.
func (s *Session) Close() *internal.Transcript {
	if s.closed {
		return s.recorder.Snapshot()
	}
	s.closed = true

	final := ""
	if s.current != nil {
		final = s.current.Role().String()
		metrics.ActiveSessions.WithLabelValues(s.demo).Dec()
	}
	log.Info().Str("session", s.id).Str("final_agent", final).Msg("Session closed")
	return s.recorder.Finish(final, s.data.Summarize())
}
