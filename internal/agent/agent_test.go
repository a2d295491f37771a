package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/voice-desk/internal/chat"
	"github.com/iksnae/voice-desk/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	data    *SessionData
	current *Agent
	replies []ReplyOptions
	said    []string
}

func (s *stubSession) Data() *SessionData   { return s.data }
func (s *stubSession) CurrentAgent() *Agent { return s.current }
func (s *stubSession) StartedAt() time.Time { return time.Unix(0, 0) }

func (s *stubSession) GenerateReply(_ context.Context, opts ReplyOptions) error {
	s.replies = append(s.replies, opts)
	return nil
}

func (s *stubSession) Say(_ context.Context, text string) error {
	s.said = append(s.said, text)
	return nil
}

// handoff mimics the driver: make the target current and run its entry hook.
func (s *stubSession) handoff(t *testing.T, to Role) {
	t.Helper()
	res := NewRunContext(s).TransferTo(to)
	require.NotNil(t, res.Handoff)
	s.current = res.Handoff
	require.NoError(t, res.Handoff.OnEnter(context.Background(), s))
}

func newStubSession() *stubSession {
	data := NewSessionData(RoleGreeter)
	data.Register(
		&Definition{Role: RoleGreeter, Instructions: "greet"},
		&Definition{Role: RoleReservation, Instructions: "reserve"},
		&Definition{Role: RoleCheckout, Instructions: "pay", EntryInstructions: "Ask for the card."},
	)
	return &stubSession{data: data, current: data.Agents[RoleGreeter]}
}

func TestTransferTo(t *testing.T) {
	s := newStubSession()
	rc := NewRunContext(s)

	res := rc.TransferTo(RoleReservation)
	assert.Equal(t, "Transferring to reservation.", res.Message)
	assert.False(t, res.Failed())
	assert.Same(t, s.data.Agents[RoleReservation], res.Handoff)
	assert.Same(t, s.data.Agents[RoleGreeter], s.data.PrevAgent)

	res = rc.TransferTo(RoleTakeaway)
	assert.Equal(t, FailureUnavailable, res.Failure)
	assert.Equal(t, "takeaway agent not available.", res.Message)
	assert.Nil(t, res.Handoff)
}

func TestOnEnter_CarriesRecentHistory(t *testing.T) {
	s := newStubSession()
	greeter := s.data.Agents[RoleGreeter]
	gctx := greeter.ChatContext()
	gctx.AddMessage(chat.RoleSystem, "greeter-only instructions")
	for i := 0; i < 8; i++ {
		gctx.AddMessage(chat.RoleUser, "turn")
	}
	gctx.AddFunctionCall("call_1", "to_reservation", "{}")
	gctx.AddFunctionOutput("call_1", "to_reservation", "Transferring to reservation.", false)

	s.handoff(t, RoleReservation)

	items := s.data.Agents[RoleReservation].ChatContext().Items()
	// 6 carried items plus the entry note
	require.Len(t, items, 7)
	for _, item := range items[:6] {
		assert.NotEqual(t, "greeter-only instructions", item.Content)
	}
	assert.Equal(t, chat.KindFunctionCall, items[4].Kind)
	assert.Equal(t, chat.KindFunctionCallOutput, items[5].Kind)

	last := items[6]
	assert.Equal(t, chat.RoleSystem, last.Role)
	assert.True(t, strings.HasPrefix(last.Content, "You are reservation agent. Current user data is "))
	assert.Contains(t, last.Content, "customer_name: unknown")

	require.Len(t, s.replies, 1)
	assert.Equal(t, llm.ToolChoiceNone, s.replies[0].ToolChoice)
}

func TestOnEnter_RepeatedHandoffsNeverDuplicate(t *testing.T) {
	s := newStubSession()
	s.data.Agents[RoleGreeter].ChatContext().AddMessage(chat.RoleUser, "hello")

	s.handoff(t, RoleReservation)
	s.data.Agents[RoleReservation].ChatContext().AddMessage(chat.RoleUser, "table for two")
	s.handoff(t, RoleGreeter)
	s.handoff(t, RoleReservation)
	s.handoff(t, RoleGreeter)
	s.handoff(t, RoleReservation)

	for _, role := range []Role{RoleGreeter, RoleReservation} {
		seen := map[string]bool{}
		conversational := 0
		for _, item := range s.data.Agents[role].ChatContext().Items() {
			assert.False(t, seen[item.ID], "%s has duplicate item %s", role, item.ID)
			seen[item.ID] = true
			if !item.IsInstruction() {
				conversational++
			}
		}
		assert.Equal(t, 2, conversational, role.String())
	}
}

func TestOnEnter_UsesEntryInstructions(t *testing.T) {
	s := newStubSession()
	s.handoff(t, RoleCheckout)
	require.Len(t, s.replies, 1)
	assert.Equal(t, "Ask for the card.", s.replies[0].Instructions)
}

type nameArgs struct {
	Name string `json:"name" jsonschema_description:"The customer name"`
}

func (a *nameArgs) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("Please tell me your name.")
	}
	return nil
}

type rangeArgs struct {
	Score float64 `json:"score" jsonschema:"minimum=0,maximum=4"`
}

func TestTool_Invoke(t *testing.T) {
	s := newStubSession()
	rc := NewRunContext(s)

	update := NewTool("update_name", "Called when the user provides their name.",
		func(_ context.Context, rc *RunContext, args nameArgs) Result {
			if err := rc.Data().SetCustomerName(args.Name); err != nil {
				return Invalid("%v", err)
			}
			return OK("The name is updated to %s", args.Name)
		})

	res := update.Invoke(context.Background(), rc, `{"name":"Ana"}`)
	assert.Equal(t, "The name is updated to Ana", res.Message)
	assert.Equal(t, "Ana", s.data.CustomerName)

	res = update.Invoke(context.Background(), rc, `{"name":""}`)
	assert.Equal(t, FailureValidation, res.Failure)
	assert.Equal(t, "Please tell me your name.", res.Message)

	res = update.Invoke(context.Background(), rc, `not json`)
	assert.Equal(t, FailureValidation, res.Failure)

	spec := update.Spec()
	assert.Equal(t, "update_name", spec.Name)
	require.NotNil(t, spec.Parameters)
	assert.Equal(t, "object", spec.Parameters.Type)
	prop, ok := spec.Parameters.Properties.Get("name")
	require.True(t, ok)
	assert.Equal(t, "The customer name", prop.Description)
}

func TestTool_SchemaRange(t *testing.T) {
	calls := 0
	score := NewTool("score", "Scores.", func(_ context.Context, _ *RunContext, args rangeArgs) Result {
		calls++
		return OK("ok")
	})
	rc := NewRunContext(newStubSession())

	assert.False(t, score.Invoke(context.Background(), rc, `{"score":3.5}`).Failed())
	res := score.Invoke(context.Background(), rc, `{"score":4.5}`)
	assert.Equal(t, FailureValidation, res.Failure)
	res = score.Invoke(context.Background(), rc, `{}`)
	assert.Equal(t, FailureValidation, res.Failure)
	assert.Equal(t, 1, calls)
}

func TestTool_NoArgs(t *testing.T) {
	called := false
	ping := NewTool("ping", "Pings.", func(_ context.Context, _ *RunContext, _ NoArgs) Result {
		called = true
		return OK("pong")
	})
	res := ping.Invoke(context.Background(), NewRunContext(newStubSession()), "")
	assert.True(t, called)
	assert.Equal(t, "pong", res.Message)
}
