package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/spf13/cobra"
)

var errNoConversation = errors.New("this tool needs a live conversation; use 'voice-desk chat'")

// directSession lets the record commands run the same tools the agents use,
// outside a conversation. Interim notices are printed.
type directSession struct {
	data    *agent.SessionData
	out     io.Writer
	started time.Time
}

var _ agent.Session = (*directSession)(nil)

func newDirectSession(out io.Writer) *directSession {
	return &directSession{
		data:    agent.NewSessionData(agent.RoleAssistant),
		out:     out,
		started: time.Now(),
	}
}

func (s *directSession) Data() *agent.SessionData  { return s.data }
func (s *directSession) CurrentAgent() *agent.Agent { return nil }
func (s *directSession) StartedAt() time.Time       { return s.started }

func (s *directSession) GenerateReply(context.Context, agent.ReplyOptions) error {
	return errNoConversation
}

func (s *directSession) Say(_ context.Context, text string) error {
	_, err := fmt.Fprintln(s.out, infoStyle.Render(text))
	return err
}

// runTool invokes tool with args encoded as JSON and prints the result. A
// failed result is returned as an error so the exit code reflects it.
func runTool(cmd *cobra.Command, tool agent.Tool, args any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}

	out := cmd.OutOrStdout()
	res := tool.Invoke(cmd.Context(), agent.NewRunContext(newDirectSession(out)), string(raw))
	if res.Failed() {
		fmt.Fprintln(out, errorStyle.Render("❌ "+res.Message))
		return fmt.Errorf("%s failed: %s", tool.Name(), res.Failure)
	}
	fmt.Fprintln(out, res.Message)
	return nil
}

// withStores opens the stores reqs name for the duration of fn.
func withStores(cmd *cobra.Command, reqs []demo.Requirement, fn func(deps demo.Deps) error) error {
	deps, cleanup, err := wireDeps(cmd.Context(), cfg, reqs, true)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(deps)
}
