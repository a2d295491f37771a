package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/voice-desk/internal/voice"
)

var (
	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// consoleOutput renders session events as terminal lines. Tool calls are only
// shown when showTools is set.
func consoleOutput(w io.Writer, showTools bool) voice.Output {
	return voice.OutputFunc(func(_ context.Context, ev voice.Event) error {
		var err error
		switch ev.Type {
		case voice.EventAgentMessage:
			_, err = fmt.Fprintf(w, "%s %s\n", agentStyle.Render(ev.Agent.String()+">"), ev.Text)
		case voice.EventAgentSwitch:
			_, err = fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("→ %s hands over to %s", ev.From, ev.Agent)))
		case voice.EventToolCall:
			if !showTools {
				return nil
			}
			line := fmt.Sprintf("  ⚙ %s(%s) → %s", ev.Tool, ev.Arguments, oneLine(ev.Output))
			if ev.Failure != "" {
				line += " [" + string(ev.Failure) + "]"
			}
			_, err = fmt.Fprintln(w, toolStyle.Render(line))
		}
		return err
	})
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// conversation is what the REPL drives.
type conversation interface {
	HandleUserInput(ctx context.Context, text string) error
}

// runREPL feeds lines from in to the conversation until EOF, /quit or ctx ends.
// summarize is printed for /data.
func runREPL(ctx context.Context, conv conversation, in io.Reader, out io.Writer, summarize func() string) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, userStyle.Render("you> "))
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			switch strings.TrimSpace(line) {
			case "/quit", "/exit":
				return nil
			case "/data":
				fmt.Fprint(out, infoStyle.Render(summarize()))
				fmt.Fprintln(out)
				continue
			}
			if err := conv.HandleUserInput(ctx, line); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintln(out, errorStyle.Render("✗ "+err.Error()))
			}
		}
	}
}
