package cmd

import (
	"bytes"
	"strings"
	"testing"
)

// execute runs the root command with args and returns everything written.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

// isolate points data, config and credentials at an empty temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("VOICE_DESK_DATA_DIR", dir)
	for _, key := range []string{
		"GROQ_API_KEY", "OPENAI_API_KEY", "VOICE_DESK_LLM_API_KEY",
		"MONGODB_CONNECTION_STRING", "VOICE_DESK_MONGODB_CONNECTION_STRING",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_LoadsConfig(t *testing.T) {
	dir := isolate(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	if _, err := execute(t, "demos", "--log-level", "warn"); err != nil {
		t.Fatalf("demos failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("config was not loaded")
	}
	if cfg.LLM.APIKey != "gsk_test" {
		t.Errorf("api key = %q, want gsk_test", cfg.LLM.APIKey)
	}
	if cfg.Data.Dir != dir {
		t.Errorf("data dir = %q, want %q", cfg.Data.Dir, dir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Log.Level)
	}
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	isolate(t)
	_, err := execute(t, "demos", "--log-level", "loud")
	if err == nil {
		t.Fatal("expected an error for an invalid log level")
	}
	_, _ = execute(t, "demos", "--log-level", "info")
}

func TestDemosCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "demos")
	if err != nil {
		t.Fatalf("demos failed: %v", err)
	}
	for _, name := range []string{"assistant", "auto", "clinic", "medical", "receptionist", "restaurant", "students"} {
		if !bytes.Contains([]byte(out), []byte(name)) {
			t.Errorf("demos output missing %q", name)
		}
	}
}

func TestChatCommand_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown demo", []string{"chat", "--demo", "karaoke"}, `unknown demo "karaoke"`},
		{"unknown format", []string{"chat", "--demo", "restaurant", "--transcript", "out", "--format", "pdf"}, "unsupported format: pdf"},
	}
	t.Cleanup(func() {
		chatDemo, chatTranscript, chatFormat = "restaurant", "", "md"
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestChatCommand_Flags(t *testing.T) {
	chat, _, err := rootCmd.Find([]string{"chat"})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"demo", "transcript", "format", "tools", "metrics"} {
		if chat.Flags().Lookup(name) == nil {
			t.Errorf("chat is missing --%s", name)
		}
	}
}
