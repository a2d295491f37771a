package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/voice-desk/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	tr := internal.CreateTestTranscript("y1")
	tr.Metadata.Summary = "customer_name: unknown\n"

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(tr, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var decoded internal.Transcript
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.ID != "y1" {
		t.Errorf("ID = %q, want y1", decoded.ID)
	}
	if decoded.Metadata.ToolCalls != 1 {
		t.Errorf("ToolCalls = %d, want 1", decoded.Metadata.ToolCalls)
	}
	if decoded.Metadata.Summary != "customer_name: unknown\n" {
		t.Errorf("Summary = %q", decoded.Metadata.Summary)
	}
	if !bytes.Contains(buf.Bytes(), []byte("started_at:")) {
		t.Error("YAML output should use snake_case keys")
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
