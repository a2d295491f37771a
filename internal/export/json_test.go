package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/voice-desk/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tr := internal.CreateTestTranscript("j1")

	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(tr, &buf); err != nil {
		t.Fatalf("JSONExporter.Export() error = %v", err)
	}

	var decoded internal.Transcript
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "j1" || decoded.Demo != "restaurant" {
		t.Errorf("decoded = %+v", decoded)
	}
	if len(decoded.Messages) != 3 || decoded.Messages[1].Tool != "to_reservation" {
		t.Errorf("unexpected messages: %+v", decoded.Messages)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  \"demo\"")) {
		t.Error("JSON output should be indented")
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	if got := (&JSONExporter{}).Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
