package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/voice-desk/internal"
)

// JSONLExporter exports transcripts in JSONL format (one entry per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format. Each line carries the
// conversation ID so multiple transcripts can share a file.
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, entry := range transcript.Messages {
		obj := map[string]interface{}{
			"conversation": transcript.ID,
			"actor":        entry.Actor,
			"content":      entry.Content,
		}
		if entry.Timestamp != "" {
			obj["timestamp"] = entry.Timestamp
		}
		if entry.Agent != "" {
			obj["agent"] = entry.Agent
		}
		if entry.Tool != "" {
			obj["tool"] = entry.Tool
			obj["arguments"] = entry.Arguments
		}
		if entry.Failure != "" {
			obj["failure"] = entry.Failure
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
