package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/voice-desk/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Conversation %s\n\n", transcript.ID)
	_, _ = fmt.Fprintf(w, "**Demo:** %s  \n", transcript.Demo)
	if transcript.Metadata.StartedAt != "" {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", transcript.Metadata.StartedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d  \n", len(transcript.Messages))
	_, _ = fmt.Fprintf(w, "**Tool calls:** %d\n\n", transcript.Metadata.ToolCalls)

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, entry := range transcript.Messages {
		timestamp := ""
		if entry.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", entry.Timestamp)
		}

		switch entry.Actor {
		case internal.ActorTool:
			status := ""
			if entry.Failure != "" {
				status = fmt.Sprintf(" [%s]", entry.Failure)
			}
			_, _ = fmt.Fprintf(w, "**tool `%s`** (%s)%s%s\n\n", entry.Tool, entry.Agent, status, timestamp)
			if entry.Arguments != "" && entry.Arguments != "{}" {
				_, _ = fmt.Fprintf(w, "```json\n%s\n```\n\n", entry.Arguments)
			}
			_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(entry.Content))
		default:
			_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", speaker(entry), timestamp, escapeMarkdown(entry.Content))
		}

		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	if transcript.Metadata.Summary != "" {
		_, _ = fmt.Fprintf(w, "\n## Collected data\n\n```yaml\n%s```\n", transcript.Metadata.Summary)
	}

	return nil
}

func speaker(entry internal.TranscriptEntry) string {
	if entry.Actor == internal.ActorAgent && entry.Agent != "" {
		return entry.Agent
	}
	return entry.Actor
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
