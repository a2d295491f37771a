package internal

import (
	"time"
)

// CreateTestTranscript creates a test transcript with sample data
func CreateTestTranscript(id string) *Transcript {
	now := time.Now().Format(time.RFC3339)
	return &Transcript{
		ID:   id,
		Demo: "restaurant",
		Messages: []TranscriptEntry{
			{
				Actor:     ActorUser,
				Content:   "I'd like to book a table.",
				Timestamp: now,
			},
			{
				Actor:     ActorTool,
				Agent:     "greeter",
				Tool:      "to_reservation",
				Arguments: "{}",
				Content:   "Transferring to reservation.",
				Timestamp: now,
			},
			{
				Actor:     ActorAgent,
				Agent:     "reservation",
				Content:   "Sure! What time would you like?",
				Timestamp: now,
			},
		},
		Metadata: TranscriptMetadata{
			StartedAt:    now,
			MessageCount: 3,
			ToolCalls:    1,
			FinalAgent:   "reservation",
		},
	}
}

// CreateTestTranscriptWithMessages creates a test transcript with custom entries
func CreateTestTranscriptWithMessages(id string, messages []TranscriptEntry) *Transcript {
	return &Transcript{
		ID:       id,
		Demo:     "restaurant",
		Messages: messages,
		Metadata: TranscriptMetadata{
			MessageCount: len(messages),
		},
	}
}
