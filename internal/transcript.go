package internal

import (
	"sync"
	"time"
)

// Transcript is the exported record of one conversation
type Transcript struct {
	ID       string             `json:"id" yaml:"id"`
	Demo     string             `json:"demo" yaml:"demo"`
	Messages []TranscriptEntry  `json:"messages" yaml:"messages"`
	Metadata TranscriptMetadata `json:"metadata" yaml:"metadata"`
}

// TranscriptEntry is one line of a conversation
type TranscriptEntry struct {
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Actor     string `json:"actor" yaml:"actor"` // "user", "agent", "tool", "system"
	Agent     string `json:"agent,omitempty" yaml:"agent,omitempty"`
	Content   string `json:"content" yaml:"content"`
	Tool      string `json:"tool,omitempty" yaml:"tool,omitempty"`
	Arguments string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Failure   string `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// TranscriptMetadata contains additional conversation information
type TranscriptMetadata struct {
	StartedAt    string `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	EndedAt      string `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
	MessageCount int    `json:"message_count" yaml:"message_count"`
	ToolCalls    int    `json:"tool_calls" yaml:"tool_calls"`
	Handoffs     int    `json:"handoffs" yaml:"handoffs"`
	FinalAgent   string `json:"final_agent,omitempty" yaml:"final_agent,omitempty"`
	Summary      string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

const (
	ActorUser   = "user"
	ActorAgent  = "agent"
	ActorTool   = "tool"
	ActorSystem = "system"
)

// TranscriptRecorder accumulates entries while a conversation runs
type TranscriptRecorder struct {
	mu         sync.Mutex
	transcript Transcript
	now        func() time.Time
}

// NewTranscriptRecorder creates a recorder for a conversation
func NewTranscriptRecorder(id, demo string, startedAt time.Time) *TranscriptRecorder {
	return &TranscriptRecorder{
		transcript: Transcript{
			ID:   id,
			Demo: demo,
			Metadata: TranscriptMetadata{
				StartedAt: startedAt.Format(time.RFC3339),
			},
		},
		now: time.Now,
	}
}

// Add appends an entry, stamping it if needed
func (r *TranscriptRecorder) Add(entry TranscriptEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = r.now().Format(time.RFC3339)
	}
	switch entry.Actor {
	case ActorTool:
		r.transcript.Metadata.ToolCalls++
	case ActorSystem:
		if entry.Tool == "" && entry.Agent != "" {
			r.transcript.Metadata.Handoffs++
		}
	}
	r.transcript.Messages = append(r.transcript.Messages, entry)
	r.transcript.Metadata.MessageCount = len(r.transcript.Messages)
}

// Finish stamps the end of the conversation and returns a copy of the transcript
func (r *TranscriptRecorder) Finish(finalAgent, summary string) *Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transcript.Metadata.EndedAt = r.now().Format(time.RFC3339)
	r.transcript.Metadata.FinalAgent = finalAgent
	r.transcript.Metadata.Summary = summary
	return r.snapshot()
}

// Snapshot returns a copy of the transcript so far
func (r *TranscriptRecorder) Snapshot() *Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *TranscriptRecorder) snapshot() *Transcript {
	t := r.transcript
	t.Messages = make([]TranscriptEntry, len(r.transcript.Messages))
	copy(t.Messages, r.transcript.Messages)
	return &t
}
