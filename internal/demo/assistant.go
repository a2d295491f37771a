package demo

import "github.com/iksnae/voice-desk/internal/agent"

func init() {
	register(Demo{
		Name:        "assistant",
		Description: "Plain conversational assistant without tools",
		Root:        agent.RoleAssistant,
		Fields:      []agent.Field{agent.FieldCustomerName},
		build: func(Deps) []*agent.Definition {
			return []*agent.Definition{{
				Role:              agent.RoleAssistant,
				Instructions:      "You are a helpful voice AI assistant. Keep your responses conversational and concise.",
				EntryInstructions: "Greet the user warmly and offer your assistance.",
			}}
		},
	})
}
