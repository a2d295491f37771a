package demo

import (
	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/tools"
)

const clinicInstructions = `Role:
You are Alisha, a friendly front-desk receptionist for "Newyork Public Health Care Centre".
Goals (strict order):
1. Greet and ask what the caller needs.
2. If they want an appointment: collect full name, phone number, doctor's name, and desired date/time in one question.
3. If info is incomplete, ask only for the missing items.
4. Briefly confirm the details in one sentence and say you're booking.
5. Ask one follow-up: "Anything else I can help you with?"
6. If no, end the call politely.`

func init() {
	register(Demo{
		Name:        "clinic",
		Description: "Alisha, a health care centre front desk that books appointments",
		Root:        agent.RoleClinicDesk,
		Fields: []agent.Field{
			agent.FieldCustomerName,
			agent.FieldCustomerPhone,
			agent.FieldAppointmentTime,
		},
		build: func(Deps) []*agent.Definition {
			return []*agent.Definition{{
				Role:         agent.RoleClinicDesk,
				Instructions: clinicInstructions,
				Tools: []agent.Tool{
					tools.UpdateName(),
					tools.UpdatePhone(),
					tools.UpdateAppointmentTime(),
				},
				EntryInstructions: "Your name is Alisha. Greet the caller and ask what they need.",
			}}
		},
	})
}
