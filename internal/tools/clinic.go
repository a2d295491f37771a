package tools

import (
	"context"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/rs/zerolog/log"
)

type appointmentTimeArgs struct {
	Time string `json:"time" jsonschema_description:"The appointment time"`
}

// UpdateAppointmentTime stores the requested time, then confirms the
// appointment once the caller's name and phone are known.
func UpdateAppointmentTime() agent.Tool {
	return agent.NewTool("update_appointment_time",
		"Called when the user provides their appointment time.",
		func(_ context.Context, rc *agent.RunContext, args appointmentTimeArgs) agent.Result {
			d := rc.Data()
			if err := d.SetAppointmentTime(args.Time); err != nil {
				return agent.Invalid("Please provide appointment time first.")
			}
			if !d.HasContact() {
				return agent.Invalid("Please provide your name and phone number first.")
			}

			log.Info().
				Str("name", d.CustomerName).
				Str("phone", d.CustomerPhone).
				Str("time", d.AppointmentTime).
				Msg("Appointment confirmed")
			return agent.OK("Appointment confirmed for %s at %s. We will contact you at %s if needed.",
				d.CustomerName, d.AppointmentTime, d.CustomerPhone)
		})
}
