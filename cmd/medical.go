package cmd

import (
	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/iksnae/voice-desk/internal/tools"
	"github.com/spf13/cobra"
)

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "Look up patient records in MongoDB",
}

var patientsLookupCmd = &cobra.Command{
	Use:   "lookup <patient-id>",
	Short: "Show a patient's medical record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(cmd, []demo.Requirement{demo.NeedPatients}, func(deps demo.Deps) error {
			return runTool(cmd, tools.PatientLookup(deps.Patients), map[string]any{"patient_id": args[0]})
		})
	},
}

var appointmentsCmd = &cobra.Command{
	Use:   "appointments",
	Short: "Book appointments in MongoDB",
}

var booking struct {
	name, patientID, specialty, date, time string
}

var appointmentsBookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book an appointment",
	Long: `Book an appointment for a patient.

Example:
  voice-desk appointments book --name "Ali Raza" --patient-id 1001 \
    --specialty cardiologist --date 2025-07-01 --time 10:30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(cmd, []demo.Requirement{demo.NeedAppointments}, func(deps demo.Deps) error {
			return runTool(cmd, tools.BookAppointment(deps.Appointments), map[string]any{
				"patient_full_name": booking.name,
				"patient_id":        booking.patientID,
				"doctor_specialty":  booking.specialty,
				"appointment_date":  booking.date,
				"appointment_time":  booking.time,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(patientsCmd, appointmentsCmd)
	patientsCmd.AddCommand(patientsLookupCmd)
	appointmentsCmd.AddCommand(appointmentsBookCmd)

	f := appointmentsBookCmd.Flags()
	f.StringVar(&booking.name, "name", "", "Patient full name")
	f.StringVar(&booking.patientID, "patient-id", "", "Patient ID")
	f.StringVar(&booking.specialty, "specialty", "", "Doctor specialty, e.g. cardiologist")
	f.StringVar(&booking.date, "date", "", "Date (YYYY-MM-DD)")
	f.StringVar(&booking.time, "time", "", "Time (HH:MM)")
}
