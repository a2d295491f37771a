package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/store"
	"github.com/rs/zerolog/log"
)

const (
	retrievingNotice = "I'm retrieving your medical information from the database. This may take a moment."
	bookingNotice    = "I'm booking your appointment. This may take a moment."
)

type patientLookupArgs struct {
	PatientID string `json:"patient_id" jsonschema_description:"The patient's unique ID number"`
}

type bookAppointmentArgs struct {
	PatientFullName string `json:"patient_full_name" jsonschema_description:"The patient's full name"`
	PatientID       string `json:"patient_id" jsonschema_description:"The patient's ID number"`
	DoctorSpecialty string `json:"doctor_specialty" jsonschema_description:"The type of doctor to meet (e.g. cardiologist, neurologist, general physician)"`
	Date            string `json:"appointment_date" jsonschema_description:"The date for the appointment (format: YYYY-MM-DD)"`
	Time            string `json:"appointment_time" jsonschema_description:"The time for the appointment (format: HH:MM)"`
}

func (a *bookAppointmentArgs) Validate() error {
	a.PatientFullName = strings.TrimSpace(a.PatientFullName)
	a.PatientID = strings.TrimSpace(a.PatientID)
	a.DoctorSpecialty = strings.TrimSpace(a.DoctorSpecialty)
	a.Date = strings.TrimSpace(a.Date)
	a.Time = strings.TrimSpace(a.Time)

	switch {
	case a.PatientFullName == "" || a.PatientID == "":
		return errors.New("Please provide the patient's full name and patient ID.")
	case a.DoctorSpecialty == "":
		return errors.New("Please tell me which type of doctor you would like to see.")
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return errors.New("Please provide the appointment date in YYYY-MM-DD format.")
	}
	if _, err := time.Parse("15:04", a.Time); err != nil {
		return errors.New("Please provide the appointment time in HH:MM format.")
	}
	return nil
}

// findPatient tries the id as given and then, when it parses as one, as an
// integer.
func findPatient(ctx context.Context, patients store.PatientStore, id string) (store.Patient, error) {
	p, err := patients.FindPatient(ctx, id)
	if !errors.Is(err, store.ErrNotFound) {
		return p, err
	}
	n, convErr := strconv.Atoi(id)
	if convErr != nil {
		return store.Patient{}, err
	}
	return patients.FindPatient(ctx, n)
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// FormatPatient renders a patient record for the caller.
func FormatPatient(p store.Patient) string {
	var b strings.Builder
	name := p.FullName
	if name == "" {
		name = "Unknown"
	}
	fmt.Fprintf(&b, "**Patient Information for %s:**\n", name)
	fmt.Fprintf(&b, "Patient ID: %v\n", p.PatientID)
	fmt.Fprintf(&b, "Date of Birth: %s\n", orNA(p.DateOfBirth))

	if p.TestReport != "" {
		fmt.Fprintf(&b, "\n**Latest Test Report:**\n%s\n", p.TestReport)
	}

	rx := p.Prescription
	if len(rx.Medications) == 0 && rx.SpecialInstructions == "" && rx.LifestyleRecommendations == "" {
		return b.String()
	}
	b.WriteString("\n**Current Prescriptions:**\n")
	for i, med := range rx.Medications {
		medName := med.MedicineName
		if medName == "" {
			medName = "Unknown"
		}
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, medName)
		fmt.Fprintf(&b, "   - Dosage: %s\n", orNA(med.Dosage))
		fmt.Fprintf(&b, "   - Frequency: %s\n", orNA(med.Frequency))
		fmt.Fprintf(&b, "   - Duration: %s\n\n", orNA(med.Duration))
	}
	if rx.SpecialInstructions != "" {
		fmt.Fprintf(&b, "**Special Instructions:**\n%s\n", rx.SpecialInstructions)
	}
	if rx.LifestyleRecommendations != "" {
		fmt.Fprintf(&b, "\n**Lifestyle Recommendations:**\n%s\n", rx.LifestyleRecommendations)
	}
	return b.String()
}

// FormatAppointment renders a booking confirmation.
func FormatAppointment(a store.Appointment) string {
	return fmt.Sprintf("Appointment booked successfully!\n\n**Appointment Details:**\n"+
		"- Patient: %s (ID: %s)\n- Doctor: %s\n- Date: %s\n- Time: %s\n- Status: Scheduled\n\n"+
		"Your appointment has been confirmed. Please arrive 15 minutes early.",
		a.PatientFullName, a.PatientID, a.DoctorSpecialty, a.Date, a.Time)
}

// PatientLookup retrieves a patient's reports and prescriptions.
func PatientLookup(patients store.PatientStore) agent.Tool {
	return agent.NewTool("patient_lookup",
		"Call this tool ONLY when the user provides their patient ID to retrieve their medical reports, "+
			"test results, and prescription information. You MUST ask for the patient ID first before calling this tool.",
		func(ctx context.Context, rc *agent.RunContext, args patientLookupArgs) agent.Result {
			id := strings.TrimSpace(args.PatientID)
			if id == "" {
				return agent.Invalid("Please provide your patient ID.")
			}
			if err := rc.Session.Say(ctx, retrievingNotice); err != nil {
				log.Debug().Err(err).Msg("Failed to announce patient lookup")
			}

			p, err := findPatient(ctx, patients, id)
			switch {
			case errors.Is(err, store.ErrNotFound):
				return agent.NotFound("No patient found with ID: %s. Please verify your patient ID and try again.", id)
			case err != nil:
				log.Error().Err(err).Str("patient_id", id).Msg("Patient lookup failed")
				return agent.Unavailable("Sorry, I encountered an error while retrieving your medical information. Please try again later.")
			}
			return agent.OK("%s", FormatPatient(p))
		})
}

// BookAppointment schedules an appointment with a doctor.
func BookAppointment(appointments store.AppointmentStore) agent.Tool {
	return agent.NewTool("book_appointment",
		"Book an appointment with a doctor for a patient.",
		func(ctx context.Context, rc *agent.RunContext, args bookAppointmentArgs) agent.Result {
			if err := rc.Session.Say(ctx, bookingNotice); err != nil {
				log.Debug().Err(err).Msg("Failed to announce booking")
			}

			a := store.Appointment{
				PatientFullName: args.PatientFullName,
				PatientID:       args.PatientID,
				DoctorSpecialty: args.DoctorSpecialty,
				Date:            args.Date,
				Time:            args.Time,
				Status:          store.AppointmentScheduled,
				CreatedAt:       rc.Session.StartedAt().UTC(),
			}
			id, err := appointments.Book(ctx, a)
			if err != nil {
				log.Error().Err(err).Str("patient_id", a.PatientID).Msg("Failed to book appointment")
				return agent.Unavailable("Sorry, I encountered an error while booking your appointment. Please try again later.")
			}

			log.Info().Str("appointment_id", id).Str("patient_id", a.PatientID).Msg("Appointment booked")
			return agent.OK("%s", FormatAppointment(a))
		})
}
