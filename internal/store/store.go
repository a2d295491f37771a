// Package store defines the records the demo tools read and write, and the
// repository ports their backing databases implement.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// ValidationError is returned when a record is rejected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

const (
	MinCGPA = 0.0
	MaxCGPA = 4.0
)

// Student is a row of the students table.
type Student struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Major string  `json:"major"`
	Year  int     `json:"year"`
	CGPA  float64 `json:"cgpa"`
}

// Validate checks the CGPA range and required fields.
func (s Student) Validate() error {
	switch {
	case s.ID == "":
		return &ValidationError{Field: "id", Message: "must not be empty"}
	case s.Name == "":
		return &ValidationError{Field: "name", Message: "must not be empty"}
	case s.Major == "":
		return &ValidationError{Field: "major", Message: "must not be empty"}
	case s.CGPA < MinCGPA || s.CGPA > MaxCGPA:
		return &ValidationError{Field: "cgpa", Message: "must be between 0.0 and 4.0"}
	}
	return nil
}

// Car is a row of the cars table.
type Car struct {
	VIN   string `json:"vin"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

// NormalizeVIN upper-cases and trims a VIN.
func NormalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

// Medication is one line of a prescription.
type Medication struct {
	MedicineName string `bson:"medicine_name" json:"medicine_name"`
	Dosage       string `bson:"dosage" json:"dosage"`
	Frequency    string `bson:"frequency" json:"frequency"`
	Duration     string `bson:"duration" json:"duration"`
}

// Prescription is the doctor's prescription attached to a patient.
type Prescription struct {
	Medications              []Medication `bson:"medications" json:"medications"`
	SpecialInstructions      string       `bson:"special_instructions" json:"special_instructions"`
	LifestyleRecommendations string       `bson:"lifestyle_recommendations" json:"lifestyle_recommendations"`
}

// Patient is a document of the patient_data collection. PatientID may be
// stored as a string or an integer.
type Patient struct {
	PatientID    any          `bson:"patient_id" json:"patient_id"`
	FullName     string       `bson:"full_name" json:"full_name"`
	DateOfBirth  string       `bson:"date_of_birth" json:"date_of_birth"`
	TestReport   string       `bson:"test_report" json:"test_report"`
	Prescription Prescription `bson:"doctors_prescription" json:"doctors_prescription"`
}

// Appointment is a document of the appointments collection.
type Appointment struct {
	PatientFullName string    `bson:"patient_full_name" json:"patient_full_name"`
	PatientID       string    `bson:"patient_id" json:"patient_id"`
	DoctorSpecialty string    `bson:"doctor_specialty" json:"doctor_specialty"`
	Date            string    `bson:"appointment_date" json:"appointment_date"`
	Time            string    `bson:"appointment_time" json:"appointment_time"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// AppointmentScheduled is the status of a freshly booked appointment.
const AppointmentScheduled = "scheduled"

// StudentStore reads and writes student records.
type StudentStore interface {
	GetByID(ctx context.Context, id string) (Student, error)
	GetByName(ctx context.Context, name string) (Student, error)
	Add(ctx context.Context, s Student) error
	List(ctx context.Context) ([]Student, error)
}

// CarStore reads and writes vehicle records.
type CarStore interface {
	GetByVIN(ctx context.Context, vin string) (Car, error)
	Create(ctx context.Context, c Car) error
}

// PatientStore looks up patient records by an id of any stored type.
type PatientStore interface {
	FindPatient(ctx context.Context, id any) (Patient, error)
}

// AppointmentStore persists booked appointments and returns their id.
type AppointmentStore interface {
	Book(ctx context.Context, a Appointment) (string, error)
}
