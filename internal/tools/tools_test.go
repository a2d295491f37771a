package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	data    *agent.SessionData
	current *agent.Agent
	said    []string
	started time.Time
}

func (s *fakeSession) Data() *agent.SessionData   { return s.data }
func (s *fakeSession) CurrentAgent() *agent.Agent { return s.current }
func (s *fakeSession) StartedAt() time.Time       { return s.started }
func (s *fakeSession) GenerateReply(context.Context, agent.ReplyOptions) error {
	return nil
}
func (s *fakeSession) Say(_ context.Context, text string) error {
	s.said = append(s.said, text)
	return nil
}

// newSession registers one bare agent per role and makes current the active one.
func newSession(root, current agent.Role, roles ...agent.Role) *fakeSession {
	data := agent.NewSessionData(root)
	for _, r := range append(roles, root, current) {
		if _, ok := data.Agents[r]; !ok {
			data.Register(&agent.Definition{Role: r})
		}
	}
	return &fakeSession{
		data:    data,
		current: data.Agents[current],
		started: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

func invoke(t *testing.T, tool agent.Tool, s *fakeSession, args string) agent.Result {
	t.Helper()
	return tool.Invoke(context.Background(), agent.NewRunContext(s), args)
}

func TestCommonTools(t *testing.T) {
	s := newSession(agent.RoleGreeter, agent.RoleReservation)

	res := invoke(t, UpdateName(), s, `{"name":" Haris "}`)
	assert.Equal(t, "The name is updated to Haris", res.Message)
	assert.Equal(t, "Haris", s.data.CustomerName)

	res = invoke(t, UpdatePhone(), s, `{"phone":"555-0100"}`)
	assert.Equal(t, "The phone number is updated to 555-0100", res.Message)

	res = invoke(t, UpdateName(), s, `{"name":"   "}`)
	assert.Equal(t, agent.FailureValidation, res.Failure)
	assert.Equal(t, "Haris", s.data.CustomerName, "blank name must not clear the field")

	res = invoke(t, ToGreeter(), s, ``)
	require.NotNil(t, res.Handoff)
	assert.Equal(t, agent.RoleGreeter, res.Handoff.Role())
	assert.Equal(t, "Transferring to greeter.", res.Message)
	assert.Same(t, s.current, s.data.PrevAgent)
}

func TestToGreeter_RootMissing(t *testing.T) {
	s := newSession(agent.RoleGreeter, agent.RoleTakeaway)
	delete(s.data.Agents, agent.RoleGreeter)

	res := invoke(t, ToGreeter(), s, `{}`)
	assert.Nil(t, res.Handoff)
	assert.Equal(t, agent.FailureUnavailable, res.Failure)
	assert.Equal(t, "greeter agent not available.", res.Message)
}

func TestConfirmReservation(t *testing.T) {
	t.Run("requires contact first", func(t *testing.T) {
		s := newSession(agent.RoleGreeter, agent.RoleReservation)
		_ = s.data.SetReservationTime("7pm")
		res := invoke(t, ConfirmReservation(), s, `{}`)
		assert.Equal(t, "Please provide your name and phone number first.", res.Message)
	})

	t.Run("requires time", func(t *testing.T) {
		s := newSession(agent.RoleGreeter, agent.RoleReservation)
		_ = s.data.SetCustomerName("Haris")
		_ = s.data.SetCustomerPhone("555")
		res := invoke(t, ConfirmReservation(), s, `{}`)
		assert.Equal(t, "Please provide reservation time first.", res.Message)
	})

	t.Run("root agent confirms in place", func(t *testing.T) {
		s := newSession(agent.RoleReceptionist, agent.RoleReceptionist)
		_ = s.data.SetCustomerName("Haris")
		_ = s.data.SetCustomerPhone("555")
		_ = s.data.SetReservationTime("7pm")
		res := invoke(t, ConfirmReservation(), s, `{}`)
		assert.Nil(t, res.Handoff)
		assert.Equal(t, "Reservation confirmed for Haris at 7pm. We will contact you at 555 if needed.", res.Message)
	})

	t.Run("specialist hands back to root", func(t *testing.T) {
		s := newSession(agent.RoleGreeter, agent.RoleReservation)
		_ = s.data.SetCustomerName("Haris")
		_ = s.data.SetCustomerPhone("555")
		_ = s.data.SetReservationTime("7pm")
		res := invoke(t, ConfirmReservation(), s, `{}`)
		require.NotNil(t, res.Handoff)
		assert.Equal(t, agent.RoleGreeter, res.Handoff.Role())
		assert.True(t, strings.HasPrefix(res.Message, "Reservation confirmed for Haris"))
	})
}

func TestTakeawayAndCheckout(t *testing.T) {
	s := newSession(agent.RoleGreeter, agent.RoleTakeaway, agent.RoleCheckout)

	res := invoke(t, ToCheckout(), s, `{}`)
	assert.Equal(t, "No takeaway order found. Please make an order first.", res.Message)
	assert.Nil(t, res.Handoff)

	res = invoke(t, UpdateOrder(), s, `{"items":["Pizza"," Coffee "]}`)
	assert.Equal(t, "The order is updated to Pizza, Coffee", res.Message)

	res = invoke(t, ToCheckout(), s, `{}`)
	require.NotNil(t, res.Handoff)
	assert.Equal(t, agent.RoleCheckout, res.Handoff.Role())
	s.current = res.Handoff

	tests := []struct {
		name string
		tool agent.Tool
		args string
		want string
	}{
		{"checkout without expense", ConfirmCheckout(), `{}`, "Please confirm the expense first."},
		{"zero expense rejected", ConfirmExpense(), `{"expense":0}`, "The expense must be greater than zero."},
		{"expense", ConfirmExpense(), `{"expense":12}`, "The expense is confirmed to be 12.0"},
		{"checkout without card", ConfirmCheckout(), `{}`, "Please provide the credit card information first."},
		{"card", UpdateCreditCard(), `{"number":"4111","expiry":"12/29","cvv":"123"}`, "The credit card number is updated to 4111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := invoke(t, tt.tool, s, tt.args)
			assert.Equal(t, tt.want, res.Message)
			assert.Nil(t, res.Handoff)
		})
	}
	assert.Nil(t, s.data.CheckedOut)

	res = invoke(t, ConfirmCheckout(), s, `{}`)
	require.NotNil(t, res.Handoff)
	assert.Equal(t, agent.RoleGreeter, res.Handoff.Role())
	require.NotNil(t, s.data.CheckedOut)
	assert.True(t, *s.data.CheckedOut)
}

func TestUpdateAppointmentTime(t *testing.T) {
	s := newSession(agent.RoleClinicDesk, agent.RoleClinicDesk)

	res := invoke(t, UpdateAppointmentTime(), s, `{"time":"Monday 10am"}`)
	assert.Equal(t, "Please provide your name and phone number first.", res.Message)
	assert.Equal(t, "Monday 10am", s.data.AppointmentTime)

	_ = s.data.SetCustomerName("Sara")
	_ = s.data.SetCustomerPhone("555-0199")
	res = invoke(t, UpdateAppointmentTime(), s, `{"time":"Monday 10am"}`)
	assert.False(t, res.Failed())
	assert.Equal(t, "Appointment confirmed for Sara at Monday 10am. We will contact you at 555-0199 if needed.", res.Message)
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{3.26: "3.26", 4: "4.0", 0: "0.0", 12.5: "12.5"}
	for in, want := range tests {
		assert.Equal(t, want, formatNumber(in))
	}
}

type fakeStudents struct {
	rows []store.Student
	err  error
}

func (f *fakeStudents) GetByID(_ context.Context, id string) (store.Student, error) {
	if f.err != nil {
		return store.Student{}, f.err
	}
	for _, s := range f.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return store.Student{}, store.ErrNotFound
}

func (f *fakeStudents) GetByName(_ context.Context, name string) (store.Student, error) {
	for _, s := range f.rows {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return store.Student{}, store.ErrNotFound
}

func (f *fakeStudents) Add(_ context.Context, st store.Student) error {
	if err := st.Validate(); err != nil {
		return err
	}
	for _, s := range f.rows {
		if s.ID == st.ID {
			return store.ErrAlreadyExists
		}
	}
	f.rows = append(f.rows, st)
	return nil
}

func (f *fakeStudents) List(context.Context) ([]store.Student, error) {
	return f.rows, f.err
}

func TestStudentTools(t *testing.T) {
	haris := store.Student{ID: "2023428", Name: "Haris", Major: "BSCS", Year: 2023, CGPA: 3.26}
	s := newSession(agent.RoleStudentInfo, agent.RoleStudentInfo)

	t.Run("lookup by id then name", func(t *testing.T) {
		students := &fakeStudents{rows: []store.Student{haris}}
		want := "Student Information:\nID: 2023428\nName: Haris\nMajor: BSCS\nYear: 2023\nCGPA: 3.26"

		assert.Equal(t, want, invoke(t, GetStudentInfo(students), s, `{"identifier":"2023428"}`).Message)
		assert.Equal(t, want, invoke(t, GetStudentInfo(students), s, `{"identifier":" haris "}`).Message)

		res := invoke(t, GetStudentInfo(students), s, `{"identifier":"Nobody"}`)
		assert.Equal(t, agent.FailureNotFound, res.Failure)
		assert.Equal(t, "Sorry, I couldn't find any student with ID or name 'Nobody' in our database.", res.Message)
	})

	t.Run("store failure is soft", func(t *testing.T) {
		students := &fakeStudents{err: errors.New("disk I/O error")}
		res := invoke(t, GetStudentInfo(students), s, `{"identifier":"1"}`)
		assert.Equal(t, agent.FailureUnavailable, res.Failure)
		assert.NotContains(t, res.Message, "disk")
	})

	t.Run("add normalizes input", func(t *testing.T) {
		students := &fakeStudents{rows: []store.Student{haris}}
		res := invoke(t, AddNewStudent(students), s,
			`{"student_id":" 2022101 ","name":"ayesha khan","major":"bsee","year":2022,"cgpa":4}`)
		assert.False(t, res.Failed())
		assert.Equal(t, "Successfully added new student:\nID: 2022101\nName: Ayesha Khan\nMajor: BSEE\nYear: 2022\nCGPA: 4.0", res.Message)
		assert.Len(t, students.rows, 2)
	})

	t.Run("cgpa out of range never writes", func(t *testing.T) {
		students := &fakeStudents{rows: []store.Student{haris}}
		for _, cgpa := range []string{"4.5", "-1"} {
			res := invoke(t, AddNewStudent(students), s,
				`{"student_id":"9","name":"X","major":"Y","year":2020,"cgpa":`+cgpa+`}`)
			assert.Equal(t, "CGPA must be between 0.0 and 4.0. Please provide a valid CGPA.", res.Message)
		}
		assert.Len(t, students.rows, 1)
	})

	t.Run("duplicate id", func(t *testing.T) {
		students := &fakeStudents{rows: []store.Student{haris}}
		res := invoke(t, AddNewStudent(students), s,
			`{"student_id":"2023428","name":"Other","major":"BBA","year":2020,"cgpa":2}`)
		assert.Equal(t, "Failed to add student. Student ID '2023428' may already exist in the database.", res.Message)
		assert.Equal(t, "Haris", students.rows[0].Name)
	})

	t.Run("list", func(t *testing.T) {
		res := invoke(t, ListAllStudents(&fakeStudents{}), s, `{}`)
		assert.Equal(t, "No students found in the database.", res.Message)

		res = invoke(t, ListAllStudents(&fakeStudents{rows: []store.Student{haris}}), s, `{}`)
		assert.Equal(t, "Here are all students in the database (1 total):\n• Haris (ID: 2023428) - BSCS, Year 2023, CGPA: 3.26", res.Message)
	})
}

type fakePatients struct {
	byID  map[any]store.Patient
	err   error
	calls []any
}

func (f *fakePatients) FindPatient(_ context.Context, id any) (store.Patient, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return store.Patient{}, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return store.Patient{}, store.ErrNotFound
	}
	return p, nil
}

type fakeAppointments struct {
	booked []store.Appointment
	err    error
}

func (f *fakeAppointments) Book(_ context.Context, a store.Appointment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.booked = append(f.booked, a)
	return "665f1c2e9b1e8a0012345678", nil
}

func TestPatientLookup(t *testing.T) {
	sara := store.Patient{
		PatientID:   1001,
		FullName:    "Sara Ahmed",
		DateOfBirth: "1990-04-12",
		TestReport:  "CBC normal",
		Prescription: store.Prescription{
			Medications:         []store.Medication{{MedicineName: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"}},
			SpecialInstructions: "Take after meals",
		},
	}

	t.Run("integer fallback", func(t *testing.T) {
		patients := &fakePatients{byID: map[any]store.Patient{1001: sara}}
		s := newSession(agent.RoleMedical, agent.RoleMedical)

		res := invoke(t, PatientLookup(patients), s, `{"patient_id":"1001"}`)
		assert.False(t, res.Failed())
		assert.Equal(t, []any{"1001", 1001}, patients.calls)
		assert.Equal(t, []string{retrievingNotice}, s.said)
		assert.Contains(t, res.Message, "**Patient Information for Sara Ahmed:**")
		assert.Contains(t, res.Message, "1. **Amoxicillin**\n   - Dosage: 500mg")
		assert.Contains(t, res.Message, "**Special Instructions:**\nTake after meals")
		assert.NotContains(t, res.Message, "Lifestyle")
	})

	t.Run("not found", func(t *testing.T) {
		patients := &fakePatients{byID: map[any]store.Patient{}}
		res := invoke(t, PatientLookup(patients), newSession(agent.RoleMedical, agent.RoleMedical), `{"patient_id":"P-7"}`)
		assert.Equal(t, "No patient found with ID: P-7. Please verify your patient ID and try again.", res.Message)
		assert.Equal(t, []any{"P-7"}, patients.calls, "non-numeric ids are not retried")
	})

	t.Run("store error", func(t *testing.T) {
		patients := &fakePatients{err: errors.New("server selection timeout")}
		res := invoke(t, PatientLookup(patients), newSession(agent.RoleMedical, agent.RoleMedical), `{"patient_id":"1001"}`)
		assert.Equal(t, agent.FailureUnavailable, res.Failure)
		assert.True(t, strings.HasPrefix(res.Message, "Sorry, I encountered an error while retrieving your medical information"))
	})
}

func TestBookAppointment(t *testing.T) {
	args := `{"patient_full_name":"Sara Ahmed","patient_id":"1001","doctor_specialty":"cardiologist",` +
		`"appointment_date":"2025-06-10","appointment_time":"14:30"}`

	appts := &fakeAppointments{}
	s := newSession(agent.RoleMedical, agent.RoleMedical)
	res := invoke(t, BookAppointment(appts), s, args)
	require.False(t, res.Failed(), res.Message)
	require.Len(t, appts.booked, 1)

	got := appts.booked[0]
	assert.Equal(t, store.AppointmentScheduled, got.Status)
	assert.Equal(t, s.started, got.CreatedAt)
	assert.Equal(t, "cardiologist", got.DoctorSpecialty)
	assert.True(t, strings.HasPrefix(res.Message, "Appointment booked successfully!"))
	assert.True(t, strings.HasSuffix(res.Message, "Please arrive 15 minutes early."))
	assert.Equal(t, []string{bookingNotice}, s.said)

	res = invoke(t, BookAppointment(appts), s, strings.Replace(args, "2025-06-10", "10/06/2025", 1))
	assert.Equal(t, "Please provide the appointment date in YYYY-MM-DD format.", res.Message)
	assert.Len(t, appts.booked, 1)

	res = invoke(t, BookAppointment(&fakeAppointments{err: errors.New("write concern")}), s, args)
	assert.Equal(t, agent.FailureUnavailable, res.Failure)
}

type fakeCars struct {
	rows map[string]store.Car
}

func (f *fakeCars) GetByVIN(_ context.Context, vin string) (store.Car, error) {
	c, ok := f.rows[store.NormalizeVIN(vin)]
	if !ok {
		return store.Car{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeCars) Create(_ context.Context, c store.Car) error {
	if _, ok := f.rows[c.VIN]; ok {
		return store.ErrAlreadyExists
	}
	f.rows[c.VIN] = c
	return nil
}

func TestCarTools(t *testing.T) {
	cars := &fakeCars{rows: map[string]store.Car{
		"1HGCM82633A004352": {VIN: "1HGCM82633A004352", Make: "Honda", Model: "Accord", Year: 2003},
	}}
	s := newSession(agent.RoleAutoDesk, agent.RoleAutoDesk)

	res := invoke(t, GetCarDetails(), s, `{}`)
	assert.Equal(t, agent.FailureNotFound, res.Failure)

	res = invoke(t, LookupCar(cars), s, `{"vin":"5YJSA1E26HF000337"}`)
	assert.Equal(t, agent.FailureNotFound, res.Failure)
	assert.Nil(t, s.data.Car)

	res = invoke(t, LookupCar(cars), s, `{"vin":"1hgcm82633a004352"}`)
	require.False(t, res.Failed())
	require.NotNil(t, s.data.Car)
	assert.Equal(t, "Honda", s.data.Car.Make)

	res = invoke(t, GetCarDetails(), s, `{}`)
	assert.Equal(t, "The car details are:\nVIN: 1HGCM82633A004352\nMake: Honda\nModel: Accord\nYear: 2003", res.Message)

	res = invoke(t, CreateCar(cars), s, `{"vin":"1HGCM82633A004352","make":"Honda","model":"Civic","year":2010}`)
	assert.Equal(t, "A car with VIN 1HGCM82633A004352 already exists. Look it up instead.", res.Message)

	res = invoke(t, CreateCar(cars), s, `{"vin":"5yjsa1e26hf000337","make":"Tesla","model":"Model S","year":2017}`)
	require.False(t, res.Failed(), res.Message)
	assert.Equal(t, "5YJSA1E26HF000337", s.data.Car.VIN)

	res = invoke(t, CreateCar(cars), s, `{"vin":"X","make":"","model":"Y","year":2000}`)
	assert.Equal(t, "Please provide the VIN, make, model and year of the car.", res.Message)
}

func TestLookupCar_IncompleteRecord(t *testing.T) {
	cars := &fakeCars{rows: map[string]store.Car{
		"ABC123": {Make: "Honda", Model: "Accord", Year: 2003},
	}}
	s := newSession(agent.RoleAutoDesk, agent.RoleAutoDesk)

	res := invoke(t, LookupCar(cars), s, `{"vin":"abc123"}`)
	assert.Equal(t, agent.FailureUnavailable, res.Failure)
	assert.Equal(t, "Sorry, the record for VIN ABC123 is incomplete. Please try again later.", res.Message)
	assert.Nil(t, s.data.Car)
}
