package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const cgpaRangeMessage = "CGPA must be between 0.0 and 4.0. Please provide a valid CGPA."

type studentLookupArgs struct {
	Identifier string `json:"identifier" jsonschema_description:"Student ID or student name to search for"`
}

type newStudentArgs struct {
	StudentID string  `json:"student_id" jsonschema_description:"Student ID (required)"`
	Name      string  `json:"name" jsonschema_description:"Student full name (required)"`
	Major     string  `json:"major" jsonschema_description:"Student major/program (required)"`
	Year      int     `json:"year" jsonschema_description:"Admission year (required)"`
	CGPA      float64 `json:"cgpa" jsonschema:"minimum=0,maximum=4" jsonschema_description:"Current CGPA (required)"`
}

func (a *newStudentArgs) Validate() error {
	if a.CGPA < store.MinCGPA || a.CGPA > store.MaxCGPA {
		return errors.New(cgpaRangeMessage)
	}
	return nil
}

// normalize trims every field, title-cases the name and upper-cases the major.
func (a newStudentArgs) normalize() store.Student {
	return store.Student{
		ID:    strings.TrimSpace(a.StudentID),
		Name:  cases.Title(language.Und).String(strings.TrimSpace(a.Name)),
		Major: strings.ToUpper(strings.TrimSpace(a.Major)),
		Year:  a.Year,
		CGPA:  a.CGPA,
	}
}

func formatStudent(header string, s store.Student) string {
	return fmt.Sprintf("%s\nID: %s\nName: %s\nMajor: %s\nYear: %d\nCGPA: %s",
		header, s.ID, s.Name, s.Major, s.Year, formatNumber(s.CGPA))
}

// GetStudentInfo looks a student up by ID, then by name.
func GetStudentInfo(students store.StudentStore) agent.Tool {
	return agent.NewTool("get_student_info",
		"Retrieve student information by ID or name. Only returns information for students that exist in the database.",
		func(ctx context.Context, _ *agent.RunContext, args studentLookupArgs) agent.Result {
			identifier := strings.TrimSpace(args.Identifier)

			s, err := students.GetByID(ctx, identifier)
			if errors.Is(err, store.ErrNotFound) {
				s, err = students.GetByName(ctx, identifier)
			}
			switch {
			case errors.Is(err, store.ErrNotFound):
				log.Info().Str("identifier", identifier).Msg("Student not found")
				return agent.NotFound("Sorry, I couldn't find any student with ID or name '%s' in our database.", identifier)
			case err != nil:
				log.Error().Err(err).Str("identifier", identifier).Msg("Student lookup failed")
				return agent.Unavailable("Sorry, I couldn't reach the student database right now. Please try again later.")
			}

			log.Info().Str("identifier", identifier).Msg("Retrieved student info")
			return agent.OK("%s", formatStudent("Student Information:", s))
		})
}

// AddNewStudent inserts a student after normalizing and range-checking the input.
func AddNewStudent(students store.StudentStore) agent.Tool {
	return agent.NewTool("add_new_student",
		"Add a new student to the database. All fields are required: ID, name, major, year, and CGPA.",
		func(ctx context.Context, _ *agent.RunContext, args newStudentArgs) agent.Result {
			s := args.normalize()

			err := students.Add(ctx, s)
			var vErr *store.ValidationError
			switch {
			case err == nil:
			case errors.As(err, &vErr) && vErr.Field == "cgpa":
				return agent.Invalid(cgpaRangeMessage)
			case errors.As(err, &vErr):
				return agent.Invalid("Please provide the student's %s.", vErr.Field)
			case errors.Is(err, store.ErrAlreadyExists):
				return agent.Invalid("Failed to add student. Student ID '%s' may already exist in the database.", s.ID)
			default:
				log.Error().Err(err).Str("id", s.ID).Msg("Failed to add student")
				return agent.Unavailable("Failed to add student. Student ID '%s' may already exist in the database.", s.ID)
			}

			log.Info().Str("id", s.ID).Str("name", s.Name).Msg("Added new student")
			return agent.OK("%s", formatStudent("Successfully added new student:", s))
		})
}

// ListAllStudents lists every student in the database.
func ListAllStudents(students store.StudentStore) agent.Tool {
	return agent.NewTool("list_all_students",
		"Get a list of all students in the database.",
		func(ctx context.Context, _ *agent.RunContext, _ agent.NoArgs) agent.Result {
			all, err := students.List(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Failed to list students")
				return agent.Unavailable("Sorry, I couldn't reach the student database right now. Please try again later.")
			}
			if len(all) == 0 {
				return agent.NotFound("No students found in the database.")
			}

			lines := []string{fmt.Sprintf("Here are all students in the database (%d total):", len(all))}
			for _, s := range all {
				lines = append(lines, fmt.Sprintf("• %s (ID: %s) - %s, Year %d, CGPA: %s",
					s.Name, s.ID, s.Major, s.Year, formatNumber(s.CGPA)))
			}
			log.Info().Int("count", len(all)).Msg("Retrieved list of students")
			return agent.OK("%s", strings.Join(lines, "\n"))
		})
}
