package cmd

import (
	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/iksnae/voice-desk/internal/tools"
	"github.com/spf13/cobra"
)

var studentReqs = []demo.Requirement{demo.NeedStudents}

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Look up and manage student records",
}

var studentsGetCmd = &cobra.Command{
	Use:   "get <id-or-name>",
	Short: "Show a student by ID or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(cmd, studentReqs, func(deps demo.Deps) error {
			return runTool(cmd, tools.GetStudentInfo(deps.Students), map[string]any{"identifier": args[0]})
		})
	},
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every student",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(cmd, studentReqs, func(deps demo.Deps) error {
			return runTool(cmd, tools.ListAllStudents(deps.Students), map[string]any{})
		})
	},
}

var newStudent struct {
	id, name, major string
	year            int
	cgpa            float64
}

var studentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a student",
	Long: `Add a student record. The name is title-cased, the major upper-cased and
the CGPA must be between 0.0 and 4.0.

Example:
  voice-desk students add --id 2024001 --name "sara ali" --major bsse --year 2024 --cgpa 3.5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(cmd, studentReqs, func(deps demo.Deps) error {
			return runTool(cmd, tools.AddNewStudent(deps.Students), map[string]any{
				"student_id": newStudent.id,
				"name":       newStudent.name,
				"major":      newStudent.major,
				"year":       newStudent.year,
				"cgpa":       newStudent.cgpa,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(studentsCmd)
	studentsCmd.AddCommand(studentsGetCmd, studentsListCmd, studentsAddCmd)

	f := studentsAddCmd.Flags()
	f.StringVar(&newStudent.id, "id", "", "Student ID")
	f.StringVar(&newStudent.name, "name", "", "Full name")
	f.StringVar(&newStudent.major, "major", "", "Major or program")
	f.IntVar(&newStudent.year, "year", 0, "Admission year")
	f.Float64Var(&newStudent.cgpa, "cgpa", 0, "Current CGPA (0.0 to 4.0)")
	for _, name := range []string{"id", "name", "major", "year", "cgpa"} {
		_ = studentsAddCmd.MarkFlagRequired(name)
	}
}
