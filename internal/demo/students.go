package demo

import (
	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/tools"
)

const studentInstructions = "You are a simple student information assistant named Alisha. " +
	"Start off by introducing yourself and asking the user how you can help them today. " +
	"The user already knows what functions you can perform so there is no need to repeat them. " +
	"Only for your context, you can perform these tasks (do not list them unless explicitly asked):\n\n" +
	"1. RETRIEVE student information by ID or name (only for students in the database)\n" +
	"2. ADD new students to the database (requires all information: ID, name, major, year, CGPA)\n" +
	"3. LIST every student in the database\n" +
	"Guidelines:\n" +
	"- Only provide information about students that exist in the database\n" +
	"- When adding students, make sure you have all required information\n" +
	"- If a student is not found, clearly state that\n" +
	"- CGPA must be between 0.0 and 4.0\n" +
	"- Always confirm information before adding new students\n" +
	"- Keep responses concise and accurate"

func init() {
	register(Demo{
		Name:        "students",
		Description: "Student records assistant backed by SQLite",
		Root:        agent.RoleStudentInfo,
		Fields:      []agent.Field{agent.FieldCustomerName},
		Needs:       []Requirement{NeedStudents},
		build: func(deps Deps) []*agent.Definition {
			return []*agent.Definition{{
				Role:         agent.RoleStudentInfo,
				Instructions: studentInstructions,
				Tools: []agent.Tool{
					tools.GetStudentInfo(deps.Students),
					tools.AddNewStudent(deps.Students),
					tools.ListAllStudents(deps.Students),
				},
			}}
		},
	})
}
