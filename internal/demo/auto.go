package demo

import (
	"fmt"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/tools"
)

const (
	autoInstructions = "You are the manager of a call center for an auto service shop. " +
		"You speak with customers about their vehicles. Start by collecting or looking up their car " +
		"information: ask for the VIN and look it up. If there is no profile, collect the make, model " +
		"and year and create one. Once a profile is loaded, answer questions about the car and direct " +
		"the caller to the right department."

	autoWelcome = "Hello, and welcome to the Auto Service Center. " +
		"Please provide the VIN of your vehicle to look up your profile."
)

// autoTurn keeps the model focused on getting a car profile until one exists.
func autoTurn(d *agent.SessionData, userText string) string {
	if d.Car == nil {
		return fmt.Sprintf("If the user has provided a VIN, attempt to look it up. "+
			"If they don't have a VIN or the VIN does not exist in the database, "+
			"collect the make, model and year and create a new profile. "+
			"If the user hasn't provided a VIN, ask them for it. The user's message was: %s", userText)
	}
	return fmt.Sprintf("User said: %s. Respond appropriately based on their car profile and your function capabilities.", userText)
}

func init() {
	register(Demo{
		Name:        "auto",
		Description: "Auto service desk that looks up and creates car profiles by VIN",
		Root:        agent.RoleAutoDesk,
		Fields:      []agent.Field{agent.FieldCar},
		Needs:       []Requirement{NeedCars},
		build: func(deps Deps) []*agent.Definition {
			return []*agent.Definition{{
				Role:         agent.RoleAutoDesk,
				Instructions: autoInstructions,
				Tools: []agent.Tool{
					tools.LookupCar(deps.Cars),
					tools.CreateCar(deps.Cars),
					tools.GetCarDetails(),
				},
				EntryInstructions: "Say this welcome message: " + autoWelcome,
				TurnInstructions:  autoTurn,
			}}
		},
	})
}
