// Package tools holds the function tools the demo agents expose to the model.
package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/iksnae/voice-desk/internal/agent"
)

type nameArgs struct {
	Name string `json:"name" jsonschema_description:"The customer's name"`
}

type phoneArgs struct {
	Phone string `json:"phone" jsonschema_description:"The customer's phone number"`
}

// UpdateName records the customer's name.
func UpdateName() agent.Tool {
	return agent.NewTool("update_name",
		"Called when the user provides their name.",
		func(_ context.Context, rc *agent.RunContext, args nameArgs) agent.Result {
			if err := rc.Data().SetCustomerName(args.Name); err != nil {
				return agent.Invalid("Please provide a name.")
			}
			return agent.OK("The name is updated to %s", rc.Data().CustomerName)
		})
}

// UpdatePhone records the customer's phone number.
func UpdatePhone() agent.Tool {
	return agent.NewTool("update_phone",
		"Called when the user provides their phone number.",
		func(_ context.Context, rc *agent.RunContext, args phoneArgs) agent.Result {
			if err := rc.Data().SetCustomerPhone(args.Phone); err != nil {
				return agent.Invalid("Please provide a phone number.")
			}
			return agent.OK("The phone number is updated to %s", rc.Data().CustomerPhone)
		})
}

// ToGreeter sends the caller back to the demo's root agent.
func ToGreeter() agent.Tool {
	return agent.NewTool("to_greeter",
		"Called when user asks any unrelated questions or requests any other services not in your job description. "+
			"Sends the user back to the main agent.",
		func(_ context.Context, rc *agent.RunContext, _ agent.NoArgs) agent.Result {
			return rc.TransferToRoot()
		})
}

// transfer builds a parameterless hand-off tool.
func transfer(name, description string, role agent.Role) agent.Tool {
	return agent.NewTool(name, description,
		func(_ context.Context, rc *agent.RunContext, _ agent.NoArgs) agent.Result {
			return rc.TransferTo(role)
		})
}

// formatNumber prints whole numbers with a trailing ".0" (3.0, 15.0) and
// everything else in the shortest form.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
