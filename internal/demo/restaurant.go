package demo

import (
	"fmt"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/tools"
)

var restaurantFields = []agent.Field{
	agent.FieldCustomerName,
	agent.FieldCustomerPhone,
	agent.FieldReservationTime,
	agent.FieldOrder,
	agent.FieldCreditCard,
	agent.FieldExpense,
	agent.FieldCheckedOut,
}

func init() {
	register(Demo{
		Name:        "restaurant",
		Description: "Greeter that routes callers to reservation, takeaway and checkout agents",
		Root:        agent.RoleGreeter,
		Fields:      restaurantFields,
		build: func(deps Deps) []*agent.Definition {
			return []*agent.Definition{
				greeter(deps.Menu),
				reservation(),
				takeaway(deps.Menu),
				checkout(deps.Menu),
			}
		},
	})

	register(Demo{
		Name:        "receptionist",
		Description: "Single receptionist that takes reservations and hands takeaway orders on",
		Root:        agent.RoleReceptionist,
		Fields:      restaurantFields,
		build: func(deps Deps) []*agent.Definition {
			return []*agent.Definition{
				receptionist(deps.Menu),
				takeaway(deps.Menu),
				checkout(deps.Menu),
			}
		},
	})
}

func greeter(menu string) *agent.Definition {
	return &agent.Definition{
		Role: agent.RoleGreeter,
		Instructions: fmt.Sprintf("You are a friendly restaurant receptionist. The menu is: %s\n"+
			"Your jobs are to greet the caller and understand if they want to "+
			"make a reservation or order takeaway. Guide them to the right agent using tools.", menu),
		Tools:             []agent.Tool{tools.ToReservation(), tools.ToTakeaway()},
		ParallelToolCalls: boolPtr(false),
	}
}

func reservation() *agent.Definition {
	return &agent.Definition{
		Role: agent.RoleReservation,
		Instructions: "You are a reservation agent at a restaurant. Your jobs are to ask for " +
			"the reservation time, then customer's name, and phone number. Then " +
			"confirm the reservation details with the customer.",
		Tools: []agent.Tool{
			tools.UpdateName(),
			tools.UpdatePhone(),
			tools.ToGreeter(),
			tools.UpdateReservationTime(),
			tools.ConfirmReservation(),
		},
	}
}

func takeaway(menu string) *agent.Definition {
	return &agent.Definition{
		Role: agent.RoleTakeaway,
		Instructions: fmt.Sprintf("You are a takeaway agent that takes orders from the customer. "+
			"Our menu is: %s\n"+
			"Clarify special requests and confirm the order with the customer.", menu),
		Tools: []agent.Tool{tools.ToGreeter(), tools.UpdateOrder(), tools.ToCheckout()},
	}
}

func checkout(menu string) *agent.Definition {
	return &agent.Definition{
		Role: agent.RoleCheckout,
		Instructions: fmt.Sprintf("You are a checkout agent at a restaurant. The menu is: %s\n"+
			"You are responsible for confirming the expense of the "+
			"order and then collecting customer's name, phone number and credit card "+
			"information, including the card number, expiry date, and CVV step by step.", menu),
		Tools: []agent.Tool{
			tools.UpdateName(),
			tools.UpdatePhone(),
			tools.ToGreeter(),
			tools.ConfirmExpense(),
			tools.UpdateCreditCard(),
			tools.ConfirmCheckout(),
			tools.ToTakeaway(),
		},
	}
}

func receptionist(menu string) *agent.Definition {
	return &agent.Definition{
		Role: agent.RoleReceptionist,
		Instructions: fmt.Sprintf("You are a friendly restaurant receptionist and reservation agent. The menu is: %s\n"+
			"Your job is to greet callers, help them make reservations, collect their name, phone number, "+
			"and reservation time, and confirm details. If they want takeaway, guide them to the takeaway agent.", menu),
		Tools: []agent.Tool{
			tools.UpdateName(),
			tools.UpdatePhone(),
			tools.UpdateReservationTime(),
			tools.ConfirmReservation(),
			tools.ToTakeaway(),
		},
		EntryInstructions: "Welcome the caller to the restaurant and ask how you can help.",
		ParallelToolCalls: boolPtr(false),
	}
}
