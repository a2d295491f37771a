package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/voice-desk/internal/agent"
)

type reservationTimeArgs struct {
	Time string `json:"time" jsonschema_description:"The reservation time"`
}

type orderArgs struct {
	Items []string `json:"items" jsonschema_description:"The items of the full order"`
}

type expenseArgs struct {
	Expense float64 `json:"expense" jsonschema_description:"The expense of the order"`
}

func (a *expenseArgs) Validate() error {
	if a.Expense <= 0 {
		return errors.New("The expense must be greater than zero.")
	}
	return nil
}

type creditCardArgs struct {
	Number string `json:"number" jsonschema_description:"The credit card number"`
	Expiry string `json:"expiry" jsonschema_description:"The expiry date of the credit card"`
	CVV    string `json:"cvv" jsonschema_description:"The CVV of the credit card"`
}

// ToReservation hands the caller to the reservation agent.
func ToReservation() agent.Tool {
	return transfer("to_reservation",
		"Called when user wants to make or update a reservation. "+
			"This function handles transitioning to the reservation agent "+
			"who will collect the necessary details like reservation time, customer name and phone number.",
		agent.RoleReservation)
}

// ToTakeaway hands the caller to the takeaway agent.
func ToTakeaway() agent.Tool {
	return transfer("to_takeaway",
		"Called when the user wants to place or update a takeaway order. "+
			"This includes handling orders for pickup, delivery, or when the user wants to "+
			"proceed to checkout with their existing order.",
		agent.RoleTakeaway)
}

// UpdateReservationTime records the requested reservation time.
func UpdateReservationTime() agent.Tool {
	return agent.NewTool("update_reservation_time",
		"Called when the user provides their reservation time. "+
			"Confirm the time with the user before calling the function.",
		func(_ context.Context, rc *agent.RunContext, args reservationTimeArgs) agent.Result {
			if err := rc.Data().SetReservationTime(args.Time); err != nil {
				return agent.Invalid("Please provide reservation time first.")
			}
			return agent.OK("The reservation time is updated to %s", rc.Data().ReservationTime)
		})
}

// ConfirmReservation checks that contact details and a time are known. The
// root agent confirms in place; any other agent hands back to the root.
func ConfirmReservation() agent.Tool {
	return agent.NewTool("confirm_reservation",
		"Called when the user confirms the reservation.",
		func(_ context.Context, rc *agent.RunContext, _ agent.NoArgs) agent.Result {
			d := rc.Data()
			if !d.HasContact() {
				return agent.Invalid("Please provide your name and phone number first.")
			}
			if d.ReservationTime == "" {
				return agent.Invalid("Please provide reservation time first.")
			}

			confirmed := fmt.Sprintf("Reservation confirmed for %s at %s. We will contact you at %s if needed.",
				d.CustomerName, d.ReservationTime, d.CustomerPhone)
			if cur := rc.Session.CurrentAgent(); cur != nil && cur.Role() == d.Root {
				return agent.OK("%s", confirmed)
			}

			res := rc.TransferToRoot()
			if !res.Failed() {
				res.Message = confirmed + " " + res.Message
			}
			return res
		})
}

// UpdateOrder replaces the takeaway order.
func UpdateOrder() agent.Tool {
	return agent.NewTool("update_order",
		"Called when the user create or update their order.",
		func(_ context.Context, rc *agent.RunContext, args orderArgs) agent.Result {
			if err := rc.Data().SetOrder(args.Items); err != nil {
				return agent.Invalid("Please tell me which items you would like to order.")
			}
			return agent.OK("The order is updated to %s", strings.Join(rc.Data().Order, ", "))
		})
}

// ToCheckout moves a confirmed order to the checkout agent.
func ToCheckout() agent.Tool {
	return agent.NewTool("to_checkout",
		"Called when the user confirms the order.",
		func(_ context.Context, rc *agent.RunContext, _ agent.NoArgs) agent.Result {
			if len(rc.Data().Order) == 0 {
				return agent.Invalid("No takeaway order found. Please make an order first.")
			}
			return rc.TransferTo(agent.RoleCheckout)
		})
}

// ConfirmExpense records the order total the caller agreed to.
func ConfirmExpense() agent.Tool {
	return agent.NewTool("confirm_expense",
		"Called when the user confirms the expense.",
		func(_ context.Context, rc *agent.RunContext, args expenseArgs) agent.Result {
			if err := rc.Data().SetExpense(args.Expense); err != nil {
				return agent.Invalid("The expense must be greater than zero.")
			}
			return agent.OK("The expense is confirmed to be %s", formatNumber(args.Expense))
		})
}

// UpdateCreditCard records number, expiry and CVV together.
func UpdateCreditCard() agent.Tool {
	return agent.NewTool("update_credit_card",
		"Called when the user provides their credit card number, expiry date, and CVV. "+
			"Confirm the spelling with the user before calling the function.",
		func(_ context.Context, rc *agent.RunContext, args creditCardArgs) agent.Result {
			if err := rc.Data().SetCreditCard(args.Number, args.Expiry, args.CVV); err != nil {
				return agent.Invalid("Please provide the credit card number, expiry date and CVV.")
			}
			return agent.OK("The credit card number is updated to %s", rc.Data().CreditCard.Number)
		})
}

// ConfirmCheckout completes payment and returns the caller to the root agent.
func ConfirmCheckout() agent.Tool {
	return agent.NewTool("confirm_checkout",
		"Called when the user confirms the checkout.",
		func(_ context.Context, rc *agent.RunContext, _ agent.NoArgs) agent.Result {
			d := rc.Data()
			if d.Expense == nil {
				return agent.Invalid("Please confirm the expense first.")
			}
			if !d.CreditCard.Complete() {
				return agent.Invalid("Please provide the credit card information first.")
			}
			d.MarkCheckedOut()
			return rc.TransferToRoot()
		})
}
