package agent

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Unknown is rendered for every unset field.
const Unknown = "unknown"

// ErrEmptyValue is returned by setters given a blank value.
var ErrEmptyValue = errors.New("value must not be empty")

// Field names one summarizable session fact.
type Field string

const (
	FieldCustomerName    Field = "customer_name"
	FieldCustomerPhone   Field = "customer_phone"
	FieldReservationTime Field = "reservation_time"
	FieldAppointmentTime Field = "appointment_time"
	FieldOrder           Field = "order"
	FieldCreditCard      Field = "credit_card"
	FieldExpense         Field = "expense"
	FieldCheckedOut      Field = "checked_out"
	FieldCar             Field = "car"
)

// AllFields lists every field in summary order.
var AllFields = []Field{
	FieldCustomerName,
	FieldCustomerPhone,
	FieldReservationTime,
	FieldAppointmentTime,
	FieldOrder,
	FieldCreditCard,
	FieldExpense,
	FieldCheckedOut,
	FieldCar,
}

// CreditCard holds payment details collected at checkout.
type CreditCard struct {
	Number string
	Expiry string
	CVV    string
}

// Complete reports whether number, expiry and CVV are all present.
func (c CreditCard) Complete() bool {
	return c.Number != "" && c.Expiry != "" && c.CVV != ""
}

// CarProfile is the vehicle the caller is asking about.
type CarProfile struct {
	VIN   string
	Make  string
	Model string
	Year  int
}

// SessionData is the per-conversation record shared by every agent and tool.
// Fields only ever go from unset to set; setters reject blank values.
type SessionData struct {
	CustomerName    string
	CustomerPhone   string
	ReservationTime string
	AppointmentTime string
	Order           []string
	CreditCard      CreditCard
	Expense         *float64
	CheckedOut      *bool
	Car             *CarProfile

	// Agents holds the live agent for every role of the conversation.
	Agents    map[Role]*Agent
	PrevAgent *Agent
	// Root is where to_greeter style transfers land.
	Root Role

	fields []Field
}

// NewSessionData creates empty session data summarizing the given fields, or
// every field when none are given.
func NewSessionData(root Role, fields ...Field) *SessionData {
	if len(fields) == 0 {
		fields = AllFields
	}
	return &SessionData{
		Agents: make(map[Role]*Agent),
		Root:   root,
		fields: fields,
	}
}

// Fields returns the fields rendered by Summarize.
func (d *SessionData) Fields() []Field {
	return d.fields
}

func setString(dst *string, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return ErrEmptyValue
	}
	*dst = v
	return nil
}

// SetCustomerName records the customer's name.
func (d *SessionData) SetCustomerName(v string) error { return setString(&d.CustomerName, v) }

// SetCustomerPhone records the customer's phone number.
func (d *SessionData) SetCustomerPhone(v string) error { return setString(&d.CustomerPhone, v) }

// SetReservationTime records the reservation time.
func (d *SessionData) SetReservationTime(v string) error { return setString(&d.ReservationTime, v) }

// SetAppointmentTime records the appointment time.
func (d *SessionData) SetAppointmentTime(v string) error { return setString(&d.AppointmentTime, v) }

// SetOrder replaces the order with the non-blank items.
func (d *SessionData) SetOrder(items []string) error {
	var cleaned []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	if len(cleaned) == 0 {
		return ErrEmptyValue
	}
	d.Order = cleaned
	return nil
}

// SetCreditCard records all three card fields at once.
func (d *SessionData) SetCreditCard(number, expiry, cvv string) error {
	card := CreditCard{
		Number: strings.TrimSpace(number),
		Expiry: strings.TrimSpace(expiry),
		CVV:    strings.TrimSpace(cvv),
	}
	if !card.Complete() {
		return ErrEmptyValue
	}
	d.CreditCard = card
	return nil
}

// SetExpense records the confirmed order total.
func (d *SessionData) SetExpense(v float64) error {
	if v <= 0 {
		return errors.New("expense must be greater than zero")
	}
	d.Expense = &v
	return nil
}

// MarkCheckedOut flags the order as paid.
func (d *SessionData) MarkCheckedOut() {
	done := true
	d.CheckedOut = &done
}

// SetCar records the vehicle profile.
func (d *SessionData) SetCar(car CarProfile) error {
	if strings.TrimSpace(car.VIN) == "" {
		return ErrEmptyValue
	}
	d.Car = &car
	return nil
}

// HasContact reports whether name and phone are both known.
func (d *SessionData) HasContact() bool {
	return d.CustomerName != "" && d.CustomerPhone != ""
}

// Summarize renders the enabled fields as YAML in a fixed order, with
// "unknown" for anything unset.
func (d *SessionData) Summarize() string {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range d.fields {
		root.Content = append(root.Content, strNode(string(f)), d.valueNode(f))
	}

	out, err := encodeYAML(root)
	if err != nil {
		log.Error().Err(err).Int("fields", len(d.fields)).Msg("Failed to summarize session data")
		return Unknown
	}
	return out
}

func encodeYAML(root *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("close summary encoder: %w", err)
	}
	return buf.String(), nil
}

func (d *SessionData) valueNode(f Field) *yaml.Node {
	switch f {
	case FieldCustomerName:
		return strOrUnknown(d.CustomerName)
	case FieldCustomerPhone:
		return strOrUnknown(d.CustomerPhone)
	case FieldReservationTime:
		return strOrUnknown(d.ReservationTime)
	case FieldAppointmentTime:
		return strOrUnknown(d.AppointmentTime)
	case FieldOrder:
		if len(d.Order) == 0 {
			return strNode(Unknown)
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range d.Order {
			seq.Content = append(seq.Content, strNode(item))
		}
		return seq
	case FieldCreditCard:
		return mapping(
			"number", strOrUnknown(d.CreditCard.Number),
			"expiry", strOrUnknown(d.CreditCard.Expiry),
			"cvv", strOrUnknown(d.CreditCard.CVV),
		)
	case FieldExpense:
		if d.Expense == nil {
			return strNode(Unknown)
		}
		v := strconv.FormatFloat(*d.Expense, 'f', -1, 64)
		if !strings.Contains(v, ".") {
			v += ".0"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v}
	case FieldCheckedOut:
		if d.CheckedOut == nil {
			return strNode(Unknown)
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(*d.CheckedOut)}
	case FieldCar:
		if d.Car == nil {
			return mapping("vin", strNode(Unknown), "make", strNode(Unknown), "model", strNode(Unknown), "year", strNode(Unknown))
		}
		year := strNode(Unknown)
		if d.Car.Year > 0 {
			year = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(d.Car.Year)}
		}
		return mapping(
			"vin", strOrUnknown(d.Car.VIN),
			"make", strOrUnknown(d.Car.Make),
			"model", strOrUnknown(d.Car.Model),
			"year", year,
		)
	}
	return strNode(Unknown)
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func strOrUnknown(v string) *yaml.Node {
	if v == "" {
		return strNode(Unknown)
	}
	return strNode(v)
}

// mapping builds a mapping node from alternating key, value pairs.
func mapping(pairs ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(pairs); i += 2 {
		n.Content = append(n.Content, strNode(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return n
}
