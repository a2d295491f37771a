package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/store"
	"github.com/rs/zerolog/log"
)

type vinArgs struct {
	VIN string `json:"vin" jsonschema_description:"The vehicle identification number"`
}

type carArgs struct {
	VIN   string `json:"vin" jsonschema_description:"The vehicle identification number"`
	Make  string `json:"make" jsonschema_description:"The make of the car"`
	Model string `json:"model" jsonschema_description:"The model of the car"`
	Year  int    `json:"year" jsonschema:"minimum=1886" jsonschema_description:"The year the car was made"`
}

func (a *carArgs) Validate() error {
	if strings.TrimSpace(a.VIN) == "" || strings.TrimSpace(a.Make) == "" || strings.TrimSpace(a.Model) == "" {
		return errors.New("Please provide the VIN, make, model and year of the car.")
	}
	return nil
}

func formatCar(header string, c store.Car) string {
	return fmt.Sprintf("%s\nVIN: %s\nMake: %s\nModel: %s\nYear: %d", header, c.VIN, c.Make, c.Model, c.Year)
}

func remember(d *agent.SessionData, c store.Car) error {
	if err := d.SetCar(agent.CarProfile{VIN: c.VIN, Make: c.Make, Model: c.Model, Year: c.Year}); err != nil {
		return fmt.Errorf("remember car %q: %w", c.VIN, err)
	}
	return nil
}

// LookupCar loads the caller's car profile by VIN.
func LookupCar(cars store.CarStore) agent.Tool {
	return agent.NewTool("lookup_car",
		"Lookup a car by its VIN.",
		func(ctx context.Context, rc *agent.RunContext, args vinArgs) agent.Result {
			vin := store.NormalizeVIN(args.VIN)
			if vin == "" {
				return agent.Invalid("Please provide the VIN of the car.")
			}

			c, err := cars.GetByVIN(ctx, vin)
			switch {
			case errors.Is(err, store.ErrNotFound):
				return agent.NotFound("No car found with VIN %s. Ask for the make, model and year to create a new profile.", vin)
			case err != nil:
				log.Error().Err(err).Str("vin", vin).Msg("Car lookup failed")
				return agent.Unavailable("Sorry, I couldn't reach the vehicle database right now. Please try again later.")
			}

			if err := remember(rc.Data(), c); err != nil {
				log.Error().Err(err).Str("vin", vin).Msg("Car record is incomplete")
				return agent.Unavailable("Sorry, the record for VIN %s is incomplete. Please try again later.", vin)
			}
			return agent.OK("%s", formatCar("The car details are:", c))
		})
}

// CreateCar adds a new car profile.
func CreateCar(cars store.CarStore) agent.Tool {
	return agent.NewTool("create_car",
		"Create a new car profile.",
		func(ctx context.Context, rc *agent.RunContext, args carArgs) agent.Result {
			c := store.Car{
				VIN:   store.NormalizeVIN(args.VIN),
				Make:  strings.TrimSpace(args.Make),
				Model: strings.TrimSpace(args.Model),
				Year:  args.Year,
			}

			err := cars.Create(ctx, c)
			var vErr *store.ValidationError
			switch {
			case errors.As(err, &vErr):
				return agent.Invalid("Please provide the VIN, make, model and year of the car.")
			case errors.Is(err, store.ErrAlreadyExists):
				return agent.Invalid("A car with VIN %s already exists. Look it up instead.", c.VIN)
			case err != nil:
				log.Error().Err(err).Str("vin", c.VIN).Msg("Failed to create car")
				return agent.Unavailable("Sorry, I couldn't save the car profile right now. Please try again later.")
			}

			if err := remember(rc.Data(), c); err != nil {
				log.Error().Err(err).Msg("Created car profile could not be kept for the conversation")
				return agent.Unavailable("Sorry, I couldn't save the car profile right now. Please try again later.")
			}
			log.Info().Str("vin", c.VIN).Msg("Created car profile")
			return agent.OK("%s", formatCar("Car profile created:", c))
		})
}

// GetCarDetails returns the profile loaded earlier in the conversation.
func GetCarDetails() agent.Tool {
	return agent.NewTool("get_car_details",
		"Get the details of the current car.",
		func(_ context.Context, rc *agent.RunContext, _ agent.NoArgs) agent.Result {
			car := rc.Data().Car
			if car == nil {
				return agent.NotFound("No car profile is loaded yet. Please ask for the VIN first.")
			}
			return agent.OK("%s", formatCar("The car details are:", store.Car{
				VIN: car.VIN, Make: car.Make, Model: car.Model, Year: car.Year,
			}))
		})
}
