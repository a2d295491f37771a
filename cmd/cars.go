package cmd

import (
	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/iksnae/voice-desk/internal/tools"
	"github.com/spf13/cobra"
)

var carReqs = []demo.Requirement{demo.NeedCars}

var carsCmd = &cobra.Command{
	Use:   "cars",
	Short: "Look up and register vehicles",
}

var carsGetCmd = &cobra.Command{
	Use:   "get <vin>",
	Short: "Show a car by VIN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(cmd, carReqs, func(deps demo.Deps) error {
			return runTool(cmd, tools.LookupCar(deps.Cars), map[string]any{"vin": args[0]})
		})
	},
}

var newCar struct {
	vin, make, model string
	year             int
}

var carsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a car",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStores(cmd, carReqs, func(deps demo.Deps) error {
			return runTool(cmd, tools.CreateCar(deps.Cars), map[string]any{
				"vin":   newCar.vin,
				"make":  newCar.make,
				"model": newCar.model,
				"year":  newCar.year,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(carsCmd)
	carsCmd.AddCommand(carsGetCmd, carsAddCmd)

	f := carsAddCmd.Flags()
	f.StringVar(&newCar.vin, "vin", "", "Vehicle identification number")
	f.StringVar(&newCar.make, "make", "", "Make")
	f.StringVar(&newCar.model, "model", "", "Model")
	f.IntVar(&newCar.year, "year", 0, "Model year")
	for _, name := range []string{"vin", "make", "model", "year"} {
		_ = carsAddCmd.MarkFlagRequired(name)
	}
}
