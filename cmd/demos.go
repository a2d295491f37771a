package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/spf13/cobra"
)

var demosCmd = &cobra.Command{
	Use:   "demos",
	Short: "List the available demos",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("Available demos"))
		fmt.Fprintln(out)
		for _, d := range demo.All() {
			fmt.Fprintf(out, "%s  %s\n", successStyle.Render(fmt.Sprintf("%-13s", d.Name)), d.Description)
			fmt.Fprintf(out, "               root agent: %s\n", d.Root)
			if len(d.Needs) > 0 {
				var needs []string
				for _, n := range d.Needs {
					needs = append(needs, string(n))
				}
				fmt.Fprintf(out, "               needs: %s\n", strings.Join(needs, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demosCmd)
}
