package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/iksnae/voice-desk/internal/store/mongo"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the demo databases and credentials are usable",
	Long: `Check the health of voice-desk by verifying:
  • SQLite student and vehicle databases open (created and seeded if missing)
  • MongoDB is reachable when a connection string is configured
  • An LLM API key is configured

Demos whose requirements fail are listed as unavailable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		p := func(a ...any) { fmt.Fprintln(out, a...) }
		detail := func(format string, a ...any) {
			if healthcheckVerbose {
				fmt.Fprintf(out, "   "+format+"\n", a...)
			}
		}
		ctx := cmd.Context()
		unavailable := map[demo.Requirement]bool{}

		p(sectionStyle.Render("🔍 voice-desk Health Check"))
		p()

		// Step 1: SQLite
		p(infoStyle.Render("Step 1: Opening SQLite databases..."))
		paths := cfg.Paths()
		detail("Data directory: %s", paths.Dir)
		for _, c := range []struct {
			name   string
			req    demo.Requirement
			path   string
			exists bool
		}{
			{"Students", demo.NeedStudents, paths.StudentsDB, paths.StudentsDBExists()},
			{"Vehicles", demo.NeedCars, paths.CarsDB, paths.CarsDBExists()},
		} {
			_, cleanup, err := wireDeps(ctx, cfg, []demo.Requirement{c.req}, true)
			if err != nil {
				unavailable[c.req] = true
				p(errorStyle.Render(fmt.Sprintf("❌ %s database failed:", c.name)), err)
				continue
			}
			cleanup()
			p(successStyle.Render(fmt.Sprintf("✅ %s database ready", c.name)))
			if c.exists {
				detail("Path: %s", c.path)
			} else {
				detail("Created: %s", c.path)
			}
		}
		p()

		// Step 2: MongoDB
		p(infoStyle.Render("Step 2: Checking MongoDB..."))
		if err := cfg.RequireMongo(); err != nil {
			unavailable[demo.NeedPatients] = true
			unavailable[demo.NeedAppointments] = true
			p(warningStyle.Render("⚠️  MongoDB not configured"))
			detail("Set MONGODB_CONNECTION_STRING to enable the medical demo")
		} else if err := pingMongo(ctx); err != nil {
			unavailable[demo.NeedPatients] = true
			unavailable[demo.NeedAppointments] = true
			p(errorStyle.Render("❌ MongoDB unreachable:"), err)
		} else {
			p(successStyle.Render("✅ MongoDB reachable"))
			detail("Database: %s", cfg.MongoDB.Database)
		}
		p()

		// Step 3: LLM
		p(infoStyle.Render("Step 3: Checking LLM credentials..."))
		keyOK := cfg.LLM.APIKey != ""
		if keyOK {
			p(successStyle.Render("✅ API key configured"))
			detail("Endpoint: %s", cfg.LLM.BaseURL)
			detail("Model: %s", cfg.LLM.Model)
		} else {
			p(errorStyle.Render("❌ No API key configured"))
			detail("Set GROQ_API_KEY or OPENAI_API_KEY")
		}
		p()

		// Summary
		p(sectionStyle.Render("📊 Summary"))
		p()
		var missing []demo.Requirement
		for r, down := range unavailable {
			if down {
				missing = append(missing, r)
			}
		}
		var ready, blocked []string
		for _, d := range demo.All() {
			if d.NeedsAny(missing...) {
				blocked = append(blocked, d.Name)
			} else {
				ready = append(ready, d.Name)
			}
		}

		switch {
		case !keyOK:
			p(errorStyle.Render("❌ Health check failed"))
			p("   • No conversation can run without an API key")
			return fmt.Errorf("health check failed: %w", errMissingAPIKey)
		case len(blocked) > 0:
			p(warningStyle.Render(fmt.Sprintf("⚠️  %d demo(s) ready, %d unavailable", len(ready), len(blocked))))
			for _, name := range blocked {
				p("   • unavailable:", name)
			}
			return nil
		default:
			p(successStyle.Render("✅ Health check passed!"))
			p(successStyle.Render(fmt.Sprintf("   • Demos: %d ready", len(ready))))
			return nil
		}
	},
}

func pingMongo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, mongo.Config{
		URI:            cfg.MongoDB.ConnectionString,
		Database:       cfg.MongoDB.Database,
		ConnectTimeout: cfg.MongoDB.ConnectTimeout,
	})
	if err != nil {
		return err
	}
	return client.Close(ctx)
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}
