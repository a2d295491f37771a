package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/voice-desk/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"

	// cfg is loaded before every command runs.
	cfg *internal.Config
	v   = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voice-desk",
	Short: "Run multi-agent voice desk demos",
	Long: `voice-desk runs front-desk conversations where specialized agents hand
a caller from one to another: a restaurant greeter, reservation, takeaway and
checkout desk, a clinic receptionist, a student information desk, a medical
records assistant and a car service desk.

Conversations run in the terminal (chat) or over WebSocket (serve), against
any OpenAI-compatible chat endpoint. Groq is the default.

Quick Start:
  voice-desk demos                       # List available demos
  voice-desk chat --demo restaurant      # Talk to the restaurant desk
  voice-desk serve --addr :8080          # Serve /v1/session over WebSocket
  voice-desk healthcheck                 # Check databases and credentials`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func loadConfig() error {
	loaded, err := internal.LoadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	loaded.Log.Verbose = verbose
	if err := internal.InitLogger(loaded.Log); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// bindFlags maps config keys to flag names so a flag set on the command line
// overrides the file and environment.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./voice-desk.yaml, ~/.voice-desk/voice-desk.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text or json)")
	flags.String("log-file", "", "Also write logs to this file, rotated")

	bindFlags(flags, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
		"log.file":   "log-file",
	})

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
