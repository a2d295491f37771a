package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/iksnae/voice-desk/internal/export"
	"github.com/iksnae/voice-desk/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	chatDemo       string
	chatTranscript string
	chatFormat     string
	chatShowTools  bool
	chatMetrics    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to a demo in the terminal",
	Long: `Start a text conversation with a demo. The root agent greets you first;
type your replies at the prompt.

Commands at the prompt:
  /data   show the current session data
  /quit   end the conversation

Examples:
  voice-desk chat --demo restaurant
  voice-desk chat --demo students --tools
  voice-desk chat --demo clinic --transcript ./clinic --format md
  voice-desk chat --demo auto --metrics 2> metrics.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := demo.Get(chatDemo)
		if err != nil {
			return err
		}
		if chatTranscript != "" {
			if _, err := export.NewExporter(chatFormat); err != nil {
				return err
			}
		}

		deps, cleanup, err := wireDeps(ctx, cfg, d.Needs, true)
		if err != nil {
			return err
		}
		defer cleanup()

		client, err := newLLMClient(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		sess, err := newSessionFactory(cfg, deps, client)(d.Name, consoleOutput(out, chatShowTools || verbose))
		if err != nil {
			return err
		}
		defer func() {
			transcript := sess.Close()
			if chatMetrics {
				if err := metrics.WritePrometheus(cmd.ErrOrStderr()); err != nil {
					log.Error().Err(err).Msg("Failed to write metrics")
				}
			}
			if chatTranscript == "" {
				return
			}
			path, err := export.WriteFile(transcript, chatFormat, chatTranscript)
			if err != nil {
				log.Error().Err(err).Msg("Failed to write transcript")
				return
			}
			fmt.Fprintln(out, successStyle.Render("✅ Transcript written to "+path))
		}()

		fmt.Fprintln(out, sectionStyle.Render(fmt.Sprintf("📞 %s", d.Description)))
		if err := sess.Start(ctx); err != nil {
			return err
		}
		return runREPL(ctx, sess, cmd.InOrStdin(), out, sess.Data().Summarize)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatDemo, "demo", "d", "restaurant", "Demo to run (see 'voice-desk demos')")
	chatCmd.Flags().StringVarP(&chatTranscript, "transcript", "t", "", "Write the transcript to this file when the conversation ends")
	chatCmd.Flags().StringVarP(&chatFormat, "format", "f", "md", "Transcript format: md, json, jsonl or yaml")
	chatCmd.Flags().BoolVar(&chatShowTools, "tools", false, "Show tool calls as they happen")
	chatCmd.Flags().BoolVar(&chatMetrics, "metrics", false, "Print Prometheus metrics to stderr when the conversation ends")
}
