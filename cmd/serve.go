package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/iksnae/voice-desk/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve demo conversations over WebSocket",
	Long: `Serve every demo over WebSocket at /v1/session.

A client opens the socket, sends {"type":"hello","demo":"restaurant"} and then
one {"type":"user_text","text":"..."} frame per utterance. The server answers
with ready, agent_message, tool_call, agent_switch and error frames.

/healthz reports liveness and /metrics exposes Prometheus metrics unless
disabled with metrics.enabled=false.

Demos that need MongoDB are disabled when no connection string is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deps, cleanup, err := wireDeps(ctx, cfg, requirements(demo.All()...), false)
		if err != nil {
			return err
		}
		defer cleanup()

		client, err := newLLMClient(cfg)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Addr:          cfg.Server.Addr,
			EnableMetrics: cfg.Metrics.Enabled,
			STTModel:      cfg.Voice.STTModel,
			TTSModel:      cfg.Voice.TTSModel,
		}, newSessionFactory(cfg, deps, client))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	bindFlags(serveCmd.Flags(), map[string]string{"server.addr": "addr"})
}
