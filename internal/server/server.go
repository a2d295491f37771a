// Package server exposes demo conversations over WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iksnae/voice-desk/internal/metrics"
	"github.com/iksnae/voice-desk/internal/voice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	SessionPath = "/v1/session"

	defaultHandshakeTimeout = 5 * time.Second
	defaultReadLimit        = 64 << 10
	writeWait               = 2 * time.Second
)

// Client frame types.
const (
	FrameHello    = "hello"
	FrameUserText = "user_text"
)

// Server frame types that are not session events.
const (
	FrameReady = "ready"
	FrameError = "error"
)

// ClientFrame is any frame sent by the client.
type ClientFrame struct {
	Type string `json:"type"`
	Demo string `json:"demo,omitempty"`
	Text string `json:"text,omitempty"`
}

// ReadyFrame acknowledges the hello and tells a speech front end which
// models to use around the conversation.
type ReadyFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Demo      string `json:"demo"`
	Agent     string `json:"agent"`
	STTModel  string `json:"stt_model,omitempty"`
	TTSModel  string `json:"tts_model,omitempty"`
}

// ErrorFrame reports a problem; Close means the server is hanging up.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Close   bool   `json:"close,omitempty"`
}

// SessionFactory creates a conversation for demo that reports to out.
type SessionFactory func(demo string, out voice.Output) (*voice.Session, error)

// Config tunes the server.
type Config struct {
	Addr             string
	HandshakeTimeout time.Duration
	ReadLimit        int64
	EnableMetrics    bool
	STTModel         string
	TTSModel         string
}

// Server serves /v1/session, /healthz and optionally /metrics.
type Server struct {
	cfg        Config
	newSession SessionFactory
	upgrader   websocket.Upgrader
}

// New creates a server.
func New(cfg Config, factory SessionFactory) *Server {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}
	return &Server{
		cfg:        cfg,
		newSession: factory,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SessionPath, s.handleSession)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if s.cfg.EnableMetrics {
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
// Open WebSocket sessions are closed when ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", s.cfg.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.cfg.ReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"), time.Now().Add(writeWait))
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.HandshakeTimeout))
	hello, err := readFrame(conn)
	if err != nil || hello.Type != FrameHello {
		writeError(conn, "bad_request", "first frame must be hello", true)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	out := voice.OutputFunc(func(_ context.Context, ev voice.Event) error {
		return writeJSON(conn, ev)
	})
	sess, err := s.newSession(strings.TrimSpace(hello.Demo), out)
	if err != nil {
		writeError(conn, "bad_request", err.Error(), true)
		return
	}
	defer sess.Close()

	d := sess.Data()
	ready := ReadyFrame{
		Type:      FrameReady,
		SessionID: sess.ID(),
		Demo:      hello.Demo,
		Agent:     d.Root.String(),
		STTModel:  s.cfg.STTModel,
		TTSModel:  s.cfg.TTSModel,
	}
	if err := writeJSON(conn, ready); err != nil {
		return
	}
	if err := sess.Start(ctx); err != nil {
		log.Error().Err(err).Str("session", sess.ID()).Msg("Failed to start session")
		writeError(conn, "session_failed", "could not start the conversation", true)
		return
	}

	for {
		frame, err := readFrame(conn)
		if err != nil {
			if errors.Is(err, errBadFrame) {
				writeError(conn, "bad_request", "invalid JSON frame", false)
				continue
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
				log.Debug().Err(err).Str("session", sess.ID()).Msg("WebSocket read ended")
			}
			return
		}

		switch frame.Type {
		case FrameUserText:
			if err := sess.HandleUserInput(ctx, frame.Text); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Str("session", sess.ID()).Msg("Failed to handle user input")
				writeError(conn, "reply_failed", "the agent could not reply, please try again", false)
			}
		default:
			writeError(conn, "bad_request", "unsupported frame type: "+frame.Type, false)
		}
	}
}

var errBadFrame = errors.New("bad frame")

func readFrame(conn *websocket.Conn) (ClientFrame, error) {
	var f ClientFrame
	messageType, data, err := conn.ReadMessage()
	if err != nil {
		return f, err
	}
	if messageType != websocket.TextMessage {
		return f, fmt.Errorf("%w: binary frames are not supported", errBadFrame)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %v", errBadFrame, err)
	}
	return f, nil
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func writeError(conn *websocket.Conn, code, message string, close bool) {
	_ = writeJSON(conn, ErrorFrame{Type: FrameError, Code: code, Message: message, Close: close})
	if close {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message), time.Now().Add(writeWait))
	}
}
