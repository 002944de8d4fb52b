// Package api provides the HTTP REST API and WebSocket server for Lumina Core.
//
// It exposes the device registry, cloud connection status, the activity
// feed, and the assistant and voice collaborators to the dashboard UI.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lumina-home/lumina-core/internal/activity"
	"github.com/lumina-home/lumina-core/internal/assistant"
	"github.com/lumina-home/lumina-core/internal/cloud"
	"github.com/lumina-home/lumina-core/internal/device"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
	"github.com/lumina-home/lumina-core/internal/infrastructure/logging"
	"github.com/lumina-home/lumina-core/internal/intent"
	"github.com/lumina-home/lumina-core/internal/voice"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Cloud    config.CloudConfig
	Logger   *logging.Logger
	Registry *device.Registry
	Intents  *intent.Router
	Activity *activity.Log
	Notifier *cloud.StatusNotifier

	// Assistant and Voice are optional; their endpoints return 503 when nil.
	Assistant *assistant.Client
	Voice     *voice.Pipeline

	Version string
}

// Server is the HTTP API server for Lumina Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	cloudCfg  config.CloudConfig
	logger    *logging.Logger
	registry  *device.Registry
	intents   *intent.Router
	activity  *activity.Log
	notifier  *cloud.StatusNotifier
	assistant *assistant.Client
	voice     *voice.Pipeline
	version   string

	server *http.Server
	hub    *Hub
	cancel context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("device registry is required")
	}
	if deps.Intents == nil {
		return nil, fmt.Errorf("intent router is required")
	}
	if deps.Activity == nil {
		return nil, fmt.Errorf("activity log is required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("status notifier is required")
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		cloudCfg:  deps.Cloud,
		logger:    deps.Logger,
		registry:  deps.Registry,
		intents:   deps.Intents,
		activity:  deps.Activity,
		notifier:  deps.Notifier,
		assistant: deps.Assistant,
		voice:     deps.Voice,
		version:   deps.Version,
	}
	s.hub = NewHub(deps.WS, deps.Logger)

	return s, nil
}

// Start begins listening for HTTP connections and relays cloud status
// transitions to WebSocket clients. It returns immediately; the listener
// runs in a background goroutine until Close() or a listen error.
func (s *Server) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.hub.Run(runCtx)

	// Every cloud status transition is pushed to subscribed clients so the
	// dashboard's connection badge updates without polling.
	s.notifier.Subscribe(func(status cloud.Status) {
		s.hub.Broadcast(ChannelCloudStatus, map[string]any{"status": string(status)})
	})

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("api server listening", "addr", addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server failed", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the HTTP server and disconnects all
// WebSocket clients.
func (s *Server) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}

// Hub returns the WebSocket hub, for callers that broadcast their own events.
func (s *Server) Hub() *Hub {
	return s.hub
}
