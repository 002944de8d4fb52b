// Lumina Core - Smart Home Dashboard Backend
//
// This is the main entry point for the Lumina Core application. Lumina
// keeps a local device registry in sync with a cloud IoT broker over MQTT,
// serves the dashboard UI through a REST/WebSocket API, and optionally
// wires in a conversational assistant and voice capture.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumina-home/lumina-core/internal/activity"
	"github.com/lumina-home/lumina-core/internal/api"
	"github.com/lumina-home/lumina-core/internal/assistant"
	"github.com/lumina-home/lumina-core/internal/cloud"
	"github.com/lumina-home/lumina-core/internal/device"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
	"github.com/lumina-home/lumina-core/internal/infrastructure/logging"
	"github.com/lumina-home/lumina-core/internal/infrastructure/mqtt"
	"github.com/lumina-home/lumina-core/internal/intent"
	"github.com/lumina-home/lumina-core/internal/voice"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Lumina Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Initialise device registry from the configured seed set
	registry := device.NewRegistry()
	registry.SetLogger(log)
	if err := registry.Seed(seedDevices(cfg.Devices)); err != nil {
		return fmt.Errorf("seeding device registry: %w", err)
	}
	registry.SetEnvironment(device.Environment{
		Temperature: cfg.Environment.Temperature,
		Humidity:    cfg.Environment.Humidity,
		AirQuality:  cfg.Environment.AirQuality,
	})
	log.Info("device registry initialised", "devices", registry.Count())

	// Activity feed and cloud status fan-out
	feed := activity.NewLog()
	notifier := cloud.NewStatusNotifier()

	// Cloud broker session
	broker := mqtt.New(cfg.Cloud)
	broker.SetLogger(log)

	session := cloud.NewSession(cfg.Cloud, broker, notifier, feed)
	session.SetLogger(log)

	inbound := cloud.NewInbound(cfg.Cloud.Service, registry, feed)
	inbound.SetLogger(log)
	session.SetInboundHandler(inbound.Handle)

	publisher := cloud.NewPublisher(cfg.Cloud, broker, feed)
	publisher.SetLogger(log)

	defer func() {
		log.Info("closing cloud session")
		if closeErr := session.Close(); closeErr != nil {
			log.Error("error closing cloud session", "error", closeErr)
		}
	}()

	// A failed first attempt is not fatal: the transport keeps retrying in
	// the background and the dashboard shows the error status meanwhile.
	if err := session.Connect(); err != nil {
		log.Warn("cloud broker unreachable at startup", "error", err)
	} else {
		log.Info("cloud broker connected",
			"broker", fmt.Sprintf("%s:%d", cfg.Cloud.Broker.Host, cfg.Cloud.Broker.Port),
			"client_id", cfg.Cloud.Broker.ClientID,
		)
		applyCloudSnapshot(session, registry, cfg.Cloud.Service, log)
	}

	// Intent router: the single path for device control
	intents := intent.NewRouter(registry, publisher, cfg.Cloud.Service)
	intents.SetLogger(log)

	// Conversational assistant (optional)
	var chat *assistant.Client
	chat, err = assistant.New(ctx, cfg.Assistant, registry, intents)
	switch {
	case err == nil:
		chat.SetLogger(log)
		log.Info("assistant ready", "model", cfg.Assistant.Model)
	case errors.Is(err, assistant.ErrUnavailable):
		log.Info("assistant disabled")
		chat = nil
	default:
		return fmt.Errorf("initialising assistant: %w", err)
	}

	// Voice pipeline (optional)
	pipeline := buildVoicePipeline(cfg.Voice, log)
	if pipeline != nil {
		defer func() {
			if closeErr := pipeline.Close(); closeErr != nil {
				log.Warn("error stopping voice pipeline", "error", closeErr)
			}
		}()
	}

	// API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Cloud:     cfg.Cloud,
		Logger:    log,
		Registry:  registry,
		Intents:   intents,
		Activity:  feed,
		Notifier:  notifier,
		Assistant: chat,
		Voice:     pipeline,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting api server: %w", err)
	}
	defer func() {
		log.Info("stopping api server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping api server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("Lumina Core stopped")
	return nil
}

// seedDevices converts configured seed entries into registry devices.
func seedDevices(seeds []config.DeviceSeed) []device.Device {
	devices := make([]device.Device, len(seeds))
	for i, s := range seeds {
		devices[i] = device.Device{
			ID:    s.ID,
			Name:  s.Name,
			Kind:  device.Kind(s.Kind),
			On:    s.On,
			Value: s.Value,
			Unit:  s.Unit,
		}
	}
	return devices
}

// applyCloudSnapshot adopts the cloud-side property values for the
// synchronized device after the first successful connect, so the dashboard
// starts from what the cloud last knew.
func applyCloudSnapshot(session *cloud.Session, registry *device.Registry, binding config.ServiceBinding, log *logging.Logger) {
	for propertyID, value := range session.InitialProperties() {
		if propertyID != binding.PropertyID {
			continue
		}
		if _, err := registry.SetValue(binding.DeviceID, value); err != nil {
			log.Warn("applying cloud snapshot failed",
				"device_id", binding.DeviceID,
				"value", value,
				"error", err,
			)
			continue
		}
		log.Info("cloud snapshot applied", "device_id", binding.DeviceID, "value", value)
	}
}

// buildVoicePipeline assembles microphone capture and transcription when
// voice is enabled. Builds without the portaudio tag get a pipeline that
// reports itself unavailable.
func buildVoicePipeline(cfg config.VoiceConfig, log *logging.Logger) *voice.Pipeline {
	if !cfg.Enabled {
		log.Info("voice capture disabled")
		return nil
	}

	mic := voice.NewMicrophone(cfg.SampleRate)
	mic.SetLogger(log)
	if mic.Available() {
		if err := mic.Start(); err != nil {
			log.Warn("microphone start failed, voice disabled", "error", err)
			return nil
		}
	} else {
		log.Info("audio backend not compiled in, voice endpoint reports unavailable")
	}

	stt := voice.NewSTTClient(cfg.STTAPIKey, cfg.Language)
	stt.SetLogger(log)

	pipeline := voice.NewPipeline(mic, stt)
	pipeline.SetLogger(log)
	return pipeline
}

// getConfigPath returns the configuration file path.
// Uses LUMINA_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LUMINA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
