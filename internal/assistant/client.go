package assistant

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/lumina-home/lumina-core/internal/device"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
)

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// controlDeviceTool is the function the model may call to act on a device.
const controlDeviceTool = "control_device"

// fallbackReply is returned when the model is unreachable or produced no
// usable answer; the UI shows it verbatim.
const fallbackReply = "Sorry, I couldn't reach the assistant just now. Your devices are still under manual control."

// modelCaller is the slice of the GenAI SDK the client depends on.
// client.Models satisfies it; tests substitute a canned implementation.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// deviceActor is how the assistant executes a control intent. It is the
// same path every other entry point uses, so assistant-driven changes get
// cloud reports exactly like button presses do.
type deviceActor interface {
	Toggle(id string) (*device.Device, error)
}

// deviceReader is the registry surface used to snapshot state into the
// system instruction.
type deviceReader interface {
	Get(id string) (*device.Device, error)
	List() []device.Device
	Environment() device.Environment
}

// Action is one device control the model requested and the client executed.
type Action struct {
	DeviceID string
	Action   string // "on" or "off"
}

// Reply is the outcome of one chat turn.
type Reply struct {
	Text    string
	Actions []Action
}

// Client is the conversational assistant. Each Chat call is stateless: the
// current device and environment snapshot is rebuilt into the system
// instruction per turn, so the model always reasons over live state.
type Client struct {
	caller   modelCaller
	registry deviceReader
	actor    deviceActor
	model    string
	temp     float64
	logger   Logger
}

// New creates an assistant client backed by the Gemini API.
//
// Returns:
//   - *Client: ready-to-use assistant client
//   - error: ErrUnavailable when the assistant is disabled or has no API
//     key, or a wrapped SDK error when the client cannot be constructed
func New(ctx context.Context, cfg config.AssistantConfig, registry deviceReader, actor deviceActor) (*Client, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil, ErrUnavailable
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating assistant client: %w", err)
	}

	return &Client{
		caller:   client.Models,
		registry: registry,
		actor:    actor,
		model:    cfg.Model,
		temp:     cfg.Temperature,
		logger:   noopLogger{},
	}, nil
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// Chat sends one user message to the model, executes any device controls it
// requested and returns the reply text plus the executed actions.
//
// Model failures degrade to the fallback reply with a nil error: a broken
// assistant must never look like a broken dashboard. Only context
// cancellation is surfaced to the caller.
func (c *Client) Chat(ctx context.Context, message string) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrEmptyMessage
	}

	contents := []*genai.Content{
		genai.NewContentFromText(message, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(c.registry), genai.RoleUser),
		Temperature:       genai.Ptr(float32(c.temp)),
		Tools: []*genai.Tool{
			{FunctionDeclarations: []*genai.FunctionDeclaration{controlDeviceDeclaration()}},
		},
	}

	resp, err := c.caller.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return Reply{}, ctx.Err()
		}
		c.logger.Warn("assistant model call failed", "error", err)
		return Reply{Text: fallbackReply}, nil
	}

	reply := Reply{Text: resp.Text()}
	for _, call := range resp.FunctionCalls() {
		if call.Name != controlDeviceTool {
			c.logger.Warn("model requested unknown tool", "name", call.Name)
			continue
		}
		action, err := c.execute(call.Args)
		if err != nil {
			c.logger.Warn("assistant action rejected", "args", call.Args, "error", err)
			continue
		}
		reply.Actions = append(reply.Actions, action)
	}

	if strings.TrimSpace(reply.Text) == "" {
		reply.Text = actionSummary(reply.Actions)
	}
	return reply, nil
}

// execute applies one control_device call through the intent path.
// The action is idempotent: asking for a state the device is already in is
// a no-op that still counts as executed.
func (c *Client) execute(args map[string]any) (Action, error) {
	deviceID, _ := args["device_id"].(string)
	action, _ := args["action"].(string)
	if deviceID == "" || (action != "on" && action != "off") {
		return Action{}, fmt.Errorf("%w: device_id=%q action=%q", ErrInvalidAction, deviceID, action)
	}

	d, err := c.registry.Get(deviceID)
	if err != nil {
		return Action{}, fmt.Errorf("looking up device %s: %w", deviceID, err)
	}

	wantOn := action == "on"
	if d.On != wantOn {
		if _, err := c.actor.Toggle(deviceID); err != nil {
			return Action{}, fmt.Errorf("toggling device %s: %w", deviceID, err)
		}
	}

	c.logger.Info("assistant controlled device", "device_id", deviceID, "action", action)
	return Action{DeviceID: deviceID, Action: action}, nil
}

// controlDeviceDeclaration describes the one tool the model may call.
func controlDeviceDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        controlDeviceTool,
		Description: "Turn a smart home device on or off by its device id.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"device_id": {
					Type:        genai.TypeString,
					Description: "The id of the device to control, as listed in the system instruction.",
				},
				"action": {
					Type:        genai.TypeString,
					Description: "The desired power state.",
					Enum:        []string{"on", "off"},
				},
			},
			Required: []string{"device_id", "action"},
		},
	}
}

// actionSummary renders a minimal confirmation when the model returned
// function calls without accompanying text.
func actionSummary(actions []Action) string {
	if len(actions) == 0 {
		return fallbackReply
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("turned %s %s", a.DeviceID, a.Action)
	}
	return "Done: " + strings.Join(parts, ", ") + "."
}
