// Package socketio provides the "socketio" output: every rendered placement
// is emitted as a socket.io event, followed by one event summarizing the pass.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/specialistvlad/forestgrid/internal/sink"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	defaultNamespace = "/"
	defaultEvent     = "render"
	defaultDoneEvent = "render_done"
	defaultTimeout   = 10 * time.Second
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an `output "socketio"` block.
type Input struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event,optional"`
	DoneEvent          string `hcl:"done_event,optional"`
	Timeout            string `hcl:"timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

// settings is Input with defaults applied and values parsed.
type settings struct {
	baseURL   string
	path      string
	namespace string
	event     string
	doneEvent string
	timeout   time.Duration
	insecure  bool
}

func newSettings(ctx context.Context, input *Input) (*settings, error) {
	logger := ctxlog.FromContext(ctx)

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch parsedURL.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q in %q", parsedURL.Scheme, input.URL)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", input.URL)
	}

	s := &settings{
		baseURL:   fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		path:      parsedURL.Path,
		namespace: input.Namespace,
		event:     input.Event,
		doneEvent: input.DoneEvent,
		timeout:   defaultTimeout,
		insecure:  input.InsecureSkipVerify,
	}
	if s.namespace == "" {
		s.namespace = defaultNamespace
	}
	if s.event == "" {
		s.event = defaultEvent
	}
	if s.doneEvent == "" {
		s.doneEvent = defaultDoneEvent
	}
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil || timeout <= 0 {
			logger.Warn("Failed to parse timeout, using default 10s", "inputTimeout", input.Timeout, "error", err)
		} else {
			s.timeout = timeout
		}
	}
	return s, nil
}

// Sink emits events over a connected socket.io client.
type Sink struct {
	client    *socket.Socket
	event     string
	doneEvent string
	logger    *slog.Logger
}

// NewSink connects to the server and returns a Sink once the connection is up.
func NewSink(ctx context.Context, input *Input) (*Sink, error) {
	if input == nil {
		return nil, fmt.Errorf("socketio output needs a url")
	}
	cfg, err := newSettings(ctx, input)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("url", input.URL, "namespace", cfg.namespace)
	logger.Info("Connecting socket.io client...")

	opts := socket.DefaultOptions()
	opts.SetPath(cfg.path)
	if cfg.insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	report := func(err error) {
		select {
		case connectChan <- err:
		default:
		}
	}

	manager := socket.NewManager(cfg.baseURL, opts)
	client := manager.Socket(cfg.namespace, opts)

	client.Once(types.EventName("connect"), func(...any) {
		logger.Debug("EVENT HANDLER: 'connect' event fired")
		report(nil)
	})
	client.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", errs[0])
			}
		}
		logger.Debug("EVENT HANDLER: 'connect_error' event fired", "error", err)
		report(err)
	})

	client.Connect()

	timer := time.NewTimer(cfg.timeout)
	defer timer.Stop()

	select {
	case err := <-connectChan:
		if err != nil {
			client.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		client.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		client.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", cfg.timeout)
	}

	logger.Info("Successfully connected", "sid", client.Id())
	return &Sink{client: client, event: cfg.event, doneEvent: cfg.doneEvent, logger: logger}, nil
}

// Emit implements sink.Sink. Each record becomes one event; the pass summary
// follows as the done event.
func (s *Sink) Emit(ctx context.Context, pass *sink.Pass) error {
	logger := ctxlog.FromContext(ctx)

	for _, ev := range pass.Events() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.client.Emit(s.event, eventData(ev)); err != nil {
			return fmt.Errorf("emitting record %d: %w", ev.Seq, err)
		}
	}
	summary := pass.Summary()
	if err := s.client.Emit(s.doneEvent, map[string]any{
		"pass":          summary.Pass,
		"kind":          summary.Kind,
		"placements":    summary.Placements,
		"payload_types": summary.PayloadTypes,
	}); err != nil {
		return fmt.Errorf("emitting %q: %w", s.doneEvent, err)
	}

	logger.Info("Emitted render pass.", "event", s.event, "records", len(pass.Records))
	return nil
}

// Close implements sink.Sink.
func (s *Sink) Close() error {
	s.logger.Debug("Disconnecting socket client", "sid", s.client.Id())
	s.client.Disconnect()
	return nil
}

func eventData(ev sink.Event) map[string]any {
	return map[string]any{
		"pass":        ev.Pass,
		"seq":         ev.Seq,
		"category":    ev.Category,
		"variant":     ev.Variant,
		"x":           ev.X,
		"y":           ev.Y,
		"fingerprint": ev.Fingerprint,
		"text":        ev.Text,
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSink("socketio", &registry.RegisteredSink{
		NewInput: func() any { return new(Input) },
		Create: func(ctx context.Context, _ io.Writer, input any) (sink.Sink, error) {
			in, _ := input.(*Input)
			s, err := NewSink(ctx, in)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	})
}
