package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/specialistvlad/forestgrid/internal/sink"
)

// RegisteredKind holds the compiled Go parts of a payload kind.
type RegisteredKind struct {
	Description string
	Factory     flyweight.Factory
}

// RegisterKind registers the payload factory for a scene kind.
func (r *Registry) RegisterKind(name string, kind *RegisteredKind) {
	if _, exists := r.KindRegistry[name]; exists {
		panic(fmt.Sprintf("kind with name '%s' already registered", name))
	}
	if kind == nil || kind.Factory == nil {
		panic(fmt.Sprintf("kind '%s' registered without a factory", name))
	}
	slog.Debug("Registering kind.", "name", name)
	r.KindRegistry[name] = kind
}

// RegisteredSink holds the Go functions that open a sink for an output type.
// NewInput returns a pointer to the struct the output block is decoded into;
// Create receives that pointer back.
type RegisteredSink struct {
	NewInput func() any
	Create   func(ctx context.Context, out io.Writer, input any) (sink.Sink, error)
}

// RegisterSink registers the constructor for an output type.
func (r *Registry) RegisterSink(name string, handler *RegisteredSink) {
	if _, exists := r.SinkRegistry[name]; exists {
		panic(fmt.Sprintf("sink with name '%s' already registered", name))
	}
	if handler == nil || handler.Create == nil {
		panic(fmt.Sprintf("sink '%s' registered without a create function", name))
	}
	slog.Debug("Registering sink.", "name", name)
	r.SinkRegistry[name] = handler
}
