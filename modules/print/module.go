// Package print provides the "print" output: one human-readable line per
// rendered placement, written to the application's output.
package print

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/specialistvlad/forestgrid/internal/sink"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an `output "print"` block.
type Input struct {
	// Header defaults to true.
	Header *bool  `hcl:"header,optional"`
	Prefix string `hcl:"prefix,optional"`
}

// Sink writes text lines to an io.Writer.
type Sink struct {
	out    io.Writer
	header bool
	prefix string
}

// NewSink is the create handler for the "print" output.
func NewSink(ctx context.Context, out io.Writer, input *Input) (*Sink, error) {
	if out == nil {
		return nil, fmt.Errorf("print output needs a writer")
	}
	if input == nil {
		input = &Input{}
	}
	header := input.Header == nil || *input.Header
	ctxlog.FromContext(ctx).Debug("Print sink ready.", "header", header, "prefix", input.Prefix)
	return &Sink{out: out, header: header, prefix: input.Prefix}, nil
}

// Emit implements sink.Sink.
func (s *Sink) Emit(ctx context.Context, pass *sink.Pass) error {
	ctxlog.FromContext(ctx).Info("Printing render pass.", "records", len(pass.Records))

	if s.header {
		if _, err := fmt.Fprintf(s.out, "Rendering forest: %d placements, %d payload types\n",
			len(pass.Records), pass.PayloadTypes); err != nil {
			return err
		}
	}
	for _, r := range pass.Records {
		if _, err := fmt.Fprintf(s.out, "%s%s\n", s.prefix, r.Text); err != nil {
			return err
		}
	}
	return nil
}

// Close implements sink.Sink. The writer belongs to the caller.
func (s *Sink) Close() error { return nil }

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSink("print", &registry.RegisteredSink{
		NewInput: func() any { return new(Input) },
		Create: func(ctx context.Context, out io.Writer, input any) (sink.Sink, error) {
			in, _ := input.(*Input)
			s, err := NewSink(ctx, out, in)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	})
}
