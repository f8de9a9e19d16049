// Package jsonl provides the "jsonl" output: one JSON object per rendered
// placement, written to the application's output or to a file.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/specialistvlad/forestgrid/internal/sink"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an `output "jsonl"` block.
type Input struct {
	// Path of the file to write. Empty means the application's output.
	Path string `hcl:"path,optional"`
	// Summary appends one object describing the pass after its records.
	Summary bool `hcl:"summary,optional"`
}

// Sink encodes events as JSON lines.
type Sink struct {
	mu      sync.Mutex
	enc     *json.Encoder
	file    *os.File
	summary bool
}

// NewSink is the create handler for the "jsonl" output.
func NewSink(ctx context.Context, out io.Writer, input *Input) (*Sink, error) {
	if input == nil {
		input = &Input{}
	}
	logger := ctxlog.FromContext(ctx)

	s := &Sink{summary: input.Summary}
	if input.Path == "" {
		if out == nil {
			return nil, fmt.Errorf("jsonl output needs a writer or a path")
		}
		s.enc = json.NewEncoder(out)
		return s, nil
	}

	f, err := os.Create(input.Path)
	if err != nil {
		return nil, fmt.Errorf("creating jsonl file: %w", err)
	}
	logger.Debug("Writing JSON lines to file.", "path", input.Path)
	s.file = f
	s.enc = json.NewEncoder(f)
	return s, nil
}

// Emit implements sink.Sink.
func (s *Sink) Emit(ctx context.Context, pass *sink.Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range pass.Events() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.enc.Encode(ev); err != nil {
			return fmt.Errorf("encoding record %d: %w", ev.Seq, err)
		}
	}
	if s.summary {
		if err := s.enc.Encode(pass.Summary()); err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
	}
	ctxlog.FromContext(ctx).Debug("JSON lines written.", "records", len(pass.Records))
	return nil
}

// Close implements sink.Sink. It closes the file if the sink opened one.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSink("jsonl", &registry.RegisteredSink{
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
