package registry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/forestgrid/internal/config"
	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/sink"
)

// OpenSinks decodes every output and opens its sink, in declaration order.
// Each sink writes to its own buffer over out, so concurrent passes from
// several sinks never interleave. If any sink fails to open, the ones already
// opened are closed again.
func (r *Registry) OpenSinks(ctx context.Context, out io.Writer, outputs []*config.Output) ([]sink.Named, error) {
	logger := ctxlog.FromContext(ctx)
	opened := make([]sink.Named, 0, len(outputs))
	var shared *sink.SharedWriter
	if out != nil {
		shared = sink.NewSharedWriter(out)
	}

	fail := func(err error) ([]sink.Named, error) {
		return nil, errors.Join(err, sink.CloseAll(opened))
	}

	for _, output := range outputs {
		handler, ok := r.SinkRegistry[output.Type]
		if !ok {
			return fail(fmt.Errorf("no sink registered for output '%s' at %s", output.Type, output.Source))
		}

		var input any
		if handler.NewInput != nil {
			input = handler.NewInput()
			if err := output.Decode(input); err != nil {
				return fail(err)
			}
		}

		sinkLogger := logger.With("sink", output.Type)
		var buf *sink.Buffer
		var w io.Writer
		if shared != nil {
			buf = shared.Buffer()
			w = buf
		}
		s, err := handler.Create(ctxlog.WithLogger(ctx, sinkLogger), w, input)
		if err != nil {
			return fail(fmt.Errorf("opening sink '%s' at %s: %w", output.Type, output.Source, err))
		}
		sinkLogger.Debug("Sink opened.", "source", output.Source)
		opened = append(opened, sink.Named{Name: output.Type, Sink: s, Out: buf})
	}

	return opened, nil
}
