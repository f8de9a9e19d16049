package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Sink receives rendered passes.
type Sink interface {
	Emit(ctx context.Context, pass *Pass) error
	Close() error
}

// Named pairs a sink with the output type it was opened for, for logs and errors.
type Named struct {
	Name string
	Sink Sink
	// Out is the sink's buffer on the application writer, if it was given one.
	Out *Buffer
}

// Broadcast emits pass to every sink concurrently. It waits for all of them
// and returns the first error; the context handed to the remaining sinks is
// canceled as soon as one fails. A sink's Out buffer is flushed once its Emit
// returns, so each sink's output for the pass lands as one block.
func Broadcast(ctx context.Context, sinks []Named, pass *Pass) error {
	logger := ctxlog.FromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range sinks {
		g.Go(func() error {
			sinkLogger := logger.With("sink", s.Name, "pass", pass.ID)
			sinkLogger.Debug("Emitting pass.", "records", len(pass.Records))
			err := s.Sink.Emit(ctxlog.WithLogger(gctx, sinkLogger), pass)
			if s.Out != nil {
				if flushErr := s.Out.Flush(); flushErr != nil {
					err = errors.Join(err, fmt.Errorf("flushing output: %w", flushErr))
				}
			}
			if err != nil {
				return fmt.Errorf("sink %q: %w", s.Name, err)
			}
			sinkLogger.Debug("Pass emitted.")
			return nil
		})
	}
	return g.Wait()
}

// CloseAll closes every sink in reverse order and joins their errors.
func CloseAll(sinks []Named) error {
	var errs []error
	for i := len(sinks) - 1; i >= 0; i-- {
		if err := sinks[i].Sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing sink %q: %w", sinks[i].Name, err))
		}
	}
	return errors.Join(errs...)
}
