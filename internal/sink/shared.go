package sink

import (
	"bytes"
	"io"
	"sync"
)

// SharedWriter lets several sinks write to one io.Writer without their
// output interleaving. Each sink gets its own Buffer; a buffer reaches the
// underlying writer in one piece when it is flushed.
type SharedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSharedWriter wraps w.
func NewSharedWriter(w io.Writer) *SharedWriter {
	return &SharedWriter{w: w}
}

// Buffer returns a new buffer that flushes into the shared writer.
func (s *SharedWriter) Buffer() *Buffer {
	return &Buffer{shared: s}
}

// Buffer collects the output of one sink for one pass. It is not safe for
// concurrent writes; Flush is safe to call alongside other buffers' flushes.
type Buffer struct {
	shared *SharedWriter
	buf    bytes.Buffer
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

// Flush writes everything buffered so far to the shared writer as one block
// and empties the buffer.
func (b *Buffer) Flush() error {
	b.shared.mu.Lock()
	defer b.shared.mu.Unlock()
	_, err := b.buf.WriteTo(b.shared.w)
	return err
}
