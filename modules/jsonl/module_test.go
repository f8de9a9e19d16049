package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/specialistvlad/forestgrid/internal/placement"
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/specialistvlad/forestgrid/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPass() *sink.Pass {
	return sink.NewPass("tree", 2, []placement.Record{
		{Seq: 0, Key: flyweight.NewKey("oak", "green"), Position: flyweight.Position{X: 10, Y: 20}, Fingerprint: 7, Text: "oak"},
		{Seq: 1, Key: flyweight.NewKey("pine", "darkgreen"), Position: flyweight.Position{X: 15, Y: 30}, Fingerprint: 9, Text: "pine"},
	})
}

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var obj map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &obj))
		out = append(out, obj)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestSink_WritesToOutput(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	pass := testPass()

	s, err := NewSink(context.Background(), &out, &Input{})
	require.NoError(t, err)
	require.NoError(t, s.Emit(context.Background(), pass))
	require.NoError(t, s.Close())

	lines := decodeLines(t, out.Bytes())
	require.Len(t, lines, 2)
	assert.Equal(t, pass.ID, lines[0]["pass"])
	assert.Equal(t, "oak", lines[0]["category"])
	assert.Equal(t, "green", lines[0]["variant"])
	assert.Equal(t, 10.0, lines[0]["x"])
	assert.Equal(t, "0000000000000007", lines[0]["fingerprint"])
	assert.Equal(t, 1.0, lines[1]["seq"])
}

func TestSink_WritesFileWithSummary(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "render.jsonl")

	s, err := NewSink(context.Background(), nil, &Input{Path: path, Summary: true})
	require.NoError(t, err)
	require.NoError(t, s.Emit(context.Background(), testPass()))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "closing twice is harmless")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := decodeLines(t, data)
	require.Len(t, lines, 3)
	assert.Equal(t, 2.0, lines[2]["placements"])
	assert.Equal(t, 2.0, lines[2]["payload_types"])
	assert.Equal(t, "tree", lines[2]["kind"])
}

func TestSink_CanceledContext(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewSink(context.Background(), &out, nil)
	require.NoError(t, err)

	err = s.Emit(ctx, testPass())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestNewSink_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewSink(context.Background(), nil, &Input{})
	assert.ErrorContains(t, err, "needs a writer or a path")

	_, err = NewSink(context.Background(), nil, &Input{Path: filepath.Join(t.TempDir(), "missing", "dir", "out.jsonl")})
	assert.ErrorContains(t, err, "creating jsonl file")
}

func TestModule_Register(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&Module{}).Register(r)
	handler, ok := r.Sink("jsonl")
	require.True(t, ok)

	var out strings.Builder
	s, err := handler.Create(context.Background(), &out, handler.NewInput())
	require.NoError(t, err)
	require.NoError(t, s.Emit(context.Background(), testPass()))
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}
