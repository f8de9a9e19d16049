package print

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/specialistvlad/forestgrid/internal/placement"
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/specialistvlad/forestgrid/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPass() *sink.Pass {
	return sink.NewPass("tree", 1, []placement.Record{
		{Seq: 0, Key: flyweight.NewKey("oak", "green"), Text: "first"},
		{Seq: 1, Key: flyweight.NewKey("oak", "green"), Text: "second"},
	})
}

func TestSink_Emit(t *testing.T) {
	t.Parallel()
	off := false

	testCases := []struct {
		name  string
		input *Input
		want  string
	}{
		{
			name:  "defaults",
			input: &Input{},
			want:  "Rendering forest: 2 placements, 1 payload types\nfirst\nsecond\n",
		},
		{
			name:  "nil input",
			input: nil,
			want:  "Rendering forest: 2 placements, 1 payload types\nfirst\nsecond\n",
		},
		{
			name:  "no header with prefix",
			input: &Input{Header: &off, Prefix: "  "},
			want:  "  first\n  second\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer

			s, err := NewSink(context.Background(), &out, tc.input)
			require.NoError(t, err)
			require.NoError(t, s.Emit(context.Background(), testPass()))
			require.NoError(t, s.Close())

			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestSink_EmptyPass(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	s, err := NewSink(context.Background(), &out, &Input{})
	require.NoError(t, err)
	require.NoError(t, s.Emit(context.Background(), sink.NewPass("tree", 0, nil)))

	assert.Equal(t, "Rendering forest: 0 placements, 0 payload types\n", out.String())
}

func TestNewSink_RequiresWriter(t *testing.T) {
	t.Parallel()
	_, err := NewSink(context.Background(), nil, &Input{})
	assert.Error(t, err)
}

func TestModule_Register(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&Module{}).Register(r)
	handler, ok := r.Sink("print")
	require.True(t, ok)

	input := handler.NewInput()
	require.IsType(t, &Input{}, input)
	s, err := handler.Create(context.Background(), io.Discard, input)
	require.NoError(t, err)
	assert.NotNil(t, s)
}
