package tree

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/specialistvlad/forestgrid/internal/placement"
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))

	p, err := Load(ctx, flyweight.NewKey("oak", "green"))
	require.NoError(t, err)

	tree, ok := p.(*Tree)
	require.True(t, ok)
	assert.Equal(t, "oak", tree.Type())
	assert.Equal(t, "green", tree.Color())
	assert.Equal(t, flyweight.NewKey("oak", "green"), tree.Key())
	assert.Equal(t, "loaded 3D model data for oak...", tree.Describe())
	assert.Equal(t,
		"at (10,20) rendering green oak - loaded 3D model data for oak...",
		tree.Render(flyweight.Position{X: 10, Y: 20}))
	assert.Contains(t, logs.String(), "Creating new tree type.")
	assert.Contains(t, logs.String(), "type=oak")
}

func TestFingerprint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	a, err := Load(ctx, flyweight.NewKey("oak", "green"))
	require.NoError(t, err)
	again, err := Load(ctx, flyweight.NewKey("oak", "green"))
	require.NoError(t, err)
	other, err := Load(ctx, flyweight.NewKey("oak", "red"))
	require.NoError(t, err)
	shifted, err := Load(ctx, flyweight.NewKey("oa", "kgreen"))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), again.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), other.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), shifted.Fingerprint())
}

func TestModule_RegistersKind(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&Module{}).Register(r)

	kind, ok := r.Kind(Kind)
	require.True(t, ok)
	require.NotNil(t, kind.Factory)
}

// TestForest renders the classic nine-tree forest through the shared cache.
func TestForest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, err := flyweight.New(Load)
	require.NoError(t, err)
	forest := placement.New(cache)

	plantings := []struct {
		x, y         float64
		kind, colour string
	}{
		{10, 20, "oak", "green"},
		{15, 30, "pine", "darkgreen"},
		{25, 40, "oak", "green"},
		{35, 50, "maple", "red"},
		{45, 60, "pine", "darkgreen"},
		{55, 70, "oak", "green"},
		{65, 80, "birch", "white"},
		{75, 90, "maple", "red"},
		{85, 100, "pine", "darkgreen"},
	}
	for _, p := range plantings {
		require.NoError(t, forest.Register(ctx, p.x, p.y, p.kind, p.colour))
	}

	records := forest.RenderAll()

	require.Len(t, records, 9)
	assert.Equal(t, 4, cache.DistinctCount())
	assert.Same(t, records[0].Payload, records[5].Payload)
	assert.Same(t, records[1].Payload, records[8].Payload)
	assert.Equal(t, "at (65,80) rendering white birch - loaded 3D model data for birch...", records[6].Text)
}
