package placement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayload struct {
	key flyweight.Key
}

func (p *stubPayload) Key() flyweight.Key  { return p.key }
func (p *stubPayload) Fingerprint() uint64 { return uint64(len(p.key.String())) }
func (p *stubPayload) Describe() string    { return "model of " + p.key.Category }
func (p *stubPayload) Render(pos flyweight.Position) string {
	return fmt.Sprintf("%s %s at %s", p.key.Variant, p.key.Category, pos)
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cache, err := flyweight.New(func(_ context.Context, key flyweight.Key) (flyweight.Payload, error) {
		return &stubPayload{key: key}, nil
	})
	require.NoError(t, err)
	return New(cache)
}

func TestRegistry_ForestScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRegistry(t)

	// --- Arrange ---
	require.NoError(t, r.Register(ctx, 10, 20, "oak", "green"))
	require.NoError(t, r.Register(ctx, 15, 30, "pine", "darkgreen"))
	require.NoError(t, r.Register(ctx, 25, 40, "oak", "green"))
	require.NoError(t, r.Register(ctx, 35, 50, "maple", "red"))

	// --- Act ---
	records := r.RenderAll()

	// --- Assert ---
	assert.Equal(t, 3, r.Cache().DistinctCount())
	require.Len(t, records, 4)

	wantKeys := []flyweight.Key{
		flyweight.NewKey("oak", "green"),
		flyweight.NewKey("pine", "darkgreen"),
		flyweight.NewKey("oak", "green"),
		flyweight.NewKey("maple", "red"),
	}
	wantPositions := []flyweight.Position{{X: 10, Y: 20}, {X: 15, Y: 30}, {X: 25, Y: 40}, {X: 35, Y: 50}}
	for i, rec := range records {
		assert.Equal(t, i, rec.Seq)
		assert.Equal(t, wantKeys[i], rec.Key)
		assert.Equal(t, wantPositions[i], rec.Position)
		assert.Equal(t, rec.Payload.Fingerprint(), rec.Fingerprint)
	}

	assert.Same(t, records[0].Payload, records[2].Payload, "records 1 and 3 share one payload")
	assert.NotSame(t, records[0].Payload, records[1].Payload)
	assert.Equal(t, "green oak at (10,20)", records[0].Text)
}

func TestRegistry_EmptyRendersNothing(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(t)

	records := r.RenderAll()

	require.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RenderPreservesOrderAndIsRepeatable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRegistry(t)

	for i := 0; i < 50; i++ {
		require.NoError(t, r.Register(ctx, float64(i), float64(-i), fmt.Sprintf("tree-%d", i%5), "green"))
	}

	first := r.RenderAll()
	second := r.RenderAll()

	require.Len(t, first, 50)
	for i, rec := range first {
		assert.Equal(t, float64(i), rec.Position.X)
	}
	assert.Equal(t, first, second, "rendering does not mutate the registry")
	assert.Equal(t, 5, r.Cache().DistinctCount())
}

func TestRegistry_RegisterFailureAppendsNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// --- Arrange ---
	boom := errors.New("asset store offline")
	cache, err := flyweight.New(func(_ context.Context, key flyweight.Key) (flyweight.Payload, error) {
		if key.Category == "cursed" {
			return nil, boom
		}
		return &stubPayload{key: key}, nil
	})
	require.NoError(t, err)
	r := New(cache)

	// --- Act ---
	require.NoError(t, r.Register(ctx, 1, 1, "oak", "green"))
	errCursed := r.Register(ctx, 2, 2, "cursed", "black")
	errEmpty := r.Register(ctx, 3, 3, "", "green")

	// --- Assert ---
	require.ErrorIs(t, errCursed, flyweight.ErrPayloadConstruction)
	assert.ErrorIs(t, errCursed, boom)
	assert.Contains(t, errCursed.Error(), "registering cursed/black at (2,2)")
	require.ErrorIs(t, errEmpty, flyweight.ErrInvalidKey)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, cache.DistinctCount())
}

func TestRegistry_SharedCacheAcrossRegistries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	north := newTestRegistry(t)
	south := New(north.Cache())

	require.NoError(t, north.Register(ctx, 0, 0, "oak", "green"))
	require.NoError(t, south.Register(ctx, 5, 5, "oak", "green"))
	require.NoError(t, south.Register(ctx, 6, 6, "birch", "white"))

	assert.Same(t, north.RenderAll()[0].Payload, south.RenderAll()[0].Payload)
	assert.Equal(t, 2, north.Cache().DistinctCount())
	assert.Equal(t, 1, north.Len())
	assert.Equal(t, 2, south.Len())
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newTestRegistry(t)

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(ctx, float64(i), 0, []string{"oak", "pine", "maple", "birch"}[i%4], "green")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, r.Len())
	assert.Equal(t, 4, r.Cache().DistinctCount())

	byKey := make(map[flyweight.Key]flyweight.Payload)
	for _, p := range r.Placements() {
		if prev, ok := byKey[p.Key]; ok {
			assert.Same(t, prev, p.Payload)
		}
		byKey[p.Key] = p.Payload
	}
}

func TestNew_PanicsOnNilCache(t *testing.T) {
	t.Parallel()
	assert.PanicsWithValue(t, "placement: nil cache", func() { New(nil) })
}
