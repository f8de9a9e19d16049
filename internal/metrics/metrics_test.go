package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayload struct{ key flyweight.Key }

func (p *stubPayload) Key() flyweight.Key                  { return p.key }
func (p *stubPayload) Fingerprint() uint64                 { return 1 }
func (p *stubPayload) Describe() string                    { return p.key.String() }
func (p *stubPayload) Render(pos flyweight.Position) string { return pos.String() }

func TestRecorder_ObservesCache(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := NewRecorder()
	boom := errors.New("boom")
	factory := func(_ context.Context, key flyweight.Key) (flyweight.Payload, error) {
		if key.Variant == "broken" {
			return nil, boom
		}
		return &stubPayload{key: key}, nil
	}
	cache, err := flyweight.New(factory, flyweight.WithObserver(rec), flyweight.WithCapacity(2))
	require.NoError(t, err)
	ctx := context.Background()

	// --- Act ---
	for _, k := range []flyweight.Key{
		flyweight.NewKey("oak", "green"),
		flyweight.NewKey("oak", "green"),
		flyweight.NewKey("pine", "darkgreen"),
		flyweight.NewKey("maple", "red"),
	} {
		_, err := cache.GetOrCreate(ctx, k)
		require.NoError(t, err)
	}
	_, err = cache.GetOrCreate(ctx, flyweight.NewKey("oak", "broken"))
	require.ErrorIs(t, err, boom)
	rec.RecordRender(4)

	// --- Assert ---
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.hits.WithLabelValues("oak")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.misses.WithLabelValues("oak")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.misses.WithLabelValues("maple")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.evictions.WithLabelValues("oak")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.failures.WithLabelValues("oak")))
	assert.Equal(t, float64(cache.DistinctCount()), testutil.ToFloat64(rec.payloads))
	assert.Equal(t, 4.0, testutil.ToFloat64(rec.rendered))

	expected := `
# HELP forestgrid_cache_payloads Number of distinct payloads currently cached.
# TYPE forestgrid_cache_payloads gauge
forestgrid_cache_payloads 2
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "forestgrid_cache_payloads"))
}

func TestRecorder_Handler(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.CacheMiss(flyweight.NewKey("oak", "green"))
	rec.RecordRender(3)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `forestgrid_cache_misses_total{category="oak"} 1`)
	assert.Contains(t, string(body), "forestgrid_placements_rendered_total 3")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRecorders_AreIndependent(t *testing.T) {
	t.Parallel()

	a, b := NewRecorder(), NewRecorder()
	a.RecordRender(5)

	assert.Equal(t, 5.0, testutil.ToFloat64(a.rendered))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.rendered))
}
