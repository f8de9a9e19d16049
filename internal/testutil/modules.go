package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/specialistvlad/forestgrid/modules/tree"
)

// CountingTreeModule registers the "tree" kind with a factory that records
// how often each key was constructed. An optional delay simulates slow model
// loading.
type CountingTreeModule struct {
	Delay time.Duration

	mu    sync.Mutex
	calls map[flyweight.Key]int
}

// Register registers the counting kind with the engine.
func (m *CountingTreeModule) Register(r *registry.Registry) {
	r.RegisterKind(tree.Kind, &registry.RegisteredKind{
		Description: "Trees, with construction counting.",
		Factory: func(ctx context.Context, key flyweight.Key) (flyweight.Payload, error) {
			if m.Delay > 0 {
				time.Sleep(m.Delay)
			}
			m.mu.Lock()
			if m.calls == nil {
				m.calls = make(map[flyweight.Key]int)
			}
			m.calls[key]++
			m.mu.Unlock()
			return tree.Load(ctx, key)
		},
	})
}

// Calls returns how many times key was constructed.
func (m *CountingTreeModule) Calls(key flyweight.Key) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key]
}

// TotalCalls returns the number of constructions across all keys.
func (m *CountingTreeModule) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}
