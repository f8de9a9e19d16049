package placement

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/forestgrid/internal/flyweight"
)

// Placement is one registered occurrence of a shared payload.
type Placement struct {
	Key      flyweight.Key
	Position flyweight.Position
	Payload  flyweight.Payload
}

// Record is the structured result of rendering one placement.
type Record struct {
	Seq         int
	Key         flyweight.Key
	Position    flyweight.Position
	Payload     flyweight.Payload
	Fingerprint uint64
	Text        string
}

// Registry holds placements in registration order.
type Registry struct {
	cache *flyweight.Cache

	mu      sync.RWMutex
	entries []Placement
}

// New returns an empty Registry drawing payloads from cache.
func New(cache *flyweight.Cache) *Registry {
	if cache == nil {
		panic("placement: nil cache")
	}
	return &Registry{cache: cache}
}

// Register resolves the payload for (category, variant) and appends a
// placement at (x, y). Nothing is appended when the payload cannot be obtained.
func (r *Registry) Register(ctx context.Context, x, y float64, category, variant string) error {
	key := flyweight.NewKey(category, variant)
	payload, err := r.cache.GetOrCreate(ctx, key)
	if err != nil {
		return fmt.Errorf("placement: registering %s at %s: %w", key, flyweight.Position{X: x, Y: y}, err)
	}

	r.mu.Lock()
	r.entries = append(r.entries, Placement{
		Key:      key,
		Position: flyweight.Position{X: x, Y: y},
		Payload:  payload,
	})
	r.mu.Unlock()
	return nil
}

// RenderAll renders every placement once, in registration order.
func (r *Registry) RenderAll() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]Record, 0, len(r.entries))
	for i, p := range r.entries {
		records = append(records, Record{
			Seq:         i,
			Key:         p.Key,
			Position:    p.Position,
			Payload:     p.Payload,
			Fingerprint: p.Payload.Fingerprint(),
			Text:        p.Payload.Render(p.Position),
		})
	}
	return records
}

// Len returns the number of registered placements.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Placements returns a copy of the registered placements.
func (r *Registry) Placements() []Placement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Placement(nil), r.entries...)
}

// Cache returns the shared cache backing the registry.
func (r *Registry) Cache() *flyweight.Cache { return r.cache }
