package flyweight

import "context"

// Payload is the shared, immutable intrinsic state for one Key.
type Payload interface {
	// Key returns the key the payload was built for.
	Key() Key

	// Fingerprint is a stable hash of the intrinsic state. Equal fingerprints
	// across processes mean equal intrinsic state, which lets sinks that cannot
	// compare pointers still group records by payload.
	Fingerprint() uint64

	// Describe returns the intrinsic data blob produced at construction.
	Describe() string

	// Render describes the payload drawn at pos. It must not mutate the payload.
	Render(pos Position) string
}

// Factory builds the payload for key. It is the expensive path a Cache exists
// to amortize and is called at most once per key while the key stays cached.
type Factory func(ctx context.Context, key Key) (Payload, error)

// Observer receives cache events. Implementations must be safe for concurrent
// use and must not call back into the Cache.
type Observer interface {
	CacheHit(key Key)
	CacheMiss(key Key)
	PayloadEvicted(key Key)
	ConstructionFailed(key Key, err error)
}

type nopObserver struct{}

func (nopObserver) CacheHit(Key)                  {}
func (nopObserver) CacheMiss(Key)                 {}
func (nopObserver) PayloadEvicted(Key)            {}
func (nopObserver) ConstructionFailed(Key, error) {}
