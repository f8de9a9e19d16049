// Package flyweight provides the shared-object cache at the heart of
// forestgrid.
//
// A Cache maps an intrinsic Key (category, variant) to a single, immutable
// Payload. The first request for a key runs the costly Factory; every later
// request for an equal key returns the very same Payload value. Callers keep
// their per-occurrence (extrinsic) state, such as a Position, outside of the
// payload and pass it in at render time.
//
// # Concurrency
//
// GetOrCreate is safe for concurrent use. Construction for a given key is
// collapsed into a single in-flight call, so concurrent first requests for
// the same new key still produce exactly one payload. Requests for different
// keys construct in parallel.
//
// # Bounded caches
//
// By default a Cache never evicts and therefore holds one payload per key for
// its whole lifetime. WithCapacity switches the backing store to an LRU; an
// evicted key is rebuilt (with a new identity) the next time it is requested.
package flyweight
