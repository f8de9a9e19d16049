// Package placement records the extrinsic occurrences of shared payloads and
// drives rendering over them.
//
// A Registry owns an ordered sequence of placements. Each placement keeps a
// position plus a reference to the payload it was registered with; the
// payload itself lives in, and is shared through, a flyweight.Cache. The
// cache is borrowed, not owned, so several registries may share one cache.
package placement
