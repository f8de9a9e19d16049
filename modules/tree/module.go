// Package tree provides the "tree" payload kind: a tree type (category) in a
// given color (variant) together with its simulated 3D model data.
package tree

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/specialistvlad/forestgrid/internal/registry"
)

// Kind is the scene kind this module registers.
const Kind = "tree"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Tree is the shared intrinsic state of every tree of one type and color.
type Tree struct {
	key         flyweight.Key
	model       string
	fingerprint uint64
}

var _ flyweight.Payload = (*Tree)(nil)

// Load builds the Tree for key. It stands in for loading the model from disk.
func Load(ctx context.Context, key flyweight.Key) (flyweight.Payload, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Creating new tree type.", "type", key.Category, "color", key.Variant)

	model := fmt.Sprintf("loaded 3D model data for %s...", key.Category)

	d := xxhash.New()
	for _, part := range []string{key.Category, key.Variant, model} {
		// Digest writes never fail.
		_, _ = d.WriteString(part)
		_, _ = d.Write([]byte{0})
	}

	return &Tree{key: key, model: model, fingerprint: d.Sum64()}, nil
}

// Type returns the tree type, e.g. "oak".
func (t *Tree) Type() string { return t.key.Category }

// Color returns the tree color, e.g. "green".
func (t *Tree) Color() string { return t.key.Variant }

// Key implements flyweight.Payload.
func (t *Tree) Key() flyweight.Key { return t.key }

// Fingerprint implements flyweight.Payload.
func (t *Tree) Fingerprint() uint64 { return t.fingerprint }

// Describe implements flyweight.Payload.
func (t *Tree) Describe() string { return t.model }

// Render implements flyweight.Payload.
func (t *Tree) Render(pos flyweight.Position) string {
	return fmt.Sprintf("at %s rendering %s %s - %s", pos, t.Color(), t.Type(), t.model)
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(Kind, &registry.RegisteredKind{
		Description: "Trees keyed by type and color.",
		Factory:     Load,
	})
}
