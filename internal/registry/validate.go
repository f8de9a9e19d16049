package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/forestgrid/internal/config"
	"github.com/specialistvlad/forestgrid/internal/ctxlog"
)

// Validate checks that everything the scene refers to is backed by Go code.
// All problems are reported at once.
func (r *Registry) Validate(ctx context.Context, scene *config.Scene) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	if _, ok := r.KindRegistry[scene.Kind]; !ok {
		errs = append(errs, fmt.Sprintf("scene kind '%s' is not registered (known kinds: %s)",
			scene.Kind, strings.Join(sortedNames(r.KindRegistry), ", ")))
	}

	for _, out := range scene.Outputs {
		if _, ok := r.SinkRegistry[out.Type]; !ok {
			errs = append(errs, fmt.Sprintf("output '%s' at %s: no sink registered for this type (known outputs: %s)",
				out.Type, out.Source, strings.Join(sortedNames(r.SinkRegistry), ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "kind", scene.Kind, "outputs", len(scene.Outputs))
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
