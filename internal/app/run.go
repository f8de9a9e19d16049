package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/forestgrid/internal/config"
	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/flyweight"
	"github.com/specialistvlad/forestgrid/internal/placement"
	"github.com/specialistvlad/forestgrid/internal/sink"
	"golang.org/x/sync/errgroup"
)

// Run loads the scene, registers every placement through the shared payload
// cache, renders the forest once and hands the pass to every output.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer func() {
		if closeErr := a.closeHealthCheckServer(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	scene, err := a.loader.Load(ctx, a.config.ScenePath)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	a.logger.Debug("Scene loaded.", "kind", scene.Kind, "placements", len(scene.Placements), "outputs", len(scene.Outputs))

	if err := a.registry.Validate(ctx, scene); err != nil {
		return err
	}

	forest, err := a.plant(ctx, scene)
	if err != nil {
		return err
	}

	records := forest.RenderAll()
	a.metrics.RecordRender(len(records))
	pass := sink.NewPass(scene.Kind, forest.Cache().DistinctCount(), records)

	if err := a.emit(ctx, scene, pass); err != nil {
		return err
	}

	a.logger.Info("🌲 Render pass complete.",
		"pass", pass.ID,
		"placements", len(records),
		"payload_types", pass.PayloadTypes,
		"cache", forest.Cache().Stats(),
	)

	if a.config.Hold {
		a.logger.Info("Holding until interrupted...")
		<-ctx.Done()
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// plant builds the shared cache for the scene kind and registers every
// placement with it, in declaration order.
func (a *App) plant(ctx context.Context, scene *config.Scene) (*placement.Registry, error) {
	kind, ok := a.registry.Kind(scene.Kind)
	if !ok {
		return nil, fmt.Errorf("scene kind '%s' is not registered", scene.Kind)
	}

	cache, err := flyweight.New(kind.Factory,
		flyweight.WithCapacity(a.config.CacheSize),
		flyweight.WithObserver(a.metrics),
		flyweight.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payload cache: %w", err)
	}

	forest := placement.New(cache)
	a.forest.Store(forest)

	if err := a.prewarm(ctx, cache, scene); err != nil {
		return nil, err
	}

	a.logger.Info("🌱 Planting scene...", "kind", scene.Kind, "placements", len(scene.Placements), "cache_size", a.config.CacheSize)
	for _, p := range scene.Placements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := forest.Register(ctx, p.X, p.Y, p.Category, p.Variant); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Source, err)
		}
		a.logger.Debug("Placement registered.", "placement", p.String())
	}
	return forest, nil
}

// prewarm constructs the payload of every distinct key with up to
// Config.Workers concurrent factory calls, so that registration only hits the
// cache. Bounded caches are not prewarmed: the scene may hold more keys than
// the cache can keep.
func (a *App) prewarm(ctx context.Context, cache *flyweight.Cache, scene *config.Scene) error {
	if a.config.Workers <= 1 || cache.Capacity() > 0 {
		return nil
	}

	seen := make(map[flyweight.Key]struct{})
	var keys []flyweight.Key
	for _, p := range scene.Placements {
		key := flyweight.NewKey(p.Category, p.Variant)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	a.logger.Debug("Prewarming payload cache.", "keys", len(keys), "workers", a.config.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for _, key := range keys {
		g.Go(func() error {
			if _, err := cache.GetOrCreate(gctx, key); err != nil {
				return fmt.Errorf("prewarming %s: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// emit opens the scene outputs, broadcasts pass to them and closes them again.
func (a *App) emit(ctx context.Context, scene *config.Scene, pass *sink.Pass) (err error) {
	outputs := scene.Outputs
	if len(outputs) == 0 {
		a.logger.Debug("Scene declares no outputs, using default.", "output", defaultOutput)
		outputs = []*config.Output{config.DefaultOutput(defaultOutput)}
	}

	sinks, err := a.registry.OpenSinks(ctx, a.outW, outputs)
	if err != nil {
		return fmt.Errorf("failed to open outputs: %w", err)
	}
	defer func() {
		if closeErr := sink.CloseAll(sinks); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if err := sink.Broadcast(ctx, sinks, pass); err != nil {
		return fmt.Errorf("failed to emit render pass: %w", err)
	}
	return nil
}
