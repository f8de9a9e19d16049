package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/forestgrid/internal/config"
	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/metrics"
	"github.com/specialistvlad/forestgrid/internal/placement"
	"github.com/specialistvlad/forestgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	registry   *registry.Registry
	metrics    *metrics.Recorder
	httpServer *http.Server

	// forest is set once the scene is loaded; the health server reads it.
	forest atomic.Pointer[placement.Registry]
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry and
// metrics. The scene itself is loaded by Run.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	if cfg == nil {
		panic("app: nil config")
	}
	if loader == nil {
		panic("app: nil loader")
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		metrics:  metrics.NewRecorder(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Forest returns the placements of the last loaded scene, or nil before Run
// has loaded one.
func (a *App) Forest() *placement.Registry {
	return a.forest.Load()
}

// Metrics returns the application's metrics recorder.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}
