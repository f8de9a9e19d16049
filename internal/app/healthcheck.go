package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/flyweight"
)

// healthHandler answers liveness probes.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statsResponse is the body served on /stats.
type statsResponse struct {
	Loaded        bool             `json:"loaded"`
	Placements    int              `json:"placements"`
	CacheCapacity int              `json:"cache_capacity"`
	Cache         *flyweight.Stats `json:"cache,omitempty"`
	Keys          []string         `json:"keys"`
}

// statsHandler reports the placements and cache state of the loaded scene.
func (app *App) statsHandler(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{CacheCapacity: app.config.CacheSize, Keys: []string{}}
	if forest := app.forest.Load(); forest != nil {
		cache := forest.Cache()
		stats := cache.Stats()
		resp.Loaded = true
		resp.Placements = forest.Len()
		resp.Cache = &stats
		for _, k := range cache.Keys() {
			resp.Keys = append(resp.Keys, k.String())
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		ctxlog.FromContext(app.ctx).Error("Failed to write stats response", "error", err)
	}
}

// healthMux wires every endpoint of the health check server.
func (app *App) healthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)
	mux.HandleFunc("/stats", app.statsHandler)
	mux.Handle("/metrics", app.metrics.Handler())
	return mux
}

// healthCheckServer initializes and runs the health check HTTP server.
func (app *App) healthCheckServer() {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring health check server.")
	if app.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)

	// Create the server instance and store it on the app struct.
	app.httpServer = &http.Server{
		Addr:              addr,
		Handler:           app.healthMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := app.httpServer
	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe will return an error on graceful shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Closing health check server...")

	if app.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	// The run context may already be canceled, so shutdown gets its own deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(app.ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	app.httpServer = nil

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
