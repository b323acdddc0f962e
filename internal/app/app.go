package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/components"
	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/document"
	"github.com/specialistvlad/propgraph/internal/localsession"
	"github.com/specialistvlad/propgraph/internal/metrics"
	"github.com/specialistvlad/propgraph/internal/render"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx      context.Context
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	format   render.Format
	loader   document.Loader
	registry *component.Registry

	promRegistry *prometheus.Registry
	metrics      *metrics.Metrics

	// factory is nil in remote mode.
	factory *localsession.SessionFactory

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results go to outW and
// logs to logW. A document that fails to load or instantiate is a fatal
// startup error, so NewApp panics; entrypoints recover and report it.
func NewApp(outW, logW io.Writer, cfg *Config, loader document.Loader, modules ...component.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	format, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		panic(err)
	}

	reg := component.NewRegistry()
	if len(modules) == 0 {
		modules = []component.Module{components.Module{}}
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	if err := reg.Validate(ctx); err != nil {
		// This is a programmer error (a broken component catalog), so we panic.
		panic(err)
	}
	logger.Debug("Component registry validated.", "types", reg.Types())

	promRegistry := prometheus.NewRegistry()
	a := &App{
		ctx:          ctx,
		outW:         outW,
		logger:       logger,
		config:       cfg,
		format:       format,
		loader:       loader,
		registry:     reg,
		promRegistry: promRegistry,
		metrics:      metrics.New(promRegistry),
	}

	if cfg.Remote != "" {
		logger.Debug("Remote mode, skipping local document load.", "remote", cfg.Remote)
		return a
	}

	factory, err := a.loadFactory(ctx)
	if err != nil {
		panic(err)
	}
	a.factory = factory
	return a
}

// loadFactory loads the document from disk and checks that it instantiates.
func (a *App) loadFactory(ctx context.Context) (*localsession.SessionFactory, error) {
	tree, err := a.loader.Load(ctx, a.config.DocPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	a.logger.Debug("Document loaded.", "path", a.config.DocPath, "nodes", len(tree.Nodes))

	factory, err := localsession.NewSessionFactory(ctx, tree, a.registry, a.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate document: %w", err)
	}
	return factory, nil
}

// Registry returns the application's component registry. This is primarily for testing.
func (a *App) Registry() *component.Registry {
	return a.registry
}

// Gatherer exposes the application's metrics. This is primarily for testing.
func (a *App) Gatherer() prometheus.Gatherer {
	return a.promRegistry
}
