package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/devenv/internal/config"
	"github.com/specialistvlad/devenv/internal/ctxlog"
	"github.com/specialistvlad/devenv/internal/registry"
	"github.com/specialistvlad/devenv/internal/resolver"
	"github.com/specialistvlad/devenv/internal/shell"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	registry *registry.Registry
	resolver *resolver.Resolver
	runner   shell.Runner
}

// NewApp is the constructor for the main application. It builds an isolated
// logger and registry, registers the built-in modules (or the given ones),
// merges user-defined environments loaded from cfg.EnvironmentsPaths and
// validates the result. A nil runner means commands run through the shell.
func NewApp(logW io.Writer, cfg *Config, loader config.Loader, runner shell.Runner, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all user definitions into the format-agnostic model first.
	model, err := loader.Load(ctx, cfg.EnvironmentsPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load environments: %w", err)
	}
	logger.Debug("Environment files loaded.", "count", len(model.Environments))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	reg.PopulateFromModel(ctx, model)

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.", "environments", reg.Names())

	if runner == nil {
		runner = shell.NewExecRunner(cfg.CommandTimeout)
	}

	return &App{
		logger:   logger,
		registry: reg,
		resolver: resolver.New(runner, resolver.WithConcurrency(cfg.Concurrency)),
		runner:   runner,
	}, nil
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
