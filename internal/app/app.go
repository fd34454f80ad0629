package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/config"
)

const shutdownTimeout = 5 * time.Second

// App is the main application container that manages all services and their lifecycle.
type App struct {
	cfg      *config.Config
	services *Services
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a new App instance with all services initialized but not started.
func New(cfg *config.Config, configPath string) (*App, error) {
	services, err := NewServices(cfg, configPath)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
	}, nil
}

// Services exposes the wired services.
func (a *App) Services() *Services {
	return a.services
}

// Start starts all services.
// The provided context is used for cancellation.
func (a *App) Start(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.services.Start(a.ctx)
	log.Info().
		Int("part_types", len(a.services.Content.Types)).
		Int("switchable", len(a.services.Content.Registry.Types())).
		Msg("fuelswitch started")
}

// RunScript runs a session script, or the configured one when path is empty.
func (a *App) RunScript(path string) error {
	return a.services.Lua.RunScript(a.ctx, path)
}

// Stop gracefully shuts down all services.
func (a *App) Stop() error {
	log.Info().Msg("Shutting down...")

	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil {
		if a.services.Lua.done != nil {
			<-a.services.Lua.done
		}
		a.services.Close()
	}

	return nil
}

// ClearSavedCrafts removes every saved craft.
// This is useful for resetting state on startup with --reset-state flag.
func (a *App) ClearSavedCrafts() error {
	if a.services != nil {
		return a.services.ClearState()
	}
	return nil
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
