package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/config"
	"github.com/dokzlo13/fuelswitch/internal/editor"
	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/info"
	luart "github.com/dokzlo13/fuelswitch/internal/lua"
)

// LuaService wraps the Lua runtime and provides thread-safe execution.
type LuaService struct {
	cfg     *config.Config
	Runtime *luart.Runtime
	done    chan struct{}
}

// NewLuaService creates a new LuaService. Script switch handlers are only
// wired when the bus delivers inline, since they must run on the Lua worker.
func NewLuaService(cfg *config.Config, ed *editor.Editor, formatter *info.Formatter, bus *eventbus.Bus, configDir string) *LuaService {
	deps := luart.RuntimeDeps{
		Editor:    ed,
		Formatter: formatter,
		ConfigDir: configDir,
	}
	if cfg.EventBus.Workers <= 0 {
		deps.Bus = bus
	} else {
		log.Warn().Int("workers", cfg.EventBus.Workers).Msg("Event bus is pooled, editor.on_switch handlers are disabled")
	}

	return &LuaService{
		cfg:     cfg,
		Runtime: luart.NewRuntime(deps),
	}
}

// Start begins the Lua worker goroutine.
func (s *LuaService) Start(ctx context.Context) {
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.Runtime.Run(ctx)
	}()
}

// RunScript runs path, or the configured script when path is empty.
func (s *LuaService) RunScript(ctx context.Context, path string) error {
	if path == "" {
		path = s.cfg.Script
	}
	return s.Runtime.RunScript(ctx, path)
}

// Close stops the worker and closes the Lua runtime.
func (s *LuaService) Close() {
	if s.Runtime == nil {
		return
	}
	s.Runtime.Close()
}
