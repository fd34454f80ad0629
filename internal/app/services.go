package app

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/config"
	"github.com/dokzlo13/fuelswitch/internal/db"
	"github.com/dokzlo13/fuelswitch/internal/editor"
	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/info"
	"github.com/dokzlo13/fuelswitch/internal/ledger"
	"github.com/dokzlo13/fuelswitch/internal/loader"
	"github.com/dokzlo13/fuelswitch/internal/storage"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	DB     *db.DB
	Ledger *ledger.Ledger
	Store  *storage.Store
	Crafts *storage.TypedStore[editor.CraftSnapshot]
	Bus    *eventbus.Bus

	// Load phase output
	Content   *loader.Result
	Formatter *info.Formatter

	Editor *editor.Editor
	Lua    *LuaService
}

// NewServices runs the load phase and creates all services.
func NewServices(cfg *config.Config, configPath string) (*Services, error) {
	s := &Services{cfg: cfg}

	content, err := loader.LoadDir(cfg.Content.Dir)
	if err != nil {
		return nil, err
	}
	s.Content = content
	s.Formatter = info.NewFormatter(cfg.InfoFormat, cfg.PrimaryInfoFormat)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database
	s.Ledger = ledger.New(database.DB)
	s.Store = storage.NewStore(database.DB)
	s.Crafts = storage.NewTypedStore[editor.CraftSnapshot](s.Store, editor.CraftKind)

	s.Bus = eventbus.NewWithConfig(cfg.EventBus.Workers, cfg.EventBus.GetQueueSize())
	s.Ledger.Subscribe(s.Bus)

	s.Editor = editor.New(s.Content, s.Bus, s.Crafts, s.Ledger)
	s.Lua = NewLuaService(cfg, s.Editor, s.Formatter, s.Bus, filepath.Dir(configPath))

	return s, nil
}

// Start starts the Lua worker.
func (s *Services) Start(ctx context.Context) {
	s.Lua.Start(ctx)
}

// ClearState removes every saved craft.
func (s *Services) ClearState() error {
	return s.Crafts.Clear()
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Lua != nil {
		s.Lua.Close()
	}
	if s.Bus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		s.Bus.Close(ctx)
		cancel()
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
