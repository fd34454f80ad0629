package lua

import (
	"github.com/dokzlo13/fuelswitch/internal/editor"
	"github.com/dokzlo13/fuelswitch/internal/eventbus"
	"github.com/dokzlo13/fuelswitch/internal/info"
)

// RuntimeDeps groups all dependencies needed by Lua runtime.
// Bus, when set, feeds editor.on_switch handlers.
type RuntimeDeps struct {
	Editor    *editor.Editor
	Formatter *info.Formatter
	Bus       *eventbus.Bus
	ConfigDir string
}
