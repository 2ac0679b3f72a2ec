package scripting

import (
	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/bloom"
	"github.com/rgscene/viewer/internal/config"
	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/gui"
	"github.com/rgscene/viewer/internal/platform"
)

var _ controller.Controller = (*Controller)(nil)

// Controller runs user Lua scripts against the scene. Scripts may define
// on_init(), on_update(frame, dt) and on_terminate().
type Controller struct {
	controller.Base

	reg *registry.Registry
	log *zap.Logger
	dir string

	engine   *Engine
	platform *platform.Controller
	gui      *gui.Controller
	bloom    *bloom.Controller
	frame    uint64
}

func New(reg *registry.Registry, cfg config.ScriptingConfig, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{reg: reg, log: log, dir: cfg.Dir}
}

func (c *Controller) Name() string { return "app::ScriptController" }

// Initialize loads the scripts and runs on_init. A failing on_init aborts
// startup.
func (c *Controller) Initialize() error {
	var err error
	if c.platform, err = registry.Get[*platform.Controller](c.reg); err != nil {
		return err
	}
	if c.gui, err = registry.Get[*gui.Controller](c.reg); err != nil {
		return err
	}
	if c.bloom, err = registry.Get[*bloom.Controller](c.reg); err != nil {
		return err
	}

	eng, err := NewEngine(c.dir, c, c.log)
	if err != nil {
		return err
	}
	if _, err := eng.Call("on_init"); err != nil {
		eng.Close()
		return err
	}
	c.engine = eng
	c.log.Info("scripts loaded",
		zap.String("dir", c.dir),
		zap.Bool("on_update", eng.Has("on_update")),
	)
	return nil
}

// Update calls on_update. Script errors are logged; the frame goes on.
func (c *Controller) Update() {
	c.frame++
	if _, err := c.engine.Call("on_update", float64(c.frame), float64(c.platform.Dt())); err != nil {
		c.log.Error("lua on_update error", zap.Uint64("frame", c.frame), zap.Error(err))
	}
}

func (c *Controller) Terminate() error {
	if c.engine == nil {
		return nil
	}
	_, err := c.engine.Call("on_terminate")
	c.engine.Close()
	c.engine = nil
	return err
}

func (c *Controller) TogglePointLight(i int) (bool, error) {
	return c.gui.TogglePointLight(i)
}

func (c *Controller) SetExposure(x float32) {
	c.bloom.Exposure = x
}
