// Package gui holds the scene lighting and the settings panel that edits
// it. The panel is hidden at startup; F2 shows it and frees the cursor.
package gui

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/bloom"
	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/graphics"
	"github.com/rgscene/viewer/internal/platform"
)

// Panel is what one Draw shows.
type Panel struct {
	Title          string
	CameraPosition graphics.Vec3
	Lights         Lights
	Bloom          *bloom.Settings // nil without a bloom controller
}

var _ controller.Controller = (*Controller)(nil)

type Controller struct {
	controller.Base
	Lights

	reg      *registry.Registry
	log      *zap.Logger
	platform *platform.Controller
	gfx      *graphics.Controller
	bloom    *bloom.Controller
	panel    *Panel
}

func New(reg *registry.Registry, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{Lights: DefaultLights(), reg: reg, log: log}
}

func (c *Controller) Name() string { return "app::GuiController" }

func (c *Controller) Initialize() error {
	p, err := registry.Get[*platform.Controller](c.reg)
	if err != nil {
		return err
	}
	gfx, err := registry.Get[*graphics.Controller](c.reg)
	if err != nil {
		return err
	}
	c.platform, c.gfx = p, gfx
	if b, ok := registry.Lookup[*bloom.Controller](c.reg); ok {
		c.bloom = b
	}

	c.SetEnabled(false)
	c.platform.SetCursorEnabled(false)
	return nil
}

// PollEvents runs while the panel is hidden too; that is how F2 brings it
// back.
func (c *Controller) PollEvents() {
	if c.platform.Key(platform.KeyF2).State != platform.KeyJustPressed {
		return
	}
	c.SetEnabled(!c.Enabled())
	c.platform.SetCursorEnabled(c.Enabled())
	c.log.Debug("settings panel toggled", zap.Bool("visible", c.Enabled()))
}

func (c *Controller) Draw() {
	c.gfx.BeginGUI()
	p := &Panel{
		Title:          "Settings",
		CameraPosition: c.gfx.Camera().Position,
		Lights:         c.Lights,
	}
	if c.bloom != nil {
		settings := c.bloom.Settings
		p.Bloom = &settings
	}
	c.gfx.Submit(graphics.DrawCmd{
		Kind:     graphics.CmdPanel,
		Target:   p.Title,
		Uniforms: graphics.Uniforms{"panel": p},
	})
	c.gfx.EndGUI()
	c.panel = p
}

// LastPanel returns the most recently drawn panel, or nil.
func (c *Controller) LastPanel() *Panel { return c.panel }

// TogglePointLight flips point light i and returns its new state.
func (c *Controller) TogglePointLight(i int) (bool, error) {
	if i < 0 || i >= NumPointLights {
		return false, fmt.Errorf("point light %d out of range [0,%d)", i, NumPointLights)
	}
	c.PointLights[i].Enabled = !c.PointLights[i].Enabled
	return c.PointLights[i].Enabled, nil
}
