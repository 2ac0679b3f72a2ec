// Package instance lays out the repeated scene props (road segments and
// lamp posts) and lets the user switch between the full and reduced layout.
package instance

import (
	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/graphics"
	"github.com/rgscene/viewer/internal/platform"
)

// Layout places Count copies of a model along the z axis.
type Layout struct {
	Count   int
	Spacing float32
	Start   graphics.Vec3
	Scale   float32
}

var (
	DefaultRoad = Layout{Count: 20, Spacing: 12, Start: graphics.V3(5, -1, -20), Scale: 0.02}
	DefaultLamp = Layout{Count: 10, Spacing: 8, Start: graphics.V3(6, -0.7, -8), Scale: 0.015}

	// reduced layouts used while instancing is switched off
	fallbackRoad = Layout{Count: 3, Spacing: 12, Start: graphics.V3(5, -1, -3), Scale: 0.02}
	fallbackLamp = Layout{Count: 3, Spacing: 8, Start: graphics.V3(6, -0.7, -8), Scale: 0.015}
)

var _ controller.Controller = (*Controller)(nil)

type Controller struct {
	controller.Base

	Road                  Layout
	Lamp                  Layout
	UseInstancedRendering bool
	UseLampInstancing     bool

	reg      *registry.Registry
	log      *zap.Logger
	platform *platform.Controller
}

func New(reg *registry.Registry, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		Road:                  DefaultRoad,
		Lamp:                  DefaultLamp,
		UseInstancedRendering: true,
		UseLampInstancing:     true,
		reg:                   reg,
		log:                   log,
	}
}

func (c *Controller) Name() string { return "engine::graphics::InstanceController" }

func (c *Controller) Initialize() error {
	p, err := registry.Get[*platform.Controller](c.reg)
	if err != nil {
		return err
	}
	c.platform = p
	c.log.Info("instancing initialized",
		zap.Int("roads", c.Road.Count),
		zap.Int("lamps", c.Lamp.Count),
	)
	return nil
}

// PollEvents toggles road instancing on I and lamp instancing on L.
func (c *Controller) PollEvents() {
	if c.platform.Key(platform.KeyI).State == platform.KeyJustPressed {
		c.UseInstancedRendering = !c.UseInstancedRendering
		c.log.Debug("road instancing toggled", zap.Bool("enabled", c.UseInstancedRendering))
	}
	if c.platform.Key(platform.KeyL).State == platform.KeyJustPressed {
		c.UseLampInstancing = !c.UseLampInstancing
		c.log.Debug("lamp instancing toggled", zap.Bool("enabled", c.UseLampInstancing))
	}
}

// ActiveRoad returns the road layout currently in effect.
func (c *Controller) ActiveRoad() Layout {
	if c.UseInstancedRendering {
		return c.Road
	}
	return fallbackRoad
}

// ActiveLamp returns the lamp layout currently in effect.
func (c *Controller) ActiveLamp() Layout {
	if c.UseLampInstancing {
		return c.Lamp
	}
	return fallbackLamp
}

// RoadTransforms centres the road segments on the layout start.
func (c *Controller) RoadTransforms() []graphics.Mat4 {
	l := c.ActiveRoad()
	out := make([]graphics.Mat4, 0, l.Count)
	for i := 0; i < l.Count; i++ {
		offset := l.Spacing * (float32(i) - float32(l.Count)/2)
		pos := l.Start.Add(graphics.V3(0, 0, offset))
		out = append(out, graphics.Identity4().Translate(pos).Scaled(graphics.Uniform(l.Scale)))
	}
	return out
}

// LampTransforms places lamp posts from the layout start onwards. The model
// is authored z-up, hence the rotations.
func (c *Controller) LampTransforms() []graphics.Mat4 {
	l := c.ActiveLamp()
	out := make([]graphics.Mat4, 0, l.Count)
	for i := 0; i < l.Count; i++ {
		pos := l.Start.Add(graphics.V3(0, 0, l.Spacing*float32(i)))
		m := graphics.Identity4().
			Translate(pos).
			Rotate(graphics.Radians(-90), graphics.V3(1, 0, 0)).
			Scaled(graphics.Uniform(l.Scale)).
			Rotate(graphics.Radians(90), graphics.V3(0, 0, 1))
		out = append(out, m)
	}
	return out
}
