// Package bloom keeps the HDR and bloom post-processing state and records
// its passes into the graphics command list.
package bloom

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/config"
	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/graphics"
)

// ErrReleased is returned by Terminate when the framebuffers are gone.
var ErrReleased = errors.New("bloom framebuffers already released")

// Settings are the user-tunable bloom parameters.
type Settings struct {
	Passes   int
	Exposure float32
	Bloom    bool // blur passes on; off composites the plain HDR scene
	Strength float32
}

// Framebuffer describes an offscreen render target.
type Framebuffer struct {
	Name        string
	Width       int
	Height      int
	Attachments int
}

var _ controller.Controller = (*Controller)(nil)

type Controller struct {
	controller.Base
	Settings

	reg *registry.Registry
	log *zap.Logger
	gfx *graphics.Controller

	hdr      *Framebuffer
	pingpong [2]*Framebuffer
	lastRun  int
}

func New(reg *registry.Registry, cfg config.BloomConfig, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		Settings: Settings{
			Passes:   cfg.Passes,
			Exposure: cfg.Exposure,
			Bloom:    cfg.Enabled,
			Strength: cfg.Strength,
		},
		reg: reg,
		log: log,
	}
}

func (c *Controller) Name() string { return "engine::graphics::BloomController" }

// Initialize allocates the HDR target (scene colour plus bright pass) and
// the two ping-pong blur targets at window size.
func (c *Controller) Initialize() error {
	gfx, err := registry.Get[*graphics.Controller](c.reg)
	if err != nil {
		return err
	}
	c.gfx = gfx

	w := gfx.Window()
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("bloom framebuffers need a window size, got %dx%d", w.Width, w.Height)
	}
	c.hdr = &Framebuffer{Name: "hdr", Width: w.Width, Height: w.Height, Attachments: 2}
	for i := range c.pingpong {
		c.pingpong[i] = &Framebuffer{
			Name:        fmt.Sprintf("pingpong%d", i),
			Width:       w.Width,
			Height:      w.Height,
			Attachments: 1,
		}
	}
	c.log.Info("bloom initialized",
		zap.Int("passes", c.Passes),
		zap.Float32("exposure", c.Exposure),
		zap.Bool("bloom", c.Bloom),
	)
	return nil
}

func (c *Controller) Terminate() error {
	if c.hdr == nil {
		return ErrReleased
	}
	c.hdr = nil
	c.pingpong = [2]*Framebuffer{}
	return nil
}

// Framebuffers returns the HDR target and the ping-pong pair, or nil when
// not allocated.
func (c *Controller) Framebuffers() []*Framebuffer {
	if c.hdr == nil {
		return nil
	}
	return []*Framebuffer{c.hdr, c.pingpong[0], c.pingpong[1]}
}

// PrepareHDR redirects the frame into the HDR target.
func (c *Controller) PrepareHDR() {
	if c.hdr == nil {
		return
	}
	c.gfx.Submit(graphics.DrawCmd{
		Kind:     graphics.CmdPass,
		Target:   c.hdr.Name,
		Uniforms: graphics.Uniforms{"clear": true},
	})
}

// RenderBloom blurs the bright pass, alternating horizontal and vertical
// passes between the ping-pong targets.
func (c *Controller) RenderBloom() {
	c.lastRun = 0
	if c.hdr == nil || !c.Bloom {
		return
	}
	for i := 0; i < c.Passes; i++ {
		horizontal := i%2 == 0
		c.gfx.Submit(graphics.DrawCmd{
			Kind:   graphics.CmdPass,
			Target: c.pingpong[i%2].Name,
			Shader: "bloom_blur",
			Uniforms: graphics.Uniforms{
				"horizontal":      horizontal,
				"first_iteration": i == 0,
			},
		})
	}
	c.lastRun = c.Passes
}

// FinalizeBloom composites the HDR scene with the blurred bright pass and
// tone-maps it to the screen.
func (c *Controller) FinalizeBloom() {
	if c.hdr == nil {
		return
	}
	c.gfx.Submit(graphics.DrawCmd{
		Kind:   graphics.CmdPass,
		Target: "screen",
		Shader: "bloom_final",
		Uniforms: graphics.Uniforms{
			"bloom":          c.Bloom,
			"exposure":       c.Exposure,
			"bloom_strength": c.Strength,
		},
	})
}

// PassesRendered is the blur pass count of the last RenderBloom call.
func (c *Controller) PassesRendered() int { return c.lastRun }
