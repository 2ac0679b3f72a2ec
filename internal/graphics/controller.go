package graphics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/config"
	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/resources"
)

var _ controller.Controller = (*Controller)(nil)

// Controller owns the camera, the projection and the frame's command list.
// Rendering is headless: commands are recorded, not executed.
type Controller struct {
	controller.Base

	log    *zap.Logger
	window config.WindowConfig
	camera *Camera

	cmds  []DrawCmd
	prev  []DrawCmd
	inGUI bool
}

func New(window config.WindowConfig, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		log:    log,
		window: window,
		camera: NewCamera(V3(0, 0, 3)),
	}
}

func (c *Controller) Name() string { return "engine::graphics::GraphicsController" }

func (c *Controller) Initialize() error {
	if c.window.Width <= 0 || c.window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.window.Width, c.window.Height)
	}
	if c.window.Near <= 0 || c.window.Far <= c.window.Near {
		return fmt.Errorf("invalid clip planes near=%v far=%v", c.window.Near, c.window.Far)
	}
	c.log.Info("graphics initialized",
		zap.Int("width", c.window.Width),
		zap.Int("height", c.window.Height),
		zap.Float32("fov", c.window.FOV),
	)
	return nil
}

// BeginDraw starts a new command list; the finished one stays readable
// through LastFrame.
func (c *Controller) BeginDraw() {
	c.prev = c.cmds
	c.cmds = make([]DrawCmd, 0, len(c.prev))
	c.inGUI = false
}

func (c *Controller) Camera() *Camera { return c.camera }

func (c *Controller) Window() config.WindowConfig { return c.window }

func (c *Controller) ProjectionMatrix() Mat4 {
	aspect := float32(c.window.Width) / float32(c.window.Height)
	return Perspective(Radians(c.window.FOV), aspect, c.window.Near, c.window.Far)
}

func (c *Controller) Submit(cmd DrawCmd) { c.cmds = append(c.cmds, cmd) }

// DrawSkybox records the skybox with the camera's rotation only. Missing
// assets are skipped.
func (c *Controller) DrawSkybox(shader *resources.Shader, sky *resources.Skybox) {
	if shader == nil || sky == nil {
		return
	}
	view := c.camera.ViewMatrix()
	view[12], view[13], view[14] = 0, 0, 0
	c.Submit(DrawCmd{
		Kind:   CmdSkybox,
		Target: sky.Name,
		Shader: shader.Name,
		Model:  Identity4(),
		Uniforms: Uniforms{
			"projection": c.ProjectionMatrix(),
			"view":       view,
		},
	})
}

// BeginGUI opens a GUI frame. Nested calls are ignored.
func (c *Controller) BeginGUI() {
	if c.inGUI {
		return
	}
	c.inGUI = true
	c.Submit(DrawCmd{Kind: CmdGUIBegin})
}

func (c *Controller) EndGUI() {
	if !c.inGUI {
		return
	}
	c.inGUI = false
	c.Submit(DrawCmd{Kind: CmdGUIEnd})
}

// Commands returns a copy of the list recorded so far this frame.
func (c *Controller) Commands() []DrawCmd {
	return append([]DrawCmd(nil), c.cmds...)
}

// LastFrame returns a copy of the previous frame's complete list.
func (c *Controller) LastFrame() []DrawCmd {
	return append([]DrawCmd(nil), c.prev...)
}
