// Package scene is the viewer's main controller: it moves the camera from
// keyboard and pointer input and records the street scene each frame.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/bloom"
	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/graphics"
	"github.com/rgscene/viewer/internal/gui"
	"github.com/rgscene/viewer/internal/instance"
	"github.com/rgscene/viewer/internal/platform"
	"github.com/rgscene/viewer/internal/resources"
)

// cubeVertices is the vertex count of the unit test cube (6 faces, 2
// triangles each).
const cubeVertices = 36

var _ controller.Controller = (*Controller)(nil)

type Controller struct {
	controller.Base

	reg *registry.Registry
	log *zap.Logger

	platform  *platform.Controller
	gfx       *graphics.Controller
	resources *resources.Controller
	gui       *gui.Controller
	instance  *instance.Controller
	bloom     *bloom.Controller

	missing map[string]bool
}

func New(reg *registry.Registry, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{reg: reg, log: log, missing: make(map[string]bool)}
}

func (c *Controller) Name() string { return "app::MainController" }

func (c *Controller) Initialize() error {
	var err error
	if c.platform, err = registry.Get[*platform.Controller](c.reg); err != nil {
		return err
	}
	if c.gfx, err = registry.Get[*graphics.Controller](c.reg); err != nil {
		return err
	}
	if c.resources, err = registry.Get[*resources.Controller](c.reg); err != nil {
		return err
	}
	if c.gui, err = registry.Get[*gui.Controller](c.reg); err != nil {
		return err
	}
	if c.instance, err = registry.Get[*instance.Controller](c.reg); err != nil {
		return err
	}
	if c.bloom, err = registry.Get[*bloom.Controller](c.reg); err != nil {
		return err
	}

	c.platform.RegisterObserver(&mouseLook{c: c})
	c.log.Info("main controller initialized")
	return nil
}

// mouseLook turns the camera while the settings panel is hidden.
type mouseLook struct {
	platform.BaseObserver
	c *Controller
}

func (m *mouseLook) OnMouseMove(pos platform.MousePosition) {
	if m.c.gui.Enabled() {
		return
	}
	m.c.gfx.Camera().RotateCamera(pos.DX, pos.DY)
}

// Loop ends the program while Escape is held.
func (c *Controller) Loop() bool {
	return !c.platform.Key(platform.KeyEscape).IsDown()
}

func (c *Controller) Update() {
	c.updateCamera()
}

var moveKeys = []struct {
	key platform.KeyID
	dir graphics.Movement
}{
	{platform.KeyW, graphics.Forward},
	{platform.KeyS, graphics.Backward},
	{platform.KeyA, graphics.Left},
	{platform.KeyD, graphics.Right},
	{platform.KeyLeftShift, graphics.Down},
	{platform.KeySpace, graphics.Up},
}

func (c *Controller) updateCamera() {
	if c.gui.Enabled() {
		return
	}
	cam := c.gfx.Camera()
	dt := c.platform.Dt()
	for _, mk := range moveKeys {
		if c.platform.Key(mk.key).IsDown() {
			cam.MoveCamera(mk.dir, dt)
		}
	}
}

func (c *Controller) BeginDraw() {
	c.bloom.PrepareHDR()
}

func (c *Controller) Draw() {
	c.drawRoad()
	c.drawLampPosts()
	c.drawLightBulbs()
	c.drawCar()
	c.drawSkybox()
	c.drawTestCube()
}

func (c *Controller) EndDraw() {
	c.bloom.RenderBloom()
	c.bloom.FinalizeBloom()
	c.platform.SwapBuffers()
}

// assets returns the named model and shader, logging the first miss of
// each name. ok is false if either is missing.
func (c *Controller) assets(model, shader string) (*resources.Model, *resources.Shader, bool) {
	m := c.resources.Model(model)
	s := c.resources.Shader(shader)
	if m == nil {
		c.warnMissing("model", model)
	}
	if s == nil {
		c.warnMissing("shader", shader)
	}
	return m, s, m != nil && s != nil
}

func (c *Controller) warnMissing(kind, name string) {
	key := kind + ":" + name
	if c.missing[key] {
		return
	}
	c.missing[key] = true
	c.log.Warn("asset missing, skipping draw", zap.String("kind", kind), zap.String("name", name))
}

func (c *Controller) submit(model *resources.Model, shader *resources.Shader, u graphics.Uniforms, transform graphics.Mat4) {
	c.gfx.Submit(graphics.DrawCmd{
		Kind:     graphics.CmdMesh,
		Target:   model.Name,
		Shader:   shader.Name,
		Model:    transform,
		Uniforms: u,
	})
}

func (c *Controller) drawRoad() {
	model, shader, ok := c.assets("road_segment", "basic")
	if !ok {
		return
	}
	u := c.litUniforms(64)
	for _, m := range c.instance.RoadTransforms() {
		c.submit(model, shader, u, m)
	}
}

func (c *Controller) drawLampPosts() {
	model, shader, ok := c.assets("lamp_post", "basic")
	if !ok {
		return
	}
	u := c.litUniforms(32)
	for _, m := range c.instance.LampTransforms() {
		c.submit(model, shader, u, m)
	}
}

// drawLightBulbs draws a bulb at every enabled point light.
func (c *Controller) drawLightBulbs() {
	model, shader, ok := c.assets("light_bulb", "basic")
	if !ok {
		return
	}
	u := c.litUniforms(32)
	for _, pl := range c.gui.PointLights {
		if !pl.Enabled {
			continue
		}
		m := graphics.Identity4().
			Translate(pl.Position).
			Scaled(graphics.Uniform(0.8)).
			Rotate(graphics.Radians(90), graphics.V3(1, 0, 0))
		c.submit(model, shader, u, m)
	}
}

func (c *Controller) drawCar() {
	model, shader, ok := c.assets("nissan", "obj")
	if !ok {
		return
	}
	m := graphics.Identity4().
		Translate(graphics.V3(12, -0.1, 3)).
		Rotate(graphics.Radians(90), graphics.V3(0, 1, 0)).
		Scaled(graphics.Uniform(2))
	c.submit(model, shader, c.litUniforms(32), m)
}

func (c *Controller) drawSkybox() {
	c.gfx.DrawSkybox(c.resources.Shader("skybox"), c.resources.Skybox("sunset_sb"))
}

// drawTestCube is optional: without its shader nothing is drawn.
func (c *Controller) drawTestCube() {
	shader := c.resources.Shader("uniform_color")
	if shader == nil {
		return
	}
	cube := c.gui.Cube
	c.gfx.Submit(graphics.DrawCmd{
		Kind:   graphics.CmdMesh,
		Target: "test_cube",
		Shader: shader.Name,
		Model:  graphics.Identity4().Translate(cube.Position).Scaled(cube.Scale),
		Uniforms: graphics.Uniforms{
			"projection": c.gfx.ProjectionMatrix(),
			"view":       c.gfx.Camera().ViewMatrix(),
			"color":      cube.Color,
			"vertices":   cubeVertices,
		},
	})
}

// litUniforms binds camera, material and every light for the lit shaders.
func (c *Controller) litUniforms(shininess float32) graphics.Uniforms {
	cam := c.gfx.Camera()
	sun := c.gui.Sun
	u := graphics.Uniforms{
		"projection":         c.gfx.ProjectionMatrix(),
		"view":               cam.ViewMatrix(),
		"viewPos":            cam.Position,
		"dirLight.direction": sun.Direction,
		"dirLight.ambient":   sun.Ambient,
		"dirLight.diffuse":   sun.Diffuse,
		"dirLight.specular":  sun.Specular,
		"material.diffuse":   0,
		"material.specular":  1,
		"material.shininess": shininess,
	}
	for i, pl := range c.gui.PointLights {
		base := fmt.Sprintf("pointLights[%d]", i)
		u[base+".enabled"] = pl.Enabled
		u[base+".position"] = pl.Position
		u[base+".color"] = pl.Color
		u[base+".constant"] = pl.Constant
		u[base+".linear"] = pl.Linear
		u[base+".quadratic"] = pl.Quadratic
	}
	for i, sl := range c.gui.SpotLights {
		base := fmt.Sprintf("spotLights[%d]", i)
		u[base+".enabled"] = sl.Enabled
		u[base+".position"] = sl.Position
		u[base+".direction"] = sl.Direction
		u[base+".color"] = sl.Color
		u[base+".constant"] = sl.Constant
		u[base+".linear"] = sl.Linear
		u[base+".quadratic"] = sl.Quadratic
		u[base+".cutOff"] = sl.CutOff
		u[base+".outerCutOff"] = sl.OuterCutOff
	}
	return u
}
