package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rgscene/viewer/internal/bloom"
	"github.com/rgscene/viewer/internal/config"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/graphics"
	"github.com/rgscene/viewer/internal/platform"
)

type fixture struct {
	gui      *Controller
	platform *platform.Controller
	gfx      *graphics.Controller
}

func setup(t *testing.T, script string) fixture {
	t.Helper()
	src, err := platform.ParseScript([]byte(script))
	require.NoError(t, err)

	reg := registry.New(nil)
	f := fixture{
		platform: platform.New(src, nil),
		gfx:      graphics.New(config.Default().Window, nil),
		gui:      New(reg, zaptest.NewLogger(t)),
	}
	_, err = registry.Register(reg, f.platform)
	require.NoError(t, err)
	_, err = registry.Register(reg, f.gfx)
	require.NoError(t, err)
	_, err = registry.Register(reg, f.gui)
	require.NoError(t, err)

	require.NoError(t, f.platform.Initialize())
	require.NoError(t, f.gfx.Initialize())
	require.NoError(t, f.gui.Initialize())
	return f
}

func TestDefaultLights(t *testing.T) {
	l := DefaultLights()
	assert.Equal(t, graphics.V3(1.0, -0.2, -0.2), l.Sun.Direction)
	for i, pl := range l.PointLights {
		assert.True(t, pl.Enabled)
		assert.InDelta(t, -8+8*float32(i), pl.Position.Z, 1e-6)
		assert.Equal(t, float32(0.032), pl.Quadratic)
	}
	assert.Equal(t, graphics.V3(11.364, 0.227, 5.843), l.SpotLights[0].Position)
	assert.Equal(t, graphics.V3(-0.227, -0.159, -1.0), l.SpotLights[1].Direction)
	assert.Equal(t, float32(9.654), l.SpotLights[1].OuterCutOff)
}

func TestInitializeHidesPanelAndCursor(t *testing.T) {
	f := setup(t, `[]`)
	assert.False(t, f.gui.Enabled())
	assert.False(t, f.platform.CursorEnabled())
	assert.Equal(t, "app::GuiController", f.gui.Name())
}

func TestF2Toggles(t *testing.T) {
	f := setup(t, `
- {frame: 1, key: f2}
- {frame: 2, key: f2, action: release}
- {frame: 3, key: f2}
`)
	frame := func() {
		f.platform.PollEvents()
		f.gui.PollEvents()
	}

	frame()
	assert.True(t, f.gui.Enabled())
	assert.True(t, f.platform.CursorEnabled())

	frame()
	assert.True(t, f.gui.Enabled(), "release does not toggle")

	frame()
	assert.False(t, f.gui.Enabled())
	assert.False(t, f.platform.CursorEnabled())
}

func TestDrawRecordsPanel(t *testing.T) {
	f := setup(t, `[]`)
	f.gfx.Camera().Position = graphics.V3(1, 2, 3)

	f.gfx.BeginDraw()
	f.gui.Draw()

	cmds := f.gfx.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, graphics.CmdGUIBegin, cmds[0].Kind)
	assert.Equal(t, graphics.CmdPanel, cmds[1].Kind)
	assert.Equal(t, graphics.CmdGUIEnd, cmds[2].Kind)

	p := f.gui.LastPanel()
	require.NotNil(t, p)
	assert.Equal(t, "Settings", p.Title)
	assert.Equal(t, graphics.V3(1, 2, 3), p.CameraPosition)
	assert.Same(t, p, cmds[1].Uniforms["panel"])
	assert.Nil(t, p.Bloom)
}

func TestPanelShowsBloomSettingsWhenRegistered(t *testing.T) {
	reg := registry.New(nil)
	src, err := platform.ParseScript([]byte(`[]`))
	require.NoError(t, err)
	gfx := graphics.New(config.Default().Window, nil)
	bl := bloom.New(reg, config.Default().Bloom, nil)
	g := New(reg, zaptest.NewLogger(t))
	for _, c := range []func() error{
		func() error { _, err := registry.Register(reg, platform.New(src, nil)); return err },
		func() error { _, err := registry.Register(reg, gfx); return err },
		func() error { _, err := registry.Register(reg, bl); return err },
		func() error { _, err := registry.Register(reg, g); return err },
	} {
		require.NoError(t, c())
	}
	require.NoError(t, registry.MustGet[*platform.Controller](reg).Initialize())
	require.NoError(t, g.Initialize())

	bl.Exposure = 1.4
	gfx.BeginDraw()
	g.Draw()

	p := g.LastPanel()
	require.NotNil(t, p.Bloom)
	assert.Equal(t, float32(1.4), p.Bloom.Exposure)
	assert.True(t, p.Bloom.Bloom)

	bl.Exposure = 0.5
	assert.Equal(t, float32(1.4), p.Bloom.Exposure, "panel holds a snapshot")
}

func TestTogglePointLight(t *testing.T) {
	c := New(nil, nil)
	on, err := c.TogglePointLight(1)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, c.PointLights[1].Enabled)

	_, err = c.TogglePointLight(3)
	assert.Error(t, err)
}
