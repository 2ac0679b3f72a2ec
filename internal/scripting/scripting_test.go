package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rgscene/viewer/internal/bloom"
	"github.com/rgscene/viewer/internal/config"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/gui"
	"github.com/rgscene/viewer/internal/platform"
)

type fakeHost struct {
	toggled  []int
	exposure float32
}

func (h *fakeHost) TogglePointLight(i int) (bool, error) {
	h.toggled = append(h.toggled, i)
	return true, nil
}

func (h *fakeHost) SetExposure(x float32) { h.exposure = x }

func writeScripts(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	return dir
}

func TestEngineAPI(t *testing.T) {
	host := &fakeHost{}
	e, err := NewEngine(t.TempDir(), host, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.DoString(`
		assert(API_VERSION == 1)
		assert(viewer.toggle_point_light(2) == true)
		viewer.set_exposure(1.5)
		viewer.log("hello")
	`))
	assert.Equal(t, []int{1}, host.toggled)
	assert.Equal(t, float32(1.5), host.exposure)

	assert.Error(t, e.DoString(`viewer.set_exposure(-1)`))
	assert.Error(t, e.DoString(`viewer.toggle_point_light("x")`))
}

func TestEngineCall(t *testing.T) {
	dir := writeScripts(t, map[string]string{
		"a.lua":     `calls = 0; function on_update(frame, dt) calls = calls + frame end`,
		"b.lua":     `function boom() error("bad") end`,
		"notes.txt": `not lua`,
	})
	e, err := NewEngine(dir, &fakeHost{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	called, err := e.Call("on_update", 2, 0.016)
	require.NoError(t, err)
	assert.True(t, called)
	require.NoError(t, e.DoString(`assert(calls == 2)`))

	called, err = e.Call("on_init")
	assert.NoError(t, err)
	assert.False(t, called)

	_, err = e.Call("boom")
	assert.ErrorContains(t, err, "bad")

	assert.True(t, e.Has("on_update"))
	assert.False(t, e.Has("calls"))
}

func TestEngineLoadError(t *testing.T) {
	dir := writeScripts(t, map[string]string{"broken.lua": `function (`})
	_, err := NewEngine(dir, &fakeHost{}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "load scripts")
}

func TestMissingDirLoadsNothing(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), &fakeHost{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	e.Close()
}

type fixture struct {
	platform *platform.Controller
	gui      *gui.Controller
	bloom    *bloom.Controller
	script   *Controller
}

func setup(t *testing.T, dir string) *fixture {
	t.Helper()
	reg := registry.New(nil)
	f := &fixture{
		platform: platform.New(nil, nil),
		gui:      gui.New(reg, nil),
		bloom:    bloom.New(reg, config.Default().Bloom, nil),
		script:   New(reg, config.ScriptingConfig{Enabled: true, Dir: dir}, zaptest.NewLogger(t)),
	}
	for _, err := range []error{
		first(registry.Register(reg, f.platform)),
		first(registry.Register(reg, f.gui)),
		first(registry.Register(reg, f.bloom)),
		first(registry.Register(reg, f.script)),
	} {
		require.NoError(t, err)
	}
	return f
}

func first(_ *registry.Handle, err error) error { return err }

func TestControllerHooks(t *testing.T) {
	dir := writeScripts(t, map[string]string{"scene.lua": `
		function on_init() viewer.set_exposure(2.0) end
		function on_update(frame, dt)
			if frame == 2 then viewer.toggle_point_light(1) end
		end
		function on_terminate() viewer.log("bye") end
	`})
	f := setup(t, dir)

	require.NoError(t, f.script.Initialize())
	assert.Equal(t, float32(2.0), f.bloom.Exposure)

	f.script.Update()
	assert.True(t, f.gui.PointLights[0].Enabled)
	f.script.Update()
	assert.False(t, f.gui.PointLights[0].Enabled)

	assert.NoError(t, f.script.Terminate())
	assert.NoError(t, f.script.Terminate(), "second terminate is a no-op")
	assert.Equal(t, "app::ScriptController", f.script.Name())
}

func TestControllerInitFailure(t *testing.T) {
	dir := writeScripts(t, map[string]string{"init.lua": `function on_init() error("no scene") end`})
	f := setup(t, dir)
	assert.ErrorContains(t, f.script.Initialize(), "no scene")
}

func TestControllerUpdateErrorIsLogged(t *testing.T) {
	dir := writeScripts(t, map[string]string{"upd.lua": `function on_update() error("oops") end`})
	f := setup(t, dir)
	require.NoError(t, f.script.Initialize())
	assert.NotPanics(t, f.script.Update)
	assert.NoError(t, f.script.Terminate())
}
