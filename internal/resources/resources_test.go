package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBuiltinManifest(t *testing.T) {
	c := New("", zaptest.NewLogger(t))
	assert.Nil(t, c.Shader("basic"), "lookups before Initialize")

	require.NoError(t, c.Initialize())
	for _, name := range []string{"road_segment", "lamp_post", "light_bulb", "nissan"} {
		assert.NotNil(t, c.Model(name), name)
	}
	for _, name := range []string{"basic", "obj", "skybox", "uniform_color"} {
		assert.NotNil(t, c.Shader(name), name)
	}
	sky := c.Skybox("sunset_sb")
	require.NotNil(t, sky)
	assert.Equal(t, "resources/skyboxes/sunset", sky.Path)

	assert.Nil(t, c.Model("backpack"))
	assert.Nil(t, c.Shader("missing"))
}

func TestManifestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
models:
  cube: cube.obj
shaders:
  basic: shaders/basic
`), 0o644))

	c := New(path, nil)
	require.NoError(t, c.Initialize())
	assert.Equal(t, &Model{Name: "cube", Path: "cube.obj"}, c.Model("cube"))
	assert.Nil(t, c.Shader("uniform_color"))
	assert.Nil(t, c.Skybox("sunset_sb"))
}

func TestManifestErrors(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read asset manifest")

	_, err = ParseManifest([]byte("models: [1, 2"))
	assert.ErrorContains(t, err, "parse asset manifest")

	_, err = ParseManifest([]byte("shaders:\n  basic: \"\"\n"))
	assert.ErrorContains(t, err, `shader "basic" has no path`)

	c := New(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, c.Initialize())
}
