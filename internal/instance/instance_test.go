package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/graphics"
	"github.com/rgscene/viewer/internal/platform"
)

func setup(t *testing.T, script string) (*Controller, *platform.Controller) {
	t.Helper()
	src, err := platform.ParseScript([]byte(script))
	require.NoError(t, err)

	reg := registry.New(nil)
	p := platform.New(src, nil)
	_, err = registry.Register(reg, p)
	require.NoError(t, err)
	c := New(reg, zaptest.NewLogger(t))
	_, err = registry.Register(reg, c)
	require.NoError(t, err)

	require.NoError(t, p.Initialize())
	require.NoError(t, c.Initialize())
	return c, p
}

func frame(p *platform.Controller, c *Controller) {
	p.PollEvents()
	c.PollEvents()
}

func TestDefaults(t *testing.T) {
	c := New(nil, nil)
	assert.Equal(t, 20, c.Road.Count)
	assert.Equal(t, graphics.V3(5, -1, -20), c.Road.Start)
	assert.Equal(t, 10, c.Lamp.Count)
	assert.Equal(t, float32(0.015), c.Lamp.Scale)
	assert.True(t, c.UseInstancedRendering)
	assert.True(t, c.UseLampInstancing)
	assert.Len(t, c.RoadTransforms(), 20)
	assert.Len(t, c.LampTransforms(), 10)
}

func TestToggles(t *testing.T) {
	c, p := setup(t, `
- {frame: 1, key: i}
- {frame: 3, key: i, action: release}
- {frame: 4, key: l}
- {frame: 5, key: i}
`)
	frame(p, c)
	assert.False(t, c.UseInstancedRendering)
	assert.Len(t, c.RoadTransforms(), 3)

	// held keys do not toggle again
	frame(p, c)
	frame(p, c)
	assert.False(t, c.UseInstancedRendering)

	frame(p, c)
	assert.False(t, c.UseLampInstancing)
	assert.Len(t, c.LampTransforms(), 3)

	frame(p, c)
	assert.True(t, c.UseInstancedRendering)
}

func TestRoadTransformsAreCentred(t *testing.T) {
	c := New(nil, nil)
	c.Road = Layout{Count: 4, Spacing: 10, Start: graphics.V3(1, 2, 0), Scale: 0.5}

	var zs []float32
	for _, m := range c.RoadTransforms() {
		pos := m.Translation()
		assert.Equal(t, float32(1), pos.X)
		assert.Equal(t, float32(2), pos.Y)
		zs = append(zs, pos.Z)
		assert.InDelta(t, 0.5, m.At(0, 0), 1e-6)
	}
	assert.Equal(t, []float32{-20, -10, 0, 10}, zs)
}

func TestLampTransforms(t *testing.T) {
	c := New(nil, nil)
	c.UseLampInstancing = false

	ms := c.LampTransforms()
	require.Len(t, ms, 3)
	for i, m := range ms {
		pos := m.Translation()
		assert.InDelta(t, 6, pos.X, 1e-5)
		assert.InDelta(t, -8+8*float32(i), pos.Z, 1e-5)
	}
}
