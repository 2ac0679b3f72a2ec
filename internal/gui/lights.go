package gui

import "github.com/rgscene/viewer/internal/graphics"

const (
	NumPointLights = 3
	NumSpotLights  = 2
)

// Sunlight is the directional light.
type Sunlight struct {
	Direction graphics.Vec3
	Ambient   graphics.Vec3
	Diffuse   graphics.Vec3
	Specular  graphics.Vec3
}

type PointLight struct {
	Enabled   bool
	Position  graphics.Vec3
	Color     graphics.Vec3
	Constant  float32
	Linear    float32
	Quadratic float32
}

// SpotLight cut-offs are cone half-angles in degrees.
type SpotLight struct {
	Enabled     bool
	Position    graphics.Vec3
	Direction   graphics.Vec3
	Color       graphics.Vec3
	Constant    float32
	Linear      float32
	Quadratic   float32
	CutOff      float32
	OuterCutOff float32
}

// TestCube is the flat-coloured marker cube.
type TestCube struct {
	Position graphics.Vec3
	Scale    graphics.Vec3
	Color    graphics.Vec3
}

// Lights is everything the settings panel edits.
type Lights struct {
	Sun         Sunlight
	PointLights [NumPointLights]PointLight
	SpotLights  [NumSpotLights]SpotLight
	Cube        TestCube
}

var warmWhite = graphics.V3(1.0, 0.9, 0.7)

// DefaultLights is the lighting of a fresh scene: street lamps above each
// lamp post and the car's two headlights.
func DefaultLights() Lights {
	l := Lights{
		Sun: Sunlight{
			Direction: graphics.V3(1.0, -0.2, -0.2),
			Ambient:   graphics.V3(0.4, 0.35, 0.2),
			Diffuse:   graphics.V3(1.2, 1.0, 0.8),
			Specular:  graphics.V3(1.0, 0.95, 0.9),
		},
		Cube: TestCube{
			Position: graphics.V3(8, 0.5, 0),
			Scale:    graphics.Uniform(0.5),
			Color:    graphics.V3(1.0, 0.5, 0.2),
		},
	}
	for i := range l.PointLights {
		l.PointLights[i] = PointLight{
			Enabled:   true,
			Position:  graphics.V3(6.71111, 1.95, -8.0+8.0*float32(i)),
			Color:     warmWhite,
			Constant:  1.0,
			Linear:    0.09,
			Quadratic: 0.032,
		}
	}
	headlight := SpotLight{
		Enabled:     true,
		Color:       warmWhite,
		Constant:    0.169,
		Linear:      0.001,
		Quadratic:   0.001,
		CutOff:      7.083,
		OuterCutOff: 9.654,
	}
	l.SpotLights[0] = headlight
	l.SpotLights[0].Position = graphics.V3(11.364, 0.227, 5.843)
	l.SpotLights[0].Direction = graphics.V3(0.227, -0.159, -1.0)
	l.SpotLights[1] = headlight
	l.SpotLights[1].Position = graphics.V3(12.464, 0.227, 5.843)
	l.SpotLights[1].Direction = graphics.V3(-0.227, -0.159, -1.0)
	return l
}
