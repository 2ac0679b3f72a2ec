package graphics

import "github.com/chewxy/math32"

// Movement is a camera translation direction.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

const (
	defaultYaw         = -90
	defaultSpeed       = 2.5
	defaultSensitivity = 0.1
	maxPitch           = 89
)

var worldUp = Vec3{0, 1, 0}

// Camera is a free-fly camera steered by yaw and pitch in degrees.
type Camera struct {
	Position    Vec3
	Yaw, Pitch  float32
	Speed       float32 // units per second
	Sensitivity float32 // degrees per pointer unit

	front, right, up Vec3
}

func NewCamera(pos Vec3) *Camera {
	c := &Camera{
		Position:    pos,
		Yaw:         defaultYaw,
		Speed:       defaultSpeed,
		Sensitivity: defaultSensitivity,
	}
	c.updateVectors()
	return c
}

func (c *Camera) Front() Vec3 { return c.front }
func (c *Camera) Right() Vec3 { return c.right }

// MoveCamera moves along the view axes; Up and Down use the world up axis.
func (c *Camera) MoveCamera(dir Movement, dt float32) {
	v := c.Speed * dt
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.front.Scale(v))
	case Backward:
		c.Position = c.Position.Sub(c.front.Scale(v))
	case Left:
		c.Position = c.Position.Sub(c.right.Scale(v))
	case Right:
		c.Position = c.Position.Add(c.right.Scale(v))
	case Up:
		c.Position = c.Position.Add(worldUp.Scale(v))
	case Down:
		c.Position = c.Position.Sub(worldUp.Scale(v))
	}
}

// RotateCamera applies a pointer delta. Pointer y grows downwards, so a
// positive dy pitches the view down. Pitch is clamped short of the poles.
func (c *Camera) RotateCamera(dx, dy float32) {
	c.SetOrientation(c.Yaw+dx*c.Sensitivity, c.Pitch-dy*c.Sensitivity)
}

// SetOrientation sets yaw and pitch in degrees, clamping pitch.
func (c *Camera) SetOrientation(yaw, pitch float32) {
	c.Yaw = yaw
	c.Pitch = math32.Max(-maxPitch, math32.Min(maxPitch, pitch))
	c.updateVectors()
}

func (c *Camera) ViewMatrix() Mat4 {
	return LookAt(c.Position, c.Position.Add(c.front), c.up)
}

func (c *Camera) updateVectors() {
	yaw, pitch := Radians(c.Yaw), Radians(c.Pitch)
	c.front = Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normal()
	c.right = c.front.Cross(worldUp).Normal()
	c.up = c.right.Cross(c.front).Normal()
}
