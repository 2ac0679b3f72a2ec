package platform

import (
	"time"

	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/core/controller"
)

// MousePosition is the pointer position and its movement since the
// previous frame.
type MousePosition struct {
	X, Y   float32
	DX, DY float32
}

// Observer receives input changes during PollEvents.
type Observer interface {
	OnMouseMove(pos MousePosition)
	OnKey(id KeyID, state KeyState)
}

// BaseObserver implements Observer with no-ops; embed it and override what
// you need.
type BaseObserver struct{}

func (BaseObserver) OnMouseMove(MousePosition) {}
func (BaseObserver) OnKey(KeyID, KeyState)     {}

var _ controller.Controller = (*Controller)(nil)

// Controller owns input state and the frame clock. It is the first engine
// controller, so every other controller sees this frame's input.
type Controller struct {
	controller.Base

	log       *zap.Logger
	source    Source
	keys      [keyCount]Key
	deferred  [keyCount]bool // released in the same poll as pressed
	mouse     MousePosition
	observers []Observer
	cursor    bool

	now  func() time.Time
	last time.Time
	dt   float32

	swaps uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now for frame delta measurement.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func New(source Source, log *zap.Logger, opts ...Option) *Controller {
	if source == nil {
		source = NoneSource{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		log:    log,
		source: source,
		cursor: true,
		now:    time.Now,
	}
	for i := range c.keys {
		c.keys[i].ID = KeyID(i)
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) Name() string { return "engine::platform::PlatformController" }

func (c *Controller) Initialize() error {
	if err := c.source.Open(); err != nil {
		return err
	}
	c.last = c.now()
	c.log.Debug("platform initialized", zap.Bool("cursor", c.cursor))
	return nil
}

// PollEvents measures the frame delta, advances one-frame key states and
// applies this frame's input.
func (c *Controller) PollEvents() {
	now := c.now()
	c.dt = float32(now.Sub(c.last).Seconds())
	c.last = now

	for i := range c.keys {
		c.keys[i].advance()
	}
	for i, pending := range c.deferred {
		if pending {
			c.deferred[i] = false
			c.setKey(&c.keys[i], ActionRelease)
		}
	}
	c.mouse.DX, c.mouse.DY = 0, 0

	moved := false
	for _, ev := range c.source.Poll() {
		if ev.DX != 0 || ev.DY != 0 {
			c.mouse.X += ev.DX
			c.mouse.Y += ev.DY
			c.mouse.DX += ev.DX
			c.mouse.DY += ev.DY
			moved = true
		}
		if ev.Key <= KeyUnknown || ev.Key >= keyCount {
			continue
		}
		k := &c.keys[ev.Key]
		// a tap inside one poll still gets a frame as JustPressed
		if ev.Action == ActionRelease && k.State == KeyJustPressed {
			c.deferred[ev.Key] = true
			continue
		}
		if ev.Action == ActionPress {
			c.deferred[ev.Key] = false
		}
		c.setKey(k, ev.Action)
	}
	if moved {
		for _, o := range c.observers {
			o.OnMouseMove(c.mouse)
		}
	}
}

func (c *Controller) setKey(k *Key, a Action) {
	changed := false
	switch a {
	case ActionPress:
		changed = k.press()
	case ActionRelease:
		changed = k.release()
	}
	if changed {
		for _, o := range c.observers {
			o.OnKey(k.ID, k.State)
		}
	}
}

func (c *Controller) Terminate() error {
	c.log.Debug("platform terminated", zap.Uint64("frames_presented", c.swaps))
	return c.source.Close()
}

// Key returns the state of id this frame.
func (c *Controller) Key(id KeyID) Key {
	if id <= KeyUnknown || id >= keyCount {
		return Key{ID: KeyUnknown}
	}
	return c.keys[id]
}

func (c *Controller) Mouse() MousePosition { return c.mouse }

// Dt is the time between the last two PollEvents calls, in seconds.
func (c *Controller) Dt() float32 { return c.dt }

func (c *Controller) RegisterObserver(o Observer) {
	c.observers = append(c.observers, o)
}

func (c *Controller) SetCursorEnabled(enabled bool) { c.cursor = enabled }
func (c *Controller) CursorEnabled() bool           { return c.cursor }

// SwapBuffers presents the frame.
func (c *Controller) SwapBuffers() { c.swaps++ }

// FramesPresented counts SwapBuffers calls.
func (c *Controller) FramesPresented() uint64 { return c.swaps }
