package persist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/bloom"
	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/registry"
	"github.com/rgscene/viewer/internal/graphics"
	"github.com/rgscene/viewer/internal/gui"
	"github.com/rgscene/viewer/internal/platform"
)

// DefaultProfile names the settings row used when none is configured.
const DefaultProfile = "default"

const storeTimeout = 10 * time.Second

var _ controller.Controller = (*Controller)(nil)

// Controller restores the scene settings at startup and saves them at
// shutdown. It runs after the controllers whose state it restores.
type Controller struct {
	controller.Base

	reg     *registry.Registry
	log     *zap.Logger
	open    Opener
	profile string

	store    Store
	gui      *gui.Controller
	bloom    *bloom.Controller
	gfx      *graphics.Controller
	platform *platform.Controller
}

// Option configures a Controller.
type Option func(*Controller)

func WithProfile(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.profile = name
		}
	}
}

func New(reg *registry.Registry, open Opener, log *zap.Logger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{reg: reg, log: log, open: open, profile: DefaultProfile}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) Name() string { return "app::PersistController" }

func (c *Controller) Initialize() error {
	var err error
	if c.gui, err = registry.Get[*gui.Controller](c.reg); err != nil {
		return err
	}
	if c.bloom, err = registry.Get[*bloom.Controller](c.reg); err != nil {
		return err
	}
	if c.gfx, err = registry.Get[*graphics.Controller](c.reg); err != nil {
		return err
	}
	if c.platform, err = registry.Get[*platform.Controller](c.reg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	store, err := c.open(ctx)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	s, err := store.LoadSettings(ctx, c.profile)
	if err != nil {
		store.Close()
		return fmt.Errorf("load settings: %w", err)
	}
	c.store = store

	if s == nil {
		c.log.Info("no saved settings", zap.String("profile", c.profile))
		return nil
	}
	c.apply(s)
	c.log.Info("settings restored",
		zap.String("profile", c.profile),
		zap.Time("saved_at", s.UpdatedAt),
	)
	return nil
}

// Terminate saves the current settings. The store is closed either way.
func (c *Controller) Terminate() error {
	if c.store == nil {
		return nil
	}
	defer func() {
		c.store.Close()
		c.store = nil
	}()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	frames := c.platform.FramesPresented()
	if err := c.store.SaveSettings(ctx, c.profile, c.Snapshot(), frames); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	c.log.Info("settings saved", zap.String("profile", c.profile), zap.Uint64("frames", frames))
	return nil
}

// Snapshot captures the current scene settings.
func (c *Controller) Snapshot() *Settings {
	cam := c.gfx.Camera()
	return &Settings{
		CameraPosition: cam.Position,
		CameraYaw:      cam.Yaw,
		CameraPitch:    cam.Pitch,
		Bloom:          c.bloom.Settings,
		Lights:         c.gui.Lights,
	}
}

func (c *Controller) apply(s *Settings) {
	cam := c.gfx.Camera()
	cam.Position = s.CameraPosition
	cam.SetOrientation(s.CameraYaw, s.CameraPitch)
	c.bloom.Settings = s.Bloom
	c.gui.Lights = s.Lights
}
