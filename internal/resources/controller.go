package resources

import (
	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/core/controller"
)

var _ controller.Controller = (*Controller)(nil)

// Controller loads the asset manifest. Lookups before Initialize return nil.
type Controller struct {
	controller.Base

	log      *zap.Logger
	path     string
	manifest *Manifest
}

// New returns a controller for the manifest at path; empty means built-in.
func New(path string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{log: log, path: path}
}

func (c *Controller) Name() string { return "engine::resources::ResourcesController" }

func (c *Controller) Initialize() error {
	m, err := LoadManifest(c.path)
	if err != nil {
		return err
	}
	c.manifest = m
	models, shaders, skyboxes := m.Counts()
	c.log.Info("assets loaded",
		zap.String("manifest", c.manifestName()),
		zap.Int("models", models),
		zap.Int("shaders", shaders),
		zap.Int("skyboxes", skyboxes),
	)
	return nil
}

func (c *Controller) manifestName() string {
	if c.path == "" {
		return "built-in"
	}
	return c.path
}

func (c *Controller) Model(name string) *Model {
	if c.manifest == nil {
		return nil
	}
	return c.manifest.Model(name)
}

func (c *Controller) Shader(name string) *Shader {
	if c.manifest == nil {
		return nil
	}
	return c.manifest.Shader(name)
}

func (c *Controller) Skybox(name string) *Skybox {
	if c.manifest == nil {
		return nil
	}
	return c.manifest.Skybox(name)
}
