package resources

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_manifest.yaml
var defaultManifest []byte

// Model is a mesh asset.
type Model struct {
	Name string
	Path string
}

// Shader is a shader program; Path is the directory holding its stages.
type Shader struct {
	Name string
	Path string
}

// Skybox is a cube map; Path is the directory holding its six faces.
type Skybox struct {
	Name string
	Path string
}

type manifestFile struct {
	Models   map[string]string `yaml:"models"`
	Shaders  map[string]string `yaml:"shaders"`
	Skyboxes map[string]string `yaml:"skyboxes"`
}

// Manifest indexes every asset the viewer can reference by name.
type Manifest struct {
	models   map[string]*Model
	shaders  map[string]*Shader
	skyboxes map[string]*Skybox
}

// LoadManifest reads a manifest from a YAML file. An empty path selects the
// built-in manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return ParseManifest(defaultManifest)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset manifest: %w", err)
	}
	return ParseManifest(raw)
}

func ParseManifest(raw []byte) (*Manifest, error) {
	var f manifestFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse asset manifest: %w", err)
	}
	m := &Manifest{
		models:   make(map[string]*Model, len(f.Models)),
		shaders:  make(map[string]*Shader, len(f.Shaders)),
		skyboxes: make(map[string]*Skybox, len(f.Skyboxes)),
	}
	for name, path := range f.Models {
		if path == "" {
			return nil, fmt.Errorf("asset manifest: model %q has no path", name)
		}
		m.models[name] = &Model{Name: name, Path: path}
	}
	for name, path := range f.Shaders {
		if path == "" {
			return nil, fmt.Errorf("asset manifest: shader %q has no path", name)
		}
		m.shaders[name] = &Shader{Name: name, Path: path}
	}
	for name, path := range f.Skyboxes {
		if path == "" {
			return nil, fmt.Errorf("asset manifest: skybox %q has no path", name)
		}
		m.skyboxes[name] = &Skybox{Name: name, Path: path}
	}
	return m, nil
}

// Model returns a model by name, or nil if not found.
func (m *Manifest) Model(name string) *Model { return m.models[name] }

// Shader returns a shader by name, or nil if not found.
func (m *Manifest) Shader(name string) *Shader { return m.shaders[name] }

// Skybox returns a skybox by name, or nil if not found.
func (m *Manifest) Skybox(name string) *Skybox { return m.skyboxes[name] }

// Counts returns the number of models, shaders and skyboxes.
func (m *Manifest) Counts() (models, shaders, skyboxes int) {
	return len(m.models), len(m.shaders), len(m.skyboxes)
}
