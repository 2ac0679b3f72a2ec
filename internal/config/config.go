package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is used when neither --config nor VIEWER_CONFIG is given.
const DefaultPath = "config/viewer.toml"

type Config struct {
	Viewer    ViewerConfig    `toml:"viewer"`
	Window    WindowConfig    `toml:"window"`
	Input     InputConfig     `toml:"input"`
	Assets    AssetsConfig    `toml:"assets"`
	Bloom     BloomConfig     `toml:"bloom"`
	Scripting ScriptingConfig `toml:"scripting"`
	Database  DatabaseConfig  `toml:"database"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ViewerConfig struct {
	Name      string        `toml:"name"`
	FrameRate time.Duration `toml:"frame_rate"` // 0 = unthrottled
	MaxFrames uint64        `toml:"max_frames"` // 0 = until ESC / signal
}

type WindowConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	FOV    float32 `toml:"fov"` // degrees
	Near   float32 `toml:"near"`
	Far    float32 `toml:"far"`
}

type InputConfig struct {
	Source string `toml:"source"` // "terminal", "script" or "none"
	Script string `toml:"script"` // YAML input script when Source == "script"
}

type AssetsConfig struct {
	Manifest string `toml:"manifest"` // empty = built-in manifest
}

type BloomConfig struct {
	Passes   int     `toml:"passes"`
	Exposure float32 `toml:"exposure"`
	Enabled  bool    `toml:"enabled"`
	Strength float32 `toml:"strength"`
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables settings persistence
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type MetricsConfig struct {
	Listen string `toml:"listen"` // empty = no /metrics endpoint
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads path over the defaults. A missing file is only an error when
// the caller asked for a specific path (required).
func Load(path string, required bool) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values a controller cannot recover from at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Near <= 0 || c.Window.Far <= c.Window.Near {
		errs = append(errs, fmt.Errorf("clip planes near=%v far=%v are invalid", c.Window.Near, c.Window.Far))
	}
	switch c.Input.Source {
	case "terminal", "none":
	case "script":
		if c.Input.Script == "" {
			errs = append(errs, errors.New("input.source=script needs input.script"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown input source %q", c.Input.Source))
	}
	if c.Bloom.Passes < 0 {
		errs = append(errs, fmt.Errorf("bloom passes %d must not be negative", c.Bloom.Passes))
	}
	if c.Viewer.FrameRate < 0 {
		errs = append(errs, fmt.Errorf("frame rate %s must not be negative", c.Viewer.FrameRate))
	}
	return errors.Join(errs...)
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

func defaults() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Name:      "RG Scene Viewer",
			FrameRate: 16 * time.Millisecond,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			FOV:    45,
			Near:   0.1,
			Far:    100,
		},
		Input: InputConfig{
			Source: "terminal",
		},
		Bloom: BloomConfig{
			Passes:   25,
			Exposure: 0.9,
			Enabled:  true,
			Strength: 1.0,
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
