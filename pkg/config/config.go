package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Config holds render and server settings shared by the CLI and web binaries
type Config struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Workers          int     `yaml:"workers"`   // 0 = one per CPU
	TileSize         int     `yaml:"tile_size"` // pixels per tile edge
	Seed             int64   `yaml:"seed"`
	OutputDir        string  `yaml:"output_dir,omitempty"`
	CacheDir         string  `yaml:"cache_dir,omitempty"` // empty disables the render cache
	LogLevel         string  `yaml:"log_level"`
	ProgressInterval float64 `yaml:"progress_interval"` // seconds, 0 disables progress lines
	Addr             string  `yaml:"addr,omitempty"`
}

// Default returns the settings used when neither a config file nor flags override them
func Default() *Config {
	return &Config{
		Width:            500,
		Height:           500,
		Workers:          0,
		TileSize:         32,
		Seed:             42,
		OutputDir:        "output",
		LogLevel:         "info",
		ProgressInterval: 2,
		Addr:             ":8080",
	}
}

// Load reads a YAML config file. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, xerrors.Errorf("while parsing %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as YAML
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports the first setting a render cannot start with
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return xerrors.Errorf("image size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Workers < 0 {
		return xerrors.Errorf("workers %d must not be negative", c.Workers)
	}
	if c.TileSize <= 0 {
		return xerrors.Errorf("tile size %d must be positive", c.TileSize)
	}
	if c.ProgressInterval < 0 {
		return xerrors.Errorf("progress interval %g must not be negative", c.ProgressInterval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel, treating an empty value as info
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, xerrors.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Progress returns ProgressInterval as a duration
func (c *Config) Progress() time.Duration {
	return time.Duration(c.ProgressInterval * float64(time.Second))
}
