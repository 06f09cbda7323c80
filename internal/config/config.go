// Package config loads the editor settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvService overrides Service.BaseURL when set.
const EnvService = "CIRCUIT_SKETCH_SERVICE"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full settings file.
type Config struct {
	Service ServiceConfig `toml:"service"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Report  ReportConfig  `toml:"report"`
}

// ServiceConfig locates the analysis service.
type ServiceConfig struct {
	BaseURL  string   `toml:"base_url"`
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

// URL joins the base URL and the analysis endpoint.
func (s ServiceConfig) URL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(s.Endpoint, "/")
}

// CanvasConfig sizes the drawing surface and new elements.
type CanvasConfig struct {
	Width         int      `toml:"width"`
	Height        int      `toml:"height"`
	ElementWidth  float64  `toml:"element_width"`
	ElementHeight float64  `toml:"element_height"`
	DoubleTap     Duration `toml:"double_tap"`
}

// ReportConfig controls the results view.
type ReportConfig struct {
	StatisticsLimit int `toml:"statistics_limit"`
	ChartWidth      int `toml:"chart_width"`
	ChartHeight     int `toml:"chart_height"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL:  "http://localhost:5001",
			Endpoint: "/process-netlist",
			Timeout:  Duration{30 * time.Second},
		},
		Canvas: CanvasConfig{
			Width:         800,
			Height:        600,
			ElementWidth:  50,
			ElementHeight: 20,
			DoubleTap:     Duration{500 * time.Millisecond},
		},
		Report: ReportConfig{
			StatisticsLimit: 15,
			ChartWidth:      480,
			ChartHeight:     240,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "circuit-sketch", "config.toml"), nil
}

// Load reads path over the defaults. An empty path means DefaultPath. A
// missing file is not an error. The environment override is applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Default(), fmt.Errorf("read %s: %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without touching the
// environment.
func Parse(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvService)); v != "" {
		c.Service.BaseURL = v
	}
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: service.base_url %q is not an absolute URL", ErrInvalid, c.Service.BaseURL)
	}
	if c.Service.Timeout.Duration <= 0 {
		return fmt.Errorf("%w: service.timeout must be positive", ErrInvalid)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.ElementWidth <= 0 || c.Canvas.ElementHeight <= 0 {
		return fmt.Errorf("%w: element size %gx%g", ErrInvalid, c.Canvas.ElementWidth, c.Canvas.ElementHeight)
	}
	if c.Canvas.DoubleTap.Duration <= 0 {
		return fmt.Errorf("%w: canvas.double_tap must be positive", ErrInvalid)
	}
	if c.Report.StatisticsLimit < 1 {
		return fmt.Errorf("%w: report.statistics_limit must be at least 1", ErrInvalid)
	}
	if c.Report.ChartWidth <= 0 || c.Report.ChartHeight <= 0 {
		return fmt.Errorf("%w: chart size %dx%d", ErrInvalid, c.Report.ChartWidth, c.Report.ChartHeight)
	}
	return nil
}
