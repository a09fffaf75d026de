package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full runtime configuration
type Config struct {
	Boid   BoidConfig   `yaml:"boid"`
	Shape  ShapeConfig  `yaml:"shape"`
	Render RenderConfig `yaml:"render"`
	Audio  AudioConfig  `yaml:"audio"`
	Log    LogConfig    `yaml:"log"`
}

type BoidConfig struct {
	Speed   float64 `yaml:"speed"`
	BankDeg float64 `yaml:"bank_deg"`
	Gravity float64 `yaml:"gravity"`
	StartX  float64 `yaml:"start_x"`
	StartY  float64 `yaml:"start_y"`
	TargetY float64 `yaml:"target_y"`
}

type ShapeConfig struct {
	Width       float64 `yaml:"width"`
	Length      float64 `yaml:"length"`
	DebugExtend float64 `yaml:"debug_extend"`
}

type RenderConfig struct {
	FPS     int  `yaml:"fps"`
	Overlay bool `yaml:"overlay"`
	Tint    bool `yaml:"tint"`
	Status  bool `yaml:"status"`
}

type AudioConfig struct {
	Chime      bool    `yaml:"chime"`
	Frequency  float64 `yaml:"frequency"`
	DurationMs int     `yaml:"duration_ms"`
}

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

// Load reads path over the embedded defaults, empty path yields defaults only
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only keys present in the file overwrite defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the embedded configuration
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Validate rejects values the turn model or frame loop cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Boid.Speed <= 0 {
		errs = append(errs, fmt.Errorf("boid.speed must be positive, got %v", c.Boid.Speed))
	}
	if c.Boid.BankDeg <= 0 || c.Boid.BankDeg >= 90 {
		errs = append(errs, fmt.Errorf("boid.bank_deg must be in (0, 90), got %v", c.Boid.BankDeg))
	}
	if c.Boid.Gravity <= 0 {
		errs = append(errs, fmt.Errorf("boid.gravity must be positive, got %v", c.Boid.Gravity))
	}
	if c.Render.FPS <= 0 {
		errs = append(errs, fmt.Errorf("render.fps must be positive, got %d", c.Render.FPS))
	}
	if c.Shape.Width < 0 || c.Shape.Length < 0 {
		errs = append(errs, errors.New("shape dimensions must not be negative"))
	}
	if c.Audio.Chime && (c.Audio.Frequency <= 0 || c.Audio.DurationMs <= 0) {
		errs = append(errs, errors.New("audio.frequency and audio.duration_ms must be positive when chime is on"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// FrameInterval is the nominal frame period
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Render.FPS)
}

// StepSeconds is the fixed simulation step handed to the turn model
func (c *Config) StepSeconds() float64 {
	return 1.0 / float64(c.Render.FPS)
}

// ChimeDuration is the bell length
func (c *Config) ChimeDuration() time.Duration {
	return time.Duration(c.Audio.DurationMs) * time.Millisecond
}

// WriteYAML dumps the effective configuration
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
