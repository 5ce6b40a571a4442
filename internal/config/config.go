// Package config holds the boot configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "go.yaml.in/yaml/v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler" toml:"scheduler"`
	Keyboard  KeyboardConfig  `yaml:"keyboard" toml:"keyboard"`
	Timer     TimerConfig     `yaml:"timer" toml:"timer"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Host      HostConfig      `yaml:"host" toml:"host"`
}

// SchedulerConfig sizes the executor.
type SchedulerConfig struct {
	// ReadyCapacity bounds the ready queue. Overflowing it is fatal.
	ReadyCapacity int `yaml:"ready_capacity" toml:"ready_capacity"`
}

// KeyboardConfig controls the scan code queue and decoding.
type KeyboardConfig struct {
	QueueCapacity int `yaml:"queue_capacity" toml:"queue_capacity"`
	// Layout is "us104" or "uk105".
	Layout string `yaml:"layout" toml:"layout"`
}

// TimerConfig controls the tick queue and tick marks.
type TimerConfig struct {
	QueueCapacity int  `yaml:"queue_capacity" toml:"queue_capacity"`
	TickMarks     bool `yaml:"tick_marks" toml:"tick_marks"`
}

type LogConfig struct {
	Level   string `yaml:"level" toml:"level"`
	Console bool   `yaml:"console" toml:"console"`
	// OverflowPerSec limits queue overflow diagnostics. 0 logs every drop.
	OverflowPerSec int `yaml:"overflow_per_sec" toml:"overflow_per_sec"`
}

// HostConfig only applies to the hosted build.
type HostConfig struct {
	Hz       int    `yaml:"hz" toml:"hz"`
	Headless bool   `yaml:"headless" toml:"headless"`
	Ticks    uint64 `yaml:"ticks" toml:"ticks"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scheduler: SchedulerConfig{ReadyCapacity: 100},
		Keyboard:  KeyboardConfig{QueueCapacity: 100, Layout: "us104"},
		Timer:     TimerConfig{QueueCapacity: 100},
		Log:       LogConfig{Level: "info", OverflowPerSec: 10},
		Host:      HostConfig{Hz: 60},
	}
}

// Load reads and validates the file at path. Fields missing from the file keep
// their defaults. Files ending in .toml are decoded as TOML, anything else as
// YAML.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	parse := Parse
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parse = ParseTOML
	}
	cfg, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return finish(cfg)
}

// ParseTOML is Parse for TOML documents.
func ParseTOML(data []byte) (Config, error) {
	cfg := Default()
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("toml unmarshal: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("toml unmarshal: unknown key %q", undecoded[0].String())
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Keyboard.Layout = strings.ToLower(strings.TrimSpace(c.Keyboard.Layout))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Scheduler.ReadyCapacity < 1:
		return fmt.Errorf("%w: scheduler.ready_capacity must be >= 1", ErrInvalid)
	case c.Keyboard.QueueCapacity < 1:
		return fmt.Errorf("%w: keyboard.queue_capacity must be >= 1", ErrInvalid)
	case c.Timer.QueueCapacity < 1:
		return fmt.Errorf("%w: timer.queue_capacity must be >= 1", ErrInvalid)
	case c.Log.OverflowPerSec < 0:
		return fmt.Errorf("%w: log.overflow_per_sec must be >= 0", ErrInvalid)
	case c.Host.Hz < 1:
		return fmt.Errorf("%w: host.hz must be >= 1", ErrInvalid)
	}
	switch strings.ToLower(c.Keyboard.Layout) {
	case "us104", "uk105":
	default:
		return fmt.Errorf("%w: keyboard.layout %q", ErrInvalid, c.Keyboard.Layout)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}
