// Package config loads tellopilot settings from an optional YAML file,
// with environment variable overrides for the values most often changed
// in the field (drone address, speed cap).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultDroneAddr   = "192.168.10.1"
	DefaultDronePort   = 8889
	DefaultLocalPort   = 8800
	DefaultSpeed       = 50
	DefaultTickMillis  = 50
	DefaultViewWidth   = 960
	DefaultViewHeight  = 720
	DefaultSnapshotDir = "snapshots"
	DefaultDashPort    = "8088"
)

// Drone holds the control-link settings.
type Drone struct {
	Addr      string `yaml:"addr"`
	Port      int    `yaml:"port"`
	LocalPort int    `yaml:"local_port"`
}

// Gamepad selects the HID device and its control layout.
type Gamepad struct {
	Device   int   `yaml:"device"`
	MoveHat  uint8 `yaml:"move_hat"`
	LiftHat  uint8 `yaml:"lift_hat"`
	Takeoff  uint8 `yaml:"takeoff_button"`
	Land     uint8 `yaml:"land_button"`
	Snapshot uint8 `yaml:"snapshot_button"`
}

// Pilot tunes the flight loop.
type Pilot struct {
	Speed      int `yaml:"speed"`       // stick percent cap, 1..100
	TickMillis int `yaml:"tick_millis"` // loop period
}

// Video tunes the frame pipeline.
type Video struct {
	ViewWidth    int    `yaml:"view_width"`
	ViewHeight   int    `yaml:"view_height"`
	SnapshotDir  string `yaml:"snapshot_dir"`
	DecodeMillis int    `yaml:"decode_millis"` // min interval between decodes
}

// Dashboard configures the optional web telemetry server.
type Dashboard struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

// Config is the full tellopilot configuration.
type Config struct {
	LogLevel  string    `yaml:"log_level"`
	Drone     Drone     `yaml:"drone"`
	Gamepad   Gamepad   `yaml:"gamepad"`
	Pilot     Pilot     `yaml:"pilot"`
	Video     Video     `yaml:"video"`
	Dashboard Dashboard `yaml:"dashboard"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Drone: Drone{
			Addr:      DefaultDroneAddr,
			Port:      DefaultDronePort,
			LocalPort: DefaultLocalPort,
		},
		Gamepad: Gamepad{
			Device:   1,
			MoveHat:  2,
			LiftHat:  1,
			Takeoff:  1,
			Land:     2,
			Snapshot: 3,
		},
		Pilot: Pilot{
			Speed:      DefaultSpeed,
			TickMillis: DefaultTickMillis,
		},
		Video: Video{
			ViewWidth:    DefaultViewWidth,
			ViewHeight:   DefaultViewHeight,
			SnapshotDir:  DefaultSnapshotDir,
			DecodeMillis: 50,
		},
		Dashboard: Dashboard{
			Enabled: false,
			Port:    DefaultDashPort,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path loads defaults only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from the environment.
func (c *Config) applyEnv() {
	if addr := os.Getenv("TELLO_ADDR"); addr != "" {
		c.Drone.Addr = addr
	}
	if s := os.Getenv("TELLO_SPEED"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			c.Pilot.Speed = v
		}
	}
	if lvl := os.Getenv("TELLO_LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}
}

// Validate rejects values the drone or the loop cannot honor.
func (c Config) Validate() error {
	if c.Pilot.Speed < 1 || c.Pilot.Speed > 100 {
		return fmt.Errorf("config: speed %d out of range 1..100", c.Pilot.Speed)
	}
	if c.Pilot.TickMillis <= 0 {
		return fmt.Errorf("config: tick_millis must be positive, got %d", c.Pilot.TickMillis)
	}
	if c.Video.ViewWidth <= 0 || c.Video.ViewHeight <= 0 {
		return fmt.Errorf("config: view size %dx%d invalid", c.Video.ViewWidth, c.Video.ViewHeight)
	}
	if c.Drone.Addr == "" {
		return fmt.Errorf("config: drone addr is required")
	}
	return nil
}
