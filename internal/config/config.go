package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Window     WindowConfig     `toml:"window"`
	Data       DataConfig       `toml:"data"`
	Logging    LoggingConfig    `toml:"logging"`
	Demo       DemoConfig       `toml:"demo"`
}

type SimulationConfig struct {
	FrameRate          time.Duration `toml:"frame_rate"`      // target time between frames
	MaxFrameDelta      time.Duration `toml:"max_frame_delta"` // optional dt clamp, 0 = measured dt as is
	CommandQueueSize   int           `toml:"command_queue_size"`
	MaxCommandsPerTick int           `toml:"max_commands_per_tick"`
	RenderEvery        int           `toml:"render_every"` // frames between headless snapshots
	CombatTextLimit    int           `toml:"combat_text_limit"`
}

type WindowConfig struct {
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type DataConfig struct {
	SpellList  string `toml:"spell_list"`
	SpawnList  string `toml:"spawn_list"`
	ScriptsDir string `toml:"scripts_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// DemoConfig scripts cast requests for the headless runner.
type DemoConfig struct {
	Casts []DemoCast `toml:"casts"`
}

type DemoCast struct {
	At     time.Duration `toml:"at"`     // simulated time since start
	Caster string        `toml:"caster"` // entity tag
	Spell  string        `toml:"spell"`  // catalog name
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Simulation.FrameRate <= 0 {
		return fmt.Errorf("simulation.frame_rate must be positive")
	}
	if c.Simulation.MaxFrameDelta < 0 {
		return fmt.Errorf("simulation.max_frame_delta must not be negative")
	}
	if c.Simulation.MaxFrameDelta > 0 && c.Simulation.MaxFrameDelta < c.Simulation.FrameRate {
		return fmt.Errorf("simulation.max_frame_delta (%s) below frame_rate (%s)",
			c.Simulation.MaxFrameDelta, c.Simulation.FrameRate)
	}
	if c.Simulation.CommandQueueSize < 1 || c.Simulation.MaxCommandsPerTick < 1 {
		return fmt.Errorf("simulation command queue sizes must be at least 1")
	}
	return nil
}

// Defaults returns the configuration used when a key is absent from the file.
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			FrameRate:          16 * time.Millisecond,
			CommandQueueSize:   64,
			MaxCommandsPerTick: 16,
			RenderEvery:        60,
			CombatTextLimit:    64,
		},
		Window: WindowConfig{
			Width:  1920,
			Height: 1080,
		},
		Data: DataConfig{
			SpellList:  "data/yaml/spell_list.yaml",
			SpawnList:  "data/yaml/spawn_list.yaml",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
