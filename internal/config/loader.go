package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "tetris.yaml"

// Load returns the tetris configuration. A custom path must exist, parse
// and validate. Without one, the first file in the search path that parses
// wins: ~/.tetris/configs/tetris.yaml, then ./configs/tetris.yaml, then the
// embedded default.
func Load(customPath string) (TetrisConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultTetrisConfig(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := decode(data)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range searchPath() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := decode(data); err == nil {
			return cfg, cfg.Validate()
		}
	}

	cfg, err := decode(defaultTetrisYAML)
	if err != nil {
		return DefaultTetrisConfig(), nil
	}
	return cfg, nil
}

// decode reads data over the defaults, so keys missing from a partial file
// keep their default values.
func decode(data []byte) (TetrisConfig, error) {
	cfg := DefaultTetrisConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultTetrisConfig(), err
	}
	return cfg, nil
}

func searchPath() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tetris", "configs", configFile))
	}
	return append(paths, filepath.Join("configs", configFile))
}

// Validate checks value ranges.
func (c TetrisConfig) Validate() error {
	if c.Gameplay.GravityTicks < 1 {
		return fmt.Errorf("config: gameplay.gravity_ticks must be >= 1, got %d", c.Gameplay.GravityTicks)
	}
	if c.Gameplay.DASDelay < 0 || c.Gameplay.DASPeriod < 1 {
		return fmt.Errorf("config: invalid das_delay/das_period %d/%d", c.Gameplay.DASDelay, c.Gameplay.DASPeriod)
	}
	if c.Gameplay.GarbageEvery < 0 || c.Gameplay.GarbageHeight < 0 {
		return fmt.Errorf("config: garbage settings must not be negative")
	}
	if c.Agent.Speed < 1 || c.Agent.Speed > 10 {
		return fmt.Errorf("config: agent.speed must be within 1..10, got %d", c.Agent.Speed)
	}
	if c.Agent.TimeoutTicks < 0 {
		return fmt.Errorf("config: agent.timeout_ticks must not be negative")
	}
	return nil
}

// ActionPeriod converts the agent speed into ticks between actions.
func (a AgentConfig) ActionPeriod() int {
	return 11 - min(max(a.Speed, 1), 10)
}

// ApplyPreset sets the starting gravity and level of a preset. Fixed turns
// progression off and keeps the configured gravity.
func ApplyPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	cfg.Difficulty.Enabled = preset != DifficultyFixed
	if !cfg.Difficulty.Enabled {
		return
	}
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.GravityTicks = 90
	case DifficultyHard:
		cfg.Gameplay.GravityTicks = 30
	}
}
