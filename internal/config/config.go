// Package config provides YAML-based configuration loading and
// difficulty management for tetris sessions.
package config

import "time"

// TetrisConfig contains all configuration for a tetris session.
type TetrisConfig struct {
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Agent      AgentConfig      `yaml:"agent"`
	Server     ServerConfig     `yaml:"server"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// GameplayConfig defines timing and garbage for interactive play.
type GameplayConfig struct {
	GravityTicks  int `yaml:"gravity_ticks"`  // Ticks between gravity steps at the starting level
	DASDelay      int `yaml:"das_delay"`      // Ticks a shift key is held before it repeats
	DASPeriod     int `yaml:"das_period"`     // Ticks between repeated shifts
	StatusTicks   int `yaml:"status_ticks"`   // How long clear labels stay on screen
	GarbageEvery  int `yaml:"garbage_every"`  // Insert garbage after every N locks, 0 disables
	GarbageHeight int `yaml:"garbage_height"` // Rows of garbage per insertion
}

// AgentConfig selects and paces the move-evaluation agent.
type AgentConfig struct {
	Name         string   `yaml:"name"`          // Registered agent name
	Command      string   `yaml:"command"`       // Program for the process agent
	Args         []string `yaml:"args"`          // Arguments for the process agent
	URL          string   `yaml:"url"`           // Server for the websocket agent
	Speed        int      `yaml:"speed"`         // 1 (slowest) to 10 (one action per tick)
	TimeoutTicks int      `yaml:"timeout_ticks"` // Abandon a request after this many ticks, 0 waits forever
}

// ServerConfig defines listen addresses for the network front ends.
type ServerConfig struct {
	SSHAddress  string        `yaml:"ssh_address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	WSAddress   string        `yaml:"ws_address"`
}

// DifficultyConfig defines the gravity progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a game.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "lines", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Lines/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Gravity speed-up added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	case "":
		return DifficultyNormal, true
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
