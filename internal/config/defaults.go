package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the default configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Gameplay: GameplayConfig{
			GravityTicks:  60,
			DASDelay:      12,
			DASPeriod:     1,
			StatusTicks:   120,
			GarbageEvery:  0,
			GarbageHeight: 1,
		},
		Agent: AgentConfig{
			Name:         "random",
			Speed:        8,
			TimeoutTicks: 0,
		},
		Server: ServerConfig{
			SSHAddress:  ":23234",
			HostKeyPath: ".ssh/tetris_ed25519",
			IdleTimeout: 30 * time.Minute,
			WSAddress:   ":8080",
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "lines",
				MaxAt: 150,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 9.0,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTetrisYAML
}
