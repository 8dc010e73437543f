package config

import "math"

// Gravity turns a game's progress into the number of ticks between
// gravity steps.
type Gravity struct {
	base  int
	start float64
	cfg   DifficultyConfig
}

// NewGravity returns the gravity curve for a gameplay and difficulty
// section. The starting level is clamped to [0, 1].
func NewGravity(gameplay GameplayConfig, difficulty DifficultyConfig) Gravity {
	return Gravity{
		base:  max(1, gameplay.GravityTicks),
		start: min(1, max(0, difficulty.InitialLevel)),
		cfg:   difficulty,
	}
}

// Progressive reports whether the level rises during a game.
func (g Gravity) Progressive() bool {
	return g.cfg.Enabled && g.cfg.Progression.Type != "none"
}

// Level returns the difficulty after lines cleared and ticks played, from
// the starting level up to 1 at progression.max_at.
func (g Gravity) Level(lines, ticks int) float64 {
	if !g.Progressive() {
		return g.start
	}

	var done int
	switch g.cfg.Progression.Type {
	case "lines":
		done = lines
	case "time":
		done = ticks
	default:
		return g.start
	}

	progress := min(1, float64(done)/float64(max(1, g.cfg.Progression.MaxAt)))
	return g.start + progress*(1-g.start)
}

// Ticks returns base / (1 + level*speed_multiplier), rounded and never
// below one tick.
func (g Gravity) Ticks(lines, ticks int) int {
	period := float64(g.base) / (1 + g.Level(lines, ticks)*g.cfg.Scaling.SpeedMultiplier)
	return max(1, int(math.Round(period)))
}
