package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultTetrisConfig()
	require.NoError(t, yaml.Unmarshal(DefaultYAML(), &cfg))
	assert.Equal(t, DefaultTetrisConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
gameplay:
  gravity_ticks: 20
agent:
  name: process
  command: ./bot
  args: ["--fast"]
  speed: 10
server:
  idle_timeout: 5m
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Gameplay.GravityTicks)
	assert.Equal(t, "process", cfg.Agent.Name)
	assert.Equal(t, "./bot", cfg.Agent.Command)
	assert.Equal(t, []string{"--fast"}, cfg.Agent.Args)
	assert.Equal(t, 1, cfg.Agent.ActionPeriod())
	assert.Equal(t, 5*time.Minute, cfg.Server.IdleTimeout)

	// Unset keys keep their defaults.
	assert.Equal(t, DefaultTetrisConfig().Gameplay.DASDelay, cfg.Gameplay.DASDelay)
	assert.Equal(t, DefaultTetrisConfig().Server.WSAddress, cfg.Server.WSAddress)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("gameplay: [oops"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("agent:\n  speed: 11\n"), 0o600))
	_, err = Load(invalid)
	assert.Error(t, err)
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultTetrisConfig()
	ApplyPreset(&cfg, DifficultyHard)
	assert.True(t, cfg.Difficulty.Enabled)
	assert.InDelta(t, 0.7, cfg.Difficulty.InitialLevel, 1e-9)
	assert.Equal(t, 30, cfg.Gameplay.GravityTicks)

	ApplyPreset(&cfg, DifficultyFixed)
	assert.False(t, cfg.Difficulty.Enabled)

	_, ok := ParsePreset("insane")
	assert.False(t, ok)
	p, ok := ParsePreset("")
	assert.True(t, ok)
	assert.Equal(t, DifficultyNormal, p)
}

func TestGravityTicks(t *testing.T) {
	def := DefaultTetrisConfig()
	gp, cfg := def.Gameplay, def.Difficulty
	gp.GravityTicks = 60

	g := NewGravity(gp, cfg)
	assert.True(t, g.Progressive())
	assert.Equal(t, 60, g.Ticks(0, 0))
	assert.Equal(t, 6, g.Ticks(150, 0))
	assert.Equal(t, 6, g.Ticks(1000, 0))
	assert.Less(t, g.Ticks(75, 0), 60)

	cfg.Enabled = false
	fixed := NewGravity(gp, cfg)
	assert.False(t, fixed.Progressive())
	assert.Equal(t, 60, fixed.Ticks(150, 0))

	cfg.Enabled = true
	cfg.Progression = ProgressionConfig{Type: "time", MaxAt: 100}
	timed := NewGravity(gp, cfg)
	assert.Equal(t, 6, timed.Ticks(0, 100))
	assert.InDelta(t, 0.5, timed.Level(0, 50), 1e-9)

	gp.GravityTicks = 1
	assert.Equal(t, 1, NewGravity(gp, cfg).Ticks(0, 100))
}

func TestGravityClampsStartLevel(t *testing.T) {
	cfg := DefaultTetrisConfig()
	cfg.Difficulty.InitialLevel = 3
	g := NewGravity(cfg.Gameplay, cfg.Difficulty)
	assert.InDelta(t, 1.0, g.Level(0, 0), 1e-9)
}
