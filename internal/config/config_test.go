package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "periodicity.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
frame_rate = "20ms"

[logging]
level = "debug"

[[demo.casts]]
at = "0s"
caster = "player"
spell = "infernum"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.FrameRate)
	assert.Zero(t, cfg.Simulation.MaxFrameDelta, "clamp is off unless configured")
	assert.Equal(t, 64, cfg.Simulation.CommandQueueSize, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	require.Len(t, cfg.Demo.Casts, 1)
	assert.Equal(t, "infernum", cfg.Demo.Casts[0].Spell)
}

func TestLoadRejectsBadDelta(t *testing.T) {
	path := writeConfig(t, `
[simulation]
frame_rate = "100ms"
max_frame_delta = "50ms"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_frame_delta")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestShippedConfigParses(t *testing.T) {
	cfg, err := Load("../../config/periodicity.toml")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Demo.Casts)
}

func TestLoadAcceptsDisabledClamp(t *testing.T) {
	path := writeConfig(t, `
[simulation]
frame_rate = "16ms"
max_frame_delta = "0s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Simulation.MaxFrameDelta)

	path = writeConfig(t, `
[simulation]
max_frame_delta = "-1s"
`)
	_, err = Load(path)
	require.Error(t, err)
}
