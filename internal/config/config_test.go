package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "configs/airport_scenario.json", cfg.ScenarioPath)
	assert.Equal(t, time.Second/60, cfg.TickInterval)
	assert.Equal(t, 45*time.Second, cfg.TaxiDuration)
	assert.True(t, cfg.LoopPath)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	body := `
scenario_path: /tmp/scene.json
tick_interval: 50ms
accelerated: true
taxi_duration: 10s
loop_path: false
metrics_addr: ":9191"
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/scene.json", cfg.ScenarioPath)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.True(t, cfg.Accelerated)
	assert.Equal(t, 10*time.Second, cfg.TaxiDuration)
	assert.False(t, cfg.LoopPath)
	assert.Equal(t, ":9191", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{
		ScenarioPath: "scene.json",
		TickInterval: time.Millisecond,
		TaxiDuration: time.Second,
	}
	require.NoError(t, base.Validate())

	noScenario := base
	noScenario.ScenarioPath = ""
	assert.Error(t, noScenario.Validate())

	badTick := base
	badTick.TickInterval = 0
	assert.Error(t, badTick.Validate())

	badTaxi := base
	badTaxi.TaxiDuration = -time.Second
	assert.Error(t, badTaxi.Validate())

	badDuration := base
	badDuration.Duration = -time.Second
	assert.Error(t, badDuration.Validate())
}
