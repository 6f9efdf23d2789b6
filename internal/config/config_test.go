package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/shopcraft/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, -10, cfg.Parcel.MinX)
	assert.Equal(t, 16, cfg.Parcel.MaxY)
	assert.InDelta(t, 0.72, cfg.Doors.Furniture.PassThreshold, 1e-9)
	assert.InDelta(t, 0.78, cfg.Doors.Block.PassThreshold, 1e-9)
	assert.Len(t, cfg.Inventory.Upgrades, 4)
	assert.Equal(t, 10*time.Minute, cfg.Storage.CacheTTL())
}

func TestLoad_OverridesOnlyGivenFields(t *testing.T) {
	path := writeConfig(t, `
parcel:
  min_x: -4
  max_x: 4
  min_z: -4
  max_z: 4
  max_y: 8
doors:
  block:
    open_radius: 1.0
    close_radius: 1.5
    speed: 6
    pass_threshold: 0.8
storage:
  redis_url: redis://localhost:6379/0
logging:
  console_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Parcel.MaxY)
	assert.InDelta(t, 0.8, cfg.Doors.Block.PassThreshold, 1e-9)
	assert.InDelta(t, 0.72, cfg.Doors.Furniture.PassThreshold, 1e-9, "мебельные двери не тронуты")
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.RedisURL)
	assert.Equal(t, "data/layouts", cfg.Storage.BadgerDir, "значение по умолчанию сохраняется")

	lc, err := cfg.Logging.Logging()
	require.NoError(t, err)
	assert.Equal(t, logging.DEBUG, lc.ConsoleLevel)
}

func TestLoad_EnvFallback(t *testing.T) {
	path := writeConfig(t, "eventbus:\n  url: nats://127.0.0.1:4222\n")
	t.Setenv("SHOPCRAFT_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.EventBus.URL)
	assert.Equal(t, "SHOPCRAFT", cfg.EventBus.Stream)
}

func TestLoad_NoPathReturnsDefaults(t *testing.T) {
	t.Setenv("SHOPCRAFT_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "parcel: [1, 2"))
	assert.Error(t, err, "битый YAML")

	_, err = Load(writeConfig(t, "parcel:\n  max_y: 0\n"))
	assert.Error(t, err, "нулевая высота")

	_, err = Load(writeConfig(t, "doors:\n  block:\n    open_radius: 2\n    close_radius: 1\n"))
	assert.Error(t, err, "гистерезис наоборот")

	_, err = Load(writeConfig(t, "logging:\n  file_level: loud\n"))
	assert.Error(t, err)
}

func TestValidate_RequiresHysteresisGap(t *testing.T) {
	cfg := Default()
	cfg.Doors.Block.CloseRadius = cfg.Doors.Block.OpenRadius
	assert.Error(t, cfg.Validate(), "равные радиусы блочной двери")

	cfg = Default()
	cfg.Doors.HysteresisMargin = 0
	assert.Error(t, cfg.Validate(), "нулевой зазор мебельной двери")

	cfg.Doors.HysteresisMargin = -0.1
	assert.Error(t, cfg.Validate())

	cfg.Doors.HysteresisMargin = 0.05
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ComponentLogLevels(t *testing.T) {
	path := writeConfig(t, `
logging:
  console_level: warn
  components:
    storage:
      console_level: debug
    eventbus:
      file_level: error
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	lc, err := cfg.Logging.Logging()
	require.NoError(t, err)
	assert.Equal(t, logging.WARN, lc.ConsoleLevel)
	assert.Equal(t, logging.Levels{Console: logging.DEBUG, File: logging.DEBUG}, lc.Components[logging.ComponentStorage])
	assert.Equal(t, logging.Levels{Console: logging.WARN, File: logging.ERROR}, lc.Components[logging.ComponentEventBus], "пустое поле наследует общий уровень")
	assert.NotContains(t, lc.Components, logging.ComponentWorld)

	_, err = Load(writeConfig(t, "logging:\n  components:\n    world:\n      console_level: loud\n"))
	assert.Error(t, err)
}

func TestGetMetricsPort(t *testing.T) {
	s := ServerConfig{MetricsPort: 9000}
	assert.Equal(t, 9000, s.GetMetricsPort())

	s.MetricsPort = 0
	t.Setenv("SHOPCRAFT_METRICS_PORT", "9100")
	assert.Equal(t, 9100, s.GetMetricsPort())

	t.Setenv("SHOPCRAFT_METRICS_PORT", "oops")
	assert.Equal(t, 2112, s.GetMetricsPort())
}
