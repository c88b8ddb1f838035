package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motofleet/core/fleet"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `engine:
  occupancy_goal_percent: 85
  history_mode: auto
  model_aliases:
    "cg 160 fan": "HONDA CG 160 FAN"
store:
  type: sqlite
  conf:
    dsn: fleet.db
schedule:
  refresh: "*/30 * * * * *"
metrics:
  prometheus_port: "9200"
  sinks:
    - type: prometheus
    - type: influx
      conf:
        url: http://localhost:8086
history:
  backend: sqlite
mqtt:
  broker: "tcp://localhost:1883"
  topic: fleet/summary
logging:
  level: debug
  format: console
sentry:
  dsn: https://public@example.com/1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 85.0, cfg.Engine.OccupancyGoalPercent)
	assert.Equal(t, 4.33, cfg.Engine.WeeksPerMonth)
	assert.Equal(t, 30, cfg.Engine.EstimatedWindowDays)
	assert.Equal(t, fleet.HistoryAuto, cfg.Engine.HistoryMode)
	assert.Equal(t, "HONDA CG 160 FAN", cfg.Engine.ModelAliases["cg 160 fan"])
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "fleet.db", cfg.Store.Conf["dsn"])
	assert.Equal(t, "*/30 * * * * *", cfg.Schedule.Refresh)
	assert.Equal(t, "9200", cfg.Metrics.PrometheusPort)
	require.Len(t, cfg.Metrics.Sinks, 2)
	assert.True(t, cfg.Metrics.HasSink("influx"))
	assert.Equal(t, "kpi.db", cfg.History.Path)
	assert.Equal(t, "fleet/summary", cfg.MQTT.Topic)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.API.Address)
	assert.Equal(t, "https://public@example.com/1", cfg.Sentry.DSN)
	assert.Equal(t, "production", cfg.Sentry.Environment)
	assert.Equal(t, PeriodCurrent, cfg.Report.Period)
}

func TestLoad_JSONWithEnvOverride(t *testing.T) {
	path := writeFile(t, "config.json", `{"store": {"type": "fixture", "conf": {"path": "fleet.yaml"}}, "api": {"address": ":9000"}}`)
	t.Setenv("K_API__ADDRESS", ":7000")
	t.Setenv("K_ENGINE__HISTORY_MODE", "auto")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.API.Address)
	assert.Equal(t, fleet.HistoryAuto, cfg.Engine.HistoryMode)
	assert.Equal(t, "@every 1m", cfg.Schedule.Refresh)
	assert.Equal(t, "memory", cfg.History.Backend)
	assert.Equal(t, "9100", cfg.Metrics.PrometheusPort)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", ""))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "engine:\n  occupancy_goal_percent: 120\n"))
	assert.ErrorContains(t, err, "engine")

	_, err = Load(writeFile(t, "config.yaml", "schedule:\n  refresh: \"every minute\"\n"))
	assert.ErrorContains(t, err, "schedule")

	_, err = Load(writeFile(t, "config.yaml", "history:\n  backend: mongo\n"))
	assert.ErrorContains(t, err, "history")

	_, err = Load(writeFile(t, "config.yaml", "report:\n  period: yesterday\n"))
	assert.ErrorContains(t, err, "report")

	_, err = Load(writeFile(t, "config.yaml", "sentry:\n  traces_sample_rate: 2\n"))
	assert.ErrorContains(t, err, "sentry")

	_, err = Load(writeFile(t, "config.yaml", "mqtt:\n  broker: tcp://x:1883\n  qos: 5\n"))
	assert.ErrorContains(t, err, "mqtt")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, fleet.DefaultConfig().OccupancyGoalPercent, cfg.Engine.OccupancyGoalPercent)
	assert.Equal(t, "info", cfg.Logging.Level)
}
