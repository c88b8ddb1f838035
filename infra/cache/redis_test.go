package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/motofleet/core/factory"
	"github.com/kilianp07/motofleet/core/fleet"
	coremetrics "github.com/kilianp07/motofleet/core/metrics"
	"github.com/kilianp07/motofleet/core/report"
)

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, "localhost:6379", c.Address)
	assert.Equal(t, "motofleet:report:latest", c.LatestKey())
	assert.Equal(t, 24*time.Hour, c.TTL)
}

func TestNewReportCache_Unreachable(t *testing.T) {
	_, err := NewReportCache(Config{Address: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.ErrorContains(t, err, "ping redis")
}

func startRedis(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err, "container start")
	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return cont, fmt.Sprintf("%s:%s", host, port.Port())
}

func TestReportCache_Container(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	if v := os.Getenv("DOCKER_AVAILABLE"); v != "1" && v != "true" {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	cont, addr := startRedis(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	sink, err := coremetrics.NewReportSink([]factory.ModuleConfig{{
		Type: "redis",
		Conf: map[string]any{"address": addr, "prefix": "test", "ttl": "1m"},
	}})
	require.NoError(t, err)
	c, ok := sink.(*ReportCache)
	require.True(t, ok)
	defer func() { _ = c.Close() }()

	_, found, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	rep := report.Report{RunID: "run-7", Period: fleet.Year(2024), KPI: fleet.FinancialKPI{TotalAssets: 5}}
	require.NoError(t, c.RecordReport(rep))

	got, found, err := c.Latest(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "run-7", got.RunID)
	assert.Equal(t, 5, got.KPI.TotalAssets)

	ttl, err := c.client.TTL(ctx, "test:report:latest").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
