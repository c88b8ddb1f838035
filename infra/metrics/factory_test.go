package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motofleet/core/factory"
	coremetrics "github.com/kilianp07/motofleet/core/metrics"
)

func TestBuiltinSinksRegistered(t *testing.T) {
	s, err := coremetrics.NewReportSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, s)

	s, err = coremetrics.NewReportSink([]factory.ModuleConfig{{Type: "prometheus"}})
	require.NoError(t, err)
	assert.IsType(t, &PromSink{}, s)
}

func TestInfluxFactory_FallsBack(t *testing.T) {
	s, err := coremetrics.NewReportSink([]factory.ModuleConfig{{
		Type: "influx",
		Conf: map[string]any{"url": "http://127.0.0.1:1", "token": "t", "org": "o", "bucket": "b"},
	}})
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, s)
}
