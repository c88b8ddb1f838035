package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motofleet/core/factory"
	"github.com/kilianp07/motofleet/core/report"
)

func factoryConf(typ string) factory.ModuleConfig { return factory.ModuleConfig{Type: typ} }

func init() {
	_ = RegisterReportSink("test-counter", func(map[string]any) (ReportSink, error) {
		return &recordSink{}, nil
	})
}

/*
TestNewReportSink validates NewReportSink with zero, one, and multiple configs.
Cases:
  - no config -> NopSink
  - one config -> the sink itself
  - two configs -> MultiSink with two sub-sinks
  - unknown type -> error
*/
func TestNewReportSink(t *testing.T) {
	s, err := NewReportSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewReportSink([]factory.ModuleConfig{factoryConf("test-counter")})
	require.NoError(t, err)
	assert.IsType(t, &recordSink{}, s)

	s, err = NewReportSink([]factory.ModuleConfig{factoryConf("test-counter"), factoryConf("test-counter")})
	require.NoError(t, err)
	m, ok := s.(*MultiSink)
	require.True(t, ok)
	assert.Len(t, m.Sinks, 2)
	require.NoError(t, m.RecordReport(report.Report{}))

	_, err = NewReportSink([]factory.ModuleConfig{factoryConf("missing")})
	assert.Error(t, err)
}
