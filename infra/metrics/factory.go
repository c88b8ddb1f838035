package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/motofleet/core/factory"
	coremetrics "github.com/kilianp07/motofleet/core/metrics"
)

// init registers built-in report sinks.
func init() {
	_ = coremetrics.RegisterReportSink("nop", func(map[string]any) (coremetrics.ReportSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterReportSink("prometheus", func(map[string]any) (coremetrics.ReportSink, error) {
		// The /metrics listener is started by the service from metrics.prometheus_port.
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterReportSink("influx", func(conf map[string]any) (coremetrics.ReportSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
