package mqtt

import (
	"github.com/kilianp07/motofleet/core/factory"
	coremetrics "github.com/kilianp07/motofleet/core/metrics"
)

func init() {
	_ = coremetrics.RegisterReportSink("mqtt", func(conf map[string]any) (coremetrics.ReportSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPublisher(c)
	})
}
