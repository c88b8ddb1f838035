package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/motofleet/core/metrics"
	"github.com/kilianp07/motofleet/core/report"
)

// PromSink exposes the latest report as Prometheus gauges.
type PromSink struct {
	weekly     *prometheus.GaugeVec
	occupancy  *prometheus.GaugeVec
	modelDays  *prometheus.GaugeVec
	assets     prometheus.Gauge
	rented     prometheus.Gauge
	attainment prometheus.Gauge
	runs       prometheus.Counter
}

// NewPromSink registers report metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using StartPromServer.
func NewPromSink() (coremetrics.ReportSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.ReportSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		weekly: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_franchisee_weekly_revenue",
			Help: "Weekly revenue attributed to each franchisee",
		}, []string{"franchisee"}),
		occupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_franchisee_occupancy_percent",
			Help: "Share of rented assets per franchisee",
		}, []string{"franchisee"}),
		modelDays: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_model_average_rental_days",
			Help: "Average completed rental length per model",
		}, []string{"model"}),
		assets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_assets_total",
			Help: "Assets in the effective fleet",
		}),
		rented: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_assets_rented",
			Help: "Assets currently generating revenue",
		}),
		attainment: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_goal_attainment",
			Help: "Percentage of franchisees meeting the occupancy goal",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_report_runs_total",
			Help: "Number of reports computed",
		}),
	}
	var err error
	if s.weekly, err = register(reg, s.weekly); err != nil {
		return nil, err
	}
	if s.occupancy, err = register(reg, s.occupancy); err != nil {
		return nil, err
	}
	if s.modelDays, err = register(reg, s.modelDays); err != nil {
		return nil, err
	}
	if s.assets, err = register(reg, s.assets); err != nil {
		return nil, err
	}
	if s.rented, err = register(reg, s.rented); err != nil {
		return nil, err
	}
	if s.attainment, err = register(reg, s.attainment); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	return s, nil
}

// register reuses an already registered collector of the same type.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordReport replaces the labelled series with the report's values.
func (s *PromSink) RecordReport(r report.Report) error {
	s.weekly.Reset()
	s.occupancy.Reset()
	for _, f := range r.Franchisees {
		s.weekly.WithLabelValues(f.Franchisee).Set(f.WeeklyRevenue)
		s.occupancy.WithLabelValues(f.Franchisee).Set(f.OccupancyRate)
	}
	s.modelDays.Reset()
	for _, m := range r.ModelStats {
		s.modelDays.WithLabelValues(m.Model).Set(m.AverageDays)
	}
	s.assets.Set(float64(r.KPI.TotalAssets))
	s.rented.Set(float64(r.KPI.RentedAssets))
	s.attainment.Set(r.Goals.Attainment())
	s.runs.Inc()
	return nil
}
