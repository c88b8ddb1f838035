package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/motofleet/core/metrics"
	"github.com/kilianp07/motofleet/core/report"
	"github.com/kilianp07/motofleet/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket receiving report points.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes report figures to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.ReportSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordReport writes one franchisee_revenue point per franchisee and a
// fleet_kpi point, all stamped with the report time.
func (s *InfluxSink) RecordReport(r report.Report) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, reportPoints(r)...)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func reportPoints(r report.Report) []*write.Point {
	period := r.Period.String()
	points := make([]*write.Point, 0, len(r.Franchisees)+1)
	for _, f := range r.Franchisees {
		points = append(points, write.NewPointWithMeasurement("franchisee_revenue").
			AddTag("franchisee", f.Franchisee).
			AddTag("period", period).
			AddField("weekly", round2(f.WeeklyRevenue)).
			AddField("monthly", round2(f.MonthlyRevenue)).
			AddField("occupancy", round2(f.OccupancyRate)).
			AddField("rented", f.RentedCount).
			AddField("total", f.TotalAssets).
			SetTime(r.GeneratedAt))
	}
	k := r.KPI
	points = append(points, write.NewPointWithMeasurement("fleet_kpi").
		AddTag("period", period).
		AddField("total_assets", k.TotalAssets).
		AddField("rented_assets", k.RentedAssets).
		AddField("occupancy", round2(k.OccupancyRate)).
		AddField("weekly_revenue", round2(k.WeeklyRevenue)).
		AddField("monthly_revenue", round2(k.MonthlyRevenue)).
		AddField("average_ticket", round2(k.AverageTicket)).
		AddField("goal_attainment", round2(r.Goals.Attainment())).
		AddField("estimated", r.Estimated).
		SetTime(r.GeneratedAt))
	return points
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
