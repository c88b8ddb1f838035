package metrics

import (
	"errors"

	"github.com/kilianp07/motofleet/core/report"
)

// ReportSink records a finished report for observability or downstream
// consumers.
type ReportSink interface {
	RecordReport(r report.Report) error
}

// NopSink discards reports.
type NopSink struct{}

func (NopSink) RecordReport(report.Report) error { return nil }

// MultiSink fans reports out to several sinks.
type MultiSink struct {
	Sinks []ReportSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...ReportSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordReport forwards the report to every sink, even after a failure, and
// returns the joined errors.
func (m *MultiSink) RecordReport(r report.Report) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordReport(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// Close closes every sink implementing Closer.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
