// Package metrics defines the sinks that receive every finished report.
// Sinks like the Prometheus, InfluxDB, MQTT and Redis adapters are
// registered by name and combined with NewMultiSink; the factory helpers
// return a MultiSink automatically when several sinks are configured.
package metrics
