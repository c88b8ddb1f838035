// Package infra contains technical adapters such as store backends, report
// sinks and MQTT publishers. These packages should depend only on the
// interfaces defined in the core packages.
package infra
