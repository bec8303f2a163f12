// Package otel provides OpenTelemetry metric exporter bindings for tokencache
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// tokencache metric and Int64ObservableGauge per histogram bucket. A single
// callback reads [tokencache.Credential.MetricsSnapshot] on each collection
// cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate credential state.
package otel
