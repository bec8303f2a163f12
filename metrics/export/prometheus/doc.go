// Package prometheus provides Prometheus collectors for tokencache metrics.
//
// [NewPrometheusExporter] accepts a [tokencache.Credential] and exposes an
// [http.Handler] that renders all tokencache counters and histograms in
// Prometheus text exposition format. Counter names are prefixed
// tokencache_*_total; the single histogram is tokencache_refresh_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate credential state.
package prometheus
