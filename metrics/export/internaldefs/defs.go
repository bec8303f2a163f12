package internaldefs

import (
	tokencache "github.com/MrEthical07/tokencache"
)

// CounterDef defines a public type used by tokencache APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   tokencache.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by tokencache APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   tokencache.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the token cache.
var CounterDefs = []CounterDef{
	{ID: tokencache.MetricFastPathHit, Name: "tokencache_fast_path_hit_total", Help: "Token calls served from the cached record without touching the coordinator."},
	{ID: tokencache.MetricRefreshSuccess, Name: "tokencache_refresh_success_total", Help: "Successful refresher invocations."},
	{ID: tokencache.MetricRefreshFailure, Name: "tokencache_refresh_failure_total", Help: "Failed refresher invocations."},
	{ID: tokencache.MetricRefreshCollapsed, Name: "tokencache_refresh_collapsed_total", Help: "Callers served by another caller's refresh cycle."},
	{ID: tokencache.MetricProactiveFire, Name: "tokencache_proactive_fire_total", Help: "Proactive scheduler ticks."},
	{ID: tokencache.MetricProactiveFailure, Name: "tokencache_proactive_failure_total", Help: "Proactive ticks whose refresh attempt failed."},
}

// HistogramDefs is an exported constant or variable used by the token cache.
var HistogramDefs = []HistogramDef{
	{ID: tokencache.MetricRefreshLatency, Name: "tokencache_refresh_latency_seconds", Help: "Refresher invocation latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the token cache.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the token cache.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
