package tokencache

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledRecordsNothing(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricRefreshSuccess)
	m.Observe(MetricRefreshLatency, 10*time.Millisecond)

	if m.Value(MetricRefreshSuccess) != 0 {
		t.Fatal("disabled metrics must stay zero")
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatal("disabled snapshot must be empty")
	}
}

func TestMetricsConcurrentIncrements(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 16
	const perGoroutine = 500

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricFastPathHit)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricFastPathHit); got != goroutines*perGoroutine {
		t.Fatalf("expected %d increments, got %d", goroutines*perGoroutine, got)
	}
}

func TestMetricsLatencyBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricRefreshLatency, 3*time.Millisecond)   // bucket 0
	m.Observe(MetricRefreshLatency, 40*time.Millisecond)  // bucket 3
	m.Observe(MetricRefreshLatency, 900*time.Millisecond) // overflow bucket

	snap := m.Snapshot()
	buckets, ok := snap.Histograms[MetricRefreshLatency]
	if !ok {
		t.Fatal("expected a latency histogram in the snapshot")
	}
	if buckets[0] != 1 || buckets[3] != 1 || buckets[histBucketCount-1] != 1 {
		t.Fatalf("unexpected bucket layout: %v", buckets)
	}
}

func TestMetricsObserveIgnoresNonLatencyIDs(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricFastPathHit, time.Second)

	snap := m.Snapshot()
	for i, v := range snap.Histograms[MetricRefreshLatency] {
		if v != 0 {
			t.Fatalf("bucket %d unexpectedly non-zero", i)
		}
	}
}

func TestMetricsOutOfRangeIDIsIgnored(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(metricIDCount + 5)
	if m.Value(metricIDCount+5) != 0 {
		t.Fatal("out-of-range metric IDs must read as zero")
	}
}
