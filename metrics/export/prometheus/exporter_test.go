package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tokencache "github.com/MrEthical07/tokencache"
)

type fakeSource struct {
	snapshot tokencache.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() tokencache.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                        { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokencache.MetricsSnapshot{
			Counters:   map[tokencache.MetricID]uint64{},
			Histograms: map[tokencache.MetricID][]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokencache.MetricsSnapshot{
			Counters: map[tokencache.MetricID]uint64{
				tokencache.MetricRefreshSuccess: 7,
			},
			Histograms: map[tokencache.MetricID][]uint64{
				tokencache.MetricRefreshLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "tokencache_refresh_success_total 7") {
		t.Fatalf("expected refresh_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "tokencache_refresh_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "tokencache_refresh_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "tokencache_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokencache.MetricsSnapshot{
			Counters: map[tokencache.MetricID]uint64{
				tokencache.MetricFastPathHit: 11,
			},
			Histograms: map[tokencache.MetricID][]uint64{},
		},
	})

	srv := httptest.NewServer(exp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}
