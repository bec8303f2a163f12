package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	tokencache "github.com/MrEthical07/tokencache"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		concurrency  = flag.Int("concurrency", 256, "number of concurrent workers")
		ops          = flag.Int("ops", 500000, "token fetches per phase (hot + churn)")
		ttl          = flag.Duration("ttl", 150*time.Millisecond, "issued token lifetime in the churn phase")
		issueLatency = flag.Duration("issue-latency", 5*time.Millisecond, "simulated issuer round trip")
		redisAddr    = flag.String("redis-addr", "", "redis address for the audit stream; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency and ops must be > 0")
		os.Exit(2)
	}

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("audit stream on miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("audit stream on redis at %s\n", addr)
	}
	defer cleanup()

	sink := tokencache.NewRedisStreamSink(client, "", 10_000)

	hotStats, hotSnap := runHotPhase(*ops, *concurrency, sink)
	churnStats, churnSnap, refreshes := runChurnPhase(*ops, *concurrency, *ttl, *issueLatency, sink)

	fmt.Println("---- results ----")
	printStats("hot", hotStats)
	printStats("churn", churnStats)
	fmt.Printf("churn: refresher calls=%d collapsed=%d fast-path=%d\n",
		refreshes,
		churnSnap.Counters[tokencache.MetricRefreshCollapsed],
		churnSnap.Counters[tokencache.MetricFastPathHit],
	)
	fmt.Printf("hot: fast-path=%d\n", hotSnap.Counters[tokencache.MetricFastPathHit])
}

// runHotPhase measures the atomic-load fast path: the token never expires
// during the run, so every fetch must bypass the coordinator.
func runHotPhase(ops, concurrency int, sink tokencache.AuditSink) (phaseStats, tokencache.MetricsSnapshot) {
	issuer := newFakeIssuer(24*time.Hour, 0)

	cred, err := tokencache.New(issuer.issue().Value).
		WithDecoder(issuer.decode).
		WithRefresher(issuer.refresh).
		WithAuditSink(sink).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer cred.Close()

	stats := hammer(cred, ops, concurrency)
	return stats, cred.MetricsSnapshot()
}

// runChurnPhase issues short-lived tokens so workers continuously race the
// expiry window; the interesting numbers are how many fetches collapsed into
// shared refresh cycles versus how many refresher calls actually happened.
func runChurnPhase(ops, concurrency int, ttl, issueLatency time.Duration, sink tokencache.AuditSink) (phaseStats, tokencache.MetricsSnapshot, int64) {
	issuer := newFakeIssuer(ttl, issueLatency)

	cred, err := tokencache.New(issuer.issue().Value).
		WithDecoder(issuer.decode).
		WithRefresher(issuer.refresh).
		WithProactiveRefresh(true).
		WithRefreshWindow(ttl / 3).
		WithAuditSink(sink).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer cred.Close()

	stats := hammer(cred, ops, concurrency)
	return stats, cred.MetricsSnapshot(), issuer.calls.Load()
}

func hammer(cred *tokencache.Credential, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	ctx := context.Background()

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				_, err := cred.Token(ctx)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// fakeIssuer stands in for a remote identity service: it mints opaque tokens
// with a fixed lifetime and remembers the expiry per token value.
type fakeIssuer struct {
	ttl     time.Duration
	latency time.Duration
	calls   atomic.Int64

	mu     sync.Mutex
	expiry map[string]time.Time
}

func newFakeIssuer(ttl, latency time.Duration) *fakeIssuer {
	return &fakeIssuer{
		ttl:     ttl,
		latency: latency,
		expiry:  make(map[string]time.Time),
	}
}

func (f *fakeIssuer) issue() tokencache.Record {
	n := f.calls.Add(1)
	rec := tokencache.Record{
		Value:     fmt.Sprintf("token-%d", n),
		ExpiresOn: time.Now().Add(f.ttl),
	}

	f.mu.Lock()
	f.expiry[rec.Value] = rec.ExpiresOn
	f.mu.Unlock()

	return rec
}

func (f *fakeIssuer) refresh(ctx context.Context) (tokencache.Record, error) {
	if f.latency > 0 {
		select {
		case <-time.After(f.latency):
		case <-ctx.Done():
			return tokencache.Record{}, ctx.Err()
		}
	}
	return f.issue(), nil
}

func (f *fakeIssuer) decode(token string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	exp, ok := f.expiry[token]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown token %q", token)
	}
	return exp, nil
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
