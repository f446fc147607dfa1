package prober

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/eakomdo/reachprobe/internal/domain/probe"
)

// Reporters fans every call out to each reporter in order.
type Reporters []probe.Reporter

func (rs Reporters) Begin(ctx context.Context, endpoints []probe.Endpoint) {
	for _, r := range rs {
		r.Begin(ctx, endpoints)
	}
}

func (rs Reporters) Report(ctx context.Context, res probe.Result) {
	for _, r := range rs {
		r.Report(ctx, res)
	}
}

func (rs Reporters) End(ctx context.Context, run probe.Run) {
	for _, r := range rs {
		r.End(ctx, run)
	}
}

const rule = "----------------------------------------"

// ConsoleReporter prints a human readable line per probe between two banners.
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleReporter(w io.Writer) *ConsoleReporter { return &ConsoleReporter{w: w} }

func (c *ConsoleReporter) Begin(_ context.Context, endpoints []probe.Endpoint) {
	c.printf("🔍 Testing network connectivity (%d endpoints)\n%s\n", len(endpoints), rule)
}

func (c *ConsoleReporter) Report(_ context.Context, r probe.Result) {
	if r.Reachable {
		c.printf("✅ %s -> %d (%s)\n", r.URL, r.StatusCode, r.Latency.Round(time.Millisecond))
		return
	}
	c.printf("❌ %s -> %s\n", r.URL, r.Error)
}

func (c *ConsoleReporter) End(_ context.Context, run probe.Run) {
	var b strings.Builder
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "🏁 Done: %d/%d reachable\n", run.Reachable(), len(run))
	c.printf("%s", b.String())
}

func (c *ConsoleReporter) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, format, args...)
}

type MetricsReporter struct {
	mRuns      prometheus.Counter
	mProbes    *prometheus.CounterVec
	mStatus    *prometheus.CounterVec
	mLatency   prometheus.Histogram
	mLastUp    prometheus.Gauge
	mLastTotal prometheus.Gauge
}

func NewMetricsReporter(reg prometheus.Registerer) *MetricsReporter {
	f := promauto.With(reg)
	return &MetricsReporter{
		mRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "reachprobe_runs_total", Help: "Completed probe runs",
		}),
		mProbes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reachprobe_probes_total", Help: "Probes by outcome",
		}, []string{"outcome"}),
		mStatus: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reachprobe_http_responses_total", Help: "HTTP responses by status class",
		}, []string{"class"}),
		mLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reachprobe_probe_duration_seconds",
			Help:    "Time spent per probe",
			Buckets: prometheus.DefBuckets,
		}),
		mLastUp: f.NewGauge(prometheus.GaugeOpts{
			Name: "reachprobe_last_run_reachable", Help: "Reachable endpoints in the last run",
		}),
		mLastTotal: f.NewGauge(prometheus.GaugeOpts{
			Name: "reachprobe_last_run_endpoints", Help: "Endpoints probed in the last run",
		}),
	}
}

func (m *MetricsReporter) Begin(context.Context, []probe.Endpoint) {}

func (m *MetricsReporter) Report(_ context.Context, r probe.Result) {
	m.mLatency.Observe(r.Latency.Seconds())
	if !r.Reachable {
		m.mProbes.WithLabelValues("unreachable").Inc()
		return
	}
	m.mProbes.WithLabelValues("reachable").Inc()
	m.mStatus.WithLabelValues(fmt.Sprintf("%dxx", r.StatusCode/100)).Inc()
}

func (m *MetricsReporter) End(_ context.Context, run probe.Run) {
	m.mRuns.Inc()
	m.mLastUp.Set(float64(run.Reachable()))
	m.mLastTotal.Set(float64(len(run)))
}

// EventsReporter forwards each result to an event sink. Publish failures are
// logged and dropped.
type EventsReporter struct {
	events probe.Events
	log    *zap.Logger
}

func NewEventsReporter(events probe.Events, log *zap.Logger) *EventsReporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventsReporter{events: events, log: log.With(zap.String("component", "prober.events"))}
}

func (e *EventsReporter) Begin(context.Context, []probe.Endpoint) {}

func (e *EventsReporter) Report(ctx context.Context, r probe.Result) {
	if err := e.events.PublishResult(ctx, r); err != nil {
		e.log.Warn("publish result", zap.String("endpoint", r.URL), zap.Error(err))
	}
}

func (e *EventsReporter) End(context.Context, probe.Run) {}
