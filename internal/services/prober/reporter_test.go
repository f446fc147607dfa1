package prober

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eakomdo/reachprobe/internal/domain/probe"
)

var sampleRun = probe.Run{
	{URL: "http://localhost:8000", Reachable: true, StatusCode: 200, Latency: 12 * time.Millisecond},
	{URL: "http://10.0.2.2:8000", Error: "dial tcp 10.0.2.2:8000: connect: connection refused"},
	{URL: "http://localhost:8000/api/", Reachable: true, StatusCode: 404, Latency: 3 * time.Millisecond},
}

func replay(r probe.Reporter, run probe.Run) {
	ctx := context.Background()
	eps := make([]probe.Endpoint, len(run))
	for i, res := range run {
		eps[i] = probe.Endpoint(res.URL)
	}
	r.Begin(ctx, eps)
	for _, res := range run {
		r.Report(ctx, res)
	}
	r.End(ctx, run)
}

func TestConsoleReporter(t *testing.T) {
	var out bytes.Buffer
	replay(NewConsoleReporter(&out), sampleRun)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "🔍 Testing network connectivity (3 endpoints)", lines[0])
	assert.Equal(t, "✅ http://localhost:8000 -> 200 (12ms)", lines[2])
	assert.Equal(t, "❌ http://10.0.2.2:8000 -> dial tcp 10.0.2.2:8000: connect: connection refused", lines[3])
	assert.Equal(t, "✅ http://localhost:8000/api/ -> 404 (3ms)", lines[4])
	assert.Equal(t, "🏁 Done: 2/3 reachable", lines[6])
}

func TestMetricsReporter(t *testing.T) {
	m := NewMetricsReporter(prometheus.NewRegistry())
	replay(m, sampleRun)
	replay(m, sampleRun[:1])

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mRuns))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.mProbes.WithLabelValues("reachable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mProbes.WithLabelValues("unreachable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.mStatus.WithLabelValues("2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mStatus.WithLabelValues("4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mLastUp))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mLastTotal))
}

type fakeEvents struct {
	got []probe.Result
	err error
}

func (f *fakeEvents) PublishResult(_ context.Context, r probe.Result) error {
	f.got = append(f.got, r)
	return f.err
}

func TestEventsReporter(t *testing.T) {
	ev := &fakeEvents{}
	replay(NewEventsReporter(ev, zap.NewNop()), sampleRun)
	assert.Equal(t, []probe.Result(sampleRun), ev.got)
}

func TestEventsReporter_ErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ev := &fakeEvents{err: errors.New("broker down")}

	replay(NewEventsReporter(ev, zap.New(core)), sampleRun)

	assert.Len(t, ev.got, 3)
	assert.Equal(t, 3, logs.FilterMessage("publish result").Len())
}

func TestReporters_FanOutInOrder(t *testing.T) {
	a, b := &recordingReporter{}, &recordingReporter{}
	replay(Reporters{a, b}, sampleRun)

	for _, r := range []*recordingReporter{a, b} {
		assert.Equal(t, 1, r.begins)
		assert.Equal(t, []probe.Result(sampleRun), r.got)
		assert.Equal(t, sampleRun, r.ended)
	}
}

func TestProber_WithConsoleOutput(t *testing.T) {
	var out bytes.Buffer
	down := refusedURL(t)
	p, _ := newTestProber(t, Config{}, NewConsoleReporter(&out))

	p.RunProbes(context.Background(), []probe.Endpoint{probe.Endpoint(down)}, time.Second)

	assert.Contains(t, out.String(), "❌ "+down+" -> ")
	assert.Contains(t, out.String(), "0/1 reachable")
}
