package prober

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eakomdo/reachprobe/internal/domain/probe"
	"github.com/eakomdo/reachprobe/internal/obs"
)

var errEmptyEndpoint = errors.New("empty endpoint")

type Config struct {
	// Endpoints used by RunDefaultSuite. nil selects probe.DefaultEndpoints,
	// an empty non-nil slice probes nothing.
	Endpoints   []probe.Endpoint
	Timeout     time.Duration
	Concurrency int
	UserAgent   string
}

type Prober struct {
	log      *zap.Logger
	httpc    *http.Client
	cfg      Config
	reporter probe.Reporter
	now      func() time.Time
}

func New(log *zap.Logger, httpc *http.Client, cfg Config, reporter probe.Reporter) *Prober {
	if log == nil {
		log = zap.NewNop()
	}
	if httpc == nil {
		httpc = NewHTTPClient(HTTPConfig{FollowRedirects: true, VerifyTLS: true})
	}
	if cfg.Endpoints == nil {
		cfg.Endpoints = probe.DefaultEndpoints
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = probe.DefaultTimeout
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if reporter == nil {
		reporter = Reporters{}
	}
	return &Prober{
		log:      log.With(zap.String("component", "prober")),
		httpc:    httpc,
		cfg:      cfg,
		reporter: reporter,
		now:      time.Now,
	}
}

// ProbeOne issues a single GET to ep. Any HTTP response counts as reachable;
// transport failures are returned as an unreachable Result, never as an error.
func (p *Prober) ProbeOne(ctx context.Context, ep probe.Endpoint, timeout time.Duration) probe.Result {
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}

	tr := otel.Tracer("prober")
	ctx, span := tr.Start(ctx, "prober.probe", trace.WithAttributes(
		attribute.String("url.full", string(ep)),
		attribute.Int64("probe.timeout_ms", timeout.Milliseconds()),
	))
	defer span.End()

	log := obs.WithTrace(ctx, p.log, zap.String("endpoint", string(ep)))

	start := p.now()
	code, err := p.get(ctx, normalizeURL(string(ep)), timeout)
	end := p.now()

	res := probe.Result{
		URL:       string(ep),
		Latency:   end.Sub(start),
		CheckedAt: end.UTC(),
	}
	if err != nil {
		res.Error = errorText(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Error)
		span.SetAttributes(attribute.Bool("probe.reachable", false))
		log.Warn("endpoint unreachable", zap.String("error", res.Error), zap.Duration("latency", res.Latency))
		return res
	}

	res.Reachable = true
	res.StatusCode = code
	span.SetAttributes(
		attribute.Bool("probe.reachable", true),
		attribute.Int("http.response.status_code", code),
	)
	log.Info("endpoint reachable", zap.Int("status", code), zap.Duration("latency", res.Latency))
	return res
}

// RunProbes probes every endpoint and returns one Result per endpoint in input
// order. Reporters see results in input order as well.
func (p *Prober) RunProbes(ctx context.Context, endpoints []probe.Endpoint, timeout time.Duration) probe.Run {
	tr := otel.Tracer("prober")
	ctx, span := tr.Start(ctx, "prober.run", trace.WithAttributes(
		attribute.Int("probe.endpoints", len(endpoints)),
		attribute.Int("probe.concurrency", p.cfg.Concurrency),
	))
	defer span.End()

	run := make(probe.Run, len(endpoints))
	p.reporter.Begin(ctx, endpoints)

	if p.cfg.Concurrency <= 1 || len(endpoints) < 2 {
		for i, ep := range endpoints {
			run[i] = p.ProbeOne(ctx, ep, timeout)
			p.reporter.Report(ctx, run[i])
		}
	} else {
		var g errgroup.Group
		g.SetLimit(p.cfg.Concurrency)
		for i, ep := range endpoints {
			i, ep := i, ep
			g.Go(func() error {
				run[i] = p.ProbeOne(ctx, ep, timeout)
				return nil
			})
		}
		_ = g.Wait()
		for _, r := range run {
			p.reporter.Report(ctx, r)
		}
	}

	span.SetAttributes(
		attribute.Int("probe.reachable", run.Reachable()),
		attribute.Int("probe.unreachable", run.Unreachable()),
	)
	p.reporter.End(ctx, run)
	return run
}

func (p *Prober) RunDefaultSuite(ctx context.Context) probe.Run {
	return p.RunProbes(ctx, p.cfg.Endpoints, p.cfg.Timeout)
}

func (p *Prober) get(ctx context.Context, url string, timeout time.Duration) (int, error) {
	if url == "" {
		return 0, errEmptyEndpoint
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func normalizeURL(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return t
	}
	if strings.Contains(t, "://") {
		return t
	}
	return "http://" + t
}

func errorText(err error) string {
	if s := err.Error(); s != "" {
		return s
	}
	return "unknown transport error"
}
