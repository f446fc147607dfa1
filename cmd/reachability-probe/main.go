package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	config "github.com/eakomdo/reachprobe/internal/config/prober"
	"github.com/eakomdo/reachprobe/internal/domain/probe"
	"github.com/eakomdo/reachprobe/internal/obs"
	"github.com/eakomdo/reachprobe/internal/repository/kafka"
	"github.com/eakomdo/reachprobe/internal/services/prober"
)

func wire(root context.Context, cfg *config.Config, l *zap.Logger) (*prober.Runner, func()) {
	closers := []func(){}

	reporters := prober.Reporters{
		prober.NewConsoleReporter(os.Stdout),
		prober.NewMetricsReporter(prometheus.DefaultRegisterer),
	}

	if cfg.Kafka.Enable {
		ectx, cancel := context.WithTimeout(root, 10*time.Second)
		_ = kafka.EnsureTopic(ectx, cfg.Kafka.Brokers, kafka.TopicSpec{Name: cfg.Kafka.Topic}, l)
		cancel()
		prod := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(l)
		closers = append(closers, func() { _ = prod.Close() })
		reporters = append(reporters, prober.NewEventsReporter(kafka.NewResultEvents(prod), l))
	}

	endpoints := make([]probe.Endpoint, 0, len(cfg.Probe.Endpoints))
	for _, ep := range cfg.Probe.Endpoints {
		endpoints = append(endpoints, probe.Endpoint(ep))
	}

	httpc := prober.NewHTTPClient(prober.HTTPConfig{
		DialTimeout:     cfg.Probe.Timeout,
		FollowRedirects: cfg.Probe.FollowRedirects,
		VerifyTLS:       cfg.Probe.VerifyTLS,
	})
	p := prober.New(l, httpc, prober.Config{
		Endpoints:   endpoints,
		Timeout:     cfg.Probe.Timeout,
		Concurrency: cfg.Probe.Concurrency,
		UserAgent:   cfg.Probe.UserAgent,
	}, reporters)

	return prober.NewRunner(l, p, cfg.Probe.Interval), func() {
		for _, c := range closers {
			c()
		}
	}
}

func main() {
	// init
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(os.Getenv("PROBE_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	l.Debug("starting reachability probe",
		zap.Strings("endpoints", cfg.Probe.Endpoints),
		zap.Duration("timeout", cfg.Probe.Timeout),
		zap.Duration("interval", cfg.Probe.Interval),
	)

	// otel
	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// metrics
	if cfg.Server.MetricsAddr != "" {
		ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, prometheus.DefaultGatherer, nil, l)
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = ms.Shutdown(shCtx)
		}()
	}

	// wiring
	runner, closeAll := wire(root, cfg, l)
	defer closeAll()

	// run
	if err := runner.Run(root); err != nil && !errors.Is(err, context.Canceled) {
		l.Error("runner error", zap.Error(err))
	}
}
