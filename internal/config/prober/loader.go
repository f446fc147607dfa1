package prober_config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/eakomdo/reachprobe/internal/domain/probe"
)

func defaultEndpoints() []string {
	out := make([]string, 0, len(probe.DefaultEndpoints))
	for _, ep := range probe.DefaultEndpoints {
		out = append(out, string(ep))
	}
	return out
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetDefault("app.name", "reachability-probe")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.version", "")

	v.SetDefault("probe.endpoints", defaultEndpoints())
	v.SetDefault("probe.timeout", probe.DefaultTimeout.String())
	v.SetDefault("probe.concurrency", 1)
	v.SetDefault("probe.interval", "0s")
	v.SetDefault("probe.user_agent", "")
	v.SetDefault("probe.follow_redirects", true)
	v.SetDefault("probe.verify_tls", true)

	v.SetDefault("server.metrics_addr", "")

	v.SetDefault("kafka.enable", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", "reachprobe.results")

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "reachability-probe")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Probe.Timeout < 0 {
		return ErrNegativeTimeout
	}
	if c.Probe.Interval < 0 {
		return ErrNegativeInterval
	}
	if c.Probe.Concurrency < 1 {
		c.Probe.Concurrency = 1
	}
	if c.Kafka.Enable {
		if len(c.Kafka.Brokers) == 0 {
			return ErrKafkaBrokers
		}
		if c.Kafka.Topic == "" {
			return ErrKafkaTopic
		}
	}
	return nil
}
