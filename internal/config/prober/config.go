package prober_config

import (
	"time"

	"github.com/eakomdo/reachprobe/internal/obs"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// Probe controls the HTTP reachability suite.
type Probe struct {
	Endpoints       []string      `mapstructure:"endpoints"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Concurrency     int           `mapstructure:"concurrency"`
	Interval        time.Duration `mapstructure:"interval"` // 0 = single run
	UserAgent       string        `mapstructure:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	VerifyTLS       bool          `mapstructure:"verify_tls"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type Kafka struct {
	Enable  bool     `mapstructure:"enable"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

type Config struct {
	App    App    `mapstructure:"app"`
	Probe  Probe  `mapstructure:"probe"`
	Server Server `mapstructure:"server"`
	Kafka  Kafka  `mapstructure:"kafka"`
	OTEL   OTEL   `mapstructure:"otel"`
	Log    Log    `mapstructure:"log"`
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }

const (
	ErrNegativeTimeout  ErrConfig = "probe.timeout must not be negative"
	ErrNegativeInterval ErrConfig = "probe.interval must not be negative"
	ErrKafkaBrokers     ErrConfig = "kafka.brokers required when kafka is enabled"
	ErrKafkaTopic       ErrConfig = "kafka.topic required when kafka is enabled"
)
