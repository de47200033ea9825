// Package config loads the courier command configuration from a YAML
// file and COURIER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/heetch/courier/producer"
)

// Broker drivers.
const (
	DriverKafka    = "kafka"
	DriverKafkaGo  = "kafkago"
	DriverPulsar   = "pulsar"
	DriverRabbitMQ = "rabbitmq"
)

type Config struct {
	Producer ProducerConfig `yaml:"producer"`
	Broker   BrokerConfig   `yaml:"broker"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

type ProducerConfig struct {
	Topic   string        `yaml:"topic"`
	Retry   RetryConfig   `yaml:"retry"`
	Timeout TimeoutConfig `yaml:"timeout"`
}

type RetryConfig struct {
	Enabled     bool `yaml:"enabled"`
	MaxAttempts int  `yaml:"max_attempts"`
	DelayMS     int  `yaml:"delay_ms"`
}

type TimeoutConfig struct {
	Seconds float64 `yaml:"seconds"`
}

type BrokerConfig struct {
	Driver      string        `yaml:"driver"`
	ClientID    string        `yaml:"client_id"`
	Addrs       []string      `yaml:"addrs"`
	URL         string        `yaml:"url"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type MetricsConfig struct {
	// Addr is where Prometheus metrics are served. Empty disables them.
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used for every field the file and
// the environment leave unset.
func Default() Config {
	return Config{
		Producer: ProducerConfig{
			Retry:   RetryConfig{Enabled: true, MaxAttempts: 3, DelayMS: 100},
			Timeout: TimeoutConfig{Seconds: 5},
		},
		Broker: BrokerConfig{
			Driver:      DriverKafka,
			ClientID:    "courier",
			Addrs:       []string{"localhost:9092"},
			DialTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the file at path, if any, on top of Default, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, pkgerrors.Wrap(err, "cannot read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, pkgerrors.Wrap(err, "cannot parse config")
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, pkgerrors.Wrap(err, "invalid environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, pkgerrors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %q is not an integer", name, v))
				return
			}
			*dst = n
		}
	}

	str("COURIER_TOPIC", &c.Producer.Topic)
	if v, ok := lookup("COURIER_RETRY_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("COURIER_RETRY_ENABLED: %q is not a boolean", v))
		} else {
			c.Producer.Retry.Enabled = b
		}
	}
	integer("COURIER_RETRY_MAX_ATTEMPTS", &c.Producer.Retry.MaxAttempts)
	integer("COURIER_RETRY_DELAY_MS", &c.Producer.Retry.DelayMS)
	if v, ok := lookup("COURIER_TIMEOUT_SECONDS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("COURIER_TIMEOUT_SECONDS: %q is not a number", v))
		} else {
			c.Producer.Timeout.Seconds = f
		}
	}
	str("COURIER_BROKER_DRIVER", &c.Broker.Driver)
	str("COURIER_BROKER_CLIENT_ID", &c.Broker.ClientID)
	if v, ok := lookup("COURIER_BROKER_ADDRS"); ok {
		c.Broker.Addrs = strings.Split(v, ",")
	}
	str("COURIER_BROKER_URL", &c.Broker.URL)
	str("COURIER_METRICS_ADDR", &c.Metrics.Addr)
	str("COURIER_LOG_LEVEL", &c.Log.Level)

	return errors.Join(errs...)
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error

	p := c.Producer
	if p.Topic == "" {
		errs = append(errs, errors.New("producer.topic is required"))
	}
	if p.Retry.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("producer.retry.max_attempts %d must be >= 0", p.Retry.MaxAttempts))
	}
	if p.Retry.DelayMS < 0 {
		errs = append(errs, fmt.Errorf("producer.retry.delay_ms %d must be >= 0", p.Retry.DelayMS))
	}
	if p.Timeout.Seconds < 0 {
		errs = append(errs, fmt.Errorf("producer.timeout.seconds %v must be >= 0", p.Timeout.Seconds))
	}
	if p.Retry.Enabled && p.Timeout.Seconds == 0 {
		errs = append(errs, errors.New("producer.timeout.seconds is required when retry is enabled"))
	}

	b := c.Broker
	switch b.Driver {
	case DriverKafka, DriverKafkaGo:
		if len(b.Addrs) == 0 {
			errs = append(errs, fmt.Errorf("broker.addrs is required by the %s driver", b.Driver))
		}
	case DriverPulsar, DriverRabbitMQ:
		if b.URL == "" {
			errs = append(errs, fmt.Errorf("broker.url is required by the %s driver", b.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown broker.driver %q", b.Driver))
	}
	if b.DialTimeout < 0 {
		errs = append(errs, fmt.Errorf("broker.dial_timeout %v must be >= 0", b.DialTimeout))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %v", err))
	}

	return errors.Join(errs...)
}

// ProducerConfig converts the producer section to a producer.Config.
func (c Config) ProducerConfig() producer.Config {
	p := c.Producer
	return producer.Config{
		Topic: p.Topic,
		Retry: producer.RetryConfig{
			Enabled:     p.Retry.Enabled,
			MaxAttempts: uint(p.Retry.MaxAttempts),
			Delay:       time.Duration(p.Retry.DelayMS) * time.Millisecond,
		},
		Timeout: producer.TimeoutConfig{
			PerAttempt: time.Duration(p.Timeout.Seconds * float64(time.Second)),
		},
	}
}
