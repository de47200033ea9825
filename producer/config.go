package producer

import (
	"time"

	"github.com/pkg/errors"
)

// Config is used to configure the Producer. It is read once when the
// Producer is created and never modified afterwards.
type Config struct {
	// Topic receives every message published by the Producer.
	Topic string
	// Retry controls PublishResilient.
	Retry RetryConfig
	// Timeout bounds every attempt.
	Timeout TimeoutConfig
}

// RetryConfig configures the retry policy.
type RetryConfig struct {
	// Enabled selects PublishResilient when calling Publish.
	Enabled bool
	// MaxAttempts is the number of retries after the first attempt.
	// Zero means a single attempt.
	MaxAttempts uint
	// Delay is the constant wait between two attempts.
	Delay time.Duration
}

// TimeoutConfig configures the per-attempt deadline.
type TimeoutConfig struct {
	// PerAttempt bounds every attempt. Zero disables the deadline,
	// which is only allowed when retry is disabled.
	PerAttempt time.Duration
}

// NewConfig creates a config with sane defaults: retry enabled with
// 3 retries spaced by 100ms, and a 5 seconds budget per attempt.
func NewConfig(topic string) Config {
	return Config{
		Topic: topic,
		Retry: RetryConfig{
			Enabled:     true,
			MaxAttempts: 3,
			Delay:       100 * time.Millisecond,
		},
		Timeout: TimeoutConfig{
			PerAttempt: 5 * time.Second,
		},
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.Topic == "" {
		return errors.New("producer requires a non-empty topic")
	}
	if c.Retry.Delay < 0 {
		return errors.Errorf("retry delay must not be negative, got %v", c.Retry.Delay)
	}
	if c.Timeout.PerAttempt < 0 {
		return errors.Errorf("per-attempt timeout must not be negative, got %v", c.Timeout.PerAttempt)
	}
	if c.Retry.Enabled && c.Timeout.PerAttempt == 0 {
		return errors.New("per-attempt timeout is required when retry is enabled")
	}
	return nil
}
