package producer

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/heetch/courier/codec"
	"github.com/heetch/courier/common"
	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/policy"
)

const (
	methodBestEffort = "PublishBestEffort"
	methodResilient  = "PublishResilient"
)

// Producer publishes messages of type T to the configured topic.
// None of its publish methods ever return an error: failures are
// reported through the Logger and Metrics. A Producer holds no mutable
// state and is safe for concurrent use.
type Producer[T any] struct {
	client  Client
	config  Config
	builder *envelope.Builder[T]
	logger  common.Logger
	metrics Metrics
}

type options struct {
	logger  common.Logger
	metrics Metrics
	codec   codec.Codec
}

// Option configures a Producer.
type Option func(*options)

// WithLogger sets the logger receiving failure events.
// Defaults to common.NopLogger.
func WithLogger(logger common.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Defaults to NopMetrics.
func WithMetrics(metrics Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithCodec sets the codec used to encode messages. Defaults to codec.JSON.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// New creates a Producer publishing through client.
func New[T any](client Client, config Config, opts ...Option) (*Producer[T], error) {
	if client == nil {
		return nil, errors.New("producer requires a non-nil client")
	}
	if err := config.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid producer configuration")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = common.NopLogger{}
	}
	if o.metrics == nil {
		o.metrics = NopMetrics{}
	}

	return &Producer[T]{
		client:  client,
		config:  config,
		builder: envelope.NewBuilder[T](o.codec),
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// Config returns the configuration the Producer was created with.
func (p *Producer[T]) Config() Config {
	return p.config
}

// Publish uses PublishResilient when retry is enabled in the
// configuration and PublishBestEffort otherwise.
func (p *Producer[T]) Publish(ctx context.Context, key string, message T, opts ...envelope.Option) {
	if p.config.Retry.Enabled {
		p.PublishResilient(ctx, key, message, opts...)
		return
	}
	p.PublishBestEffort(ctx, key, message, opts...)
}

// PublishBestEffort makes exactly one attempt to send message. Any
// failure is logged and swallowed.
func (p *Producer[T]) PublishBestEffort(ctx context.Context, key string, message T, opts ...envelope.Option) {
	defer p.observe(time.Now())

	env, ok := p.build(methodBestEffort, key, message, opts)
	if !ok {
		return
	}

	err := p.send(ctx, env)
	switch {
	case err == nil:
		p.report(outcome{kind: outcomeSuccess, method: methodBestEffort, key: key, attempt: 1})
	case ctx.Err() != nil:
		p.report(outcome{kind: outcomeCancelled, method: methodBestEffort, key: key, attempt: 1, cause: err})
	default:
		p.report(outcome{kind: outcomeDropped, method: methodBestEffort, key: key, cause: err})
	}
}

// PublishResilient sends message under the retry policy, every attempt
// being bounded by the per-attempt timeout. It returns once the message
// is delivered, every attempt has failed, or ctx is done. Nothing is
// returned to the caller in any case.
//
// The envelope is built once, so every attempt carries the same
// Message-Id.
func (p *Producer[T]) PublishResilient(ctx context.Context, key string, message T, opts ...envelope.Option) {
	defer p.observe(time.Now())

	env, ok := p.build(methodResilient, key, message, opts)
	if !ok {
		return
	}

	attempt := 0
	deadline := policy.Deadline{
		Timeout: p.config.Timeout.PerAttempt,
		OnTimeout: func(timeout, elapsed time.Duration) {
			p.report(outcome{
				kind:    outcomeTimedOut,
				method:  methodResilient,
				key:     key,
				attempt: attempt,
				timeout: timeout,
				elapsed: elapsed,
			})
		},
	}
	retry := policy.RetryPolicy{
		MaxAttempts: p.config.Retry.MaxAttempts,
		Delay:       p.config.Retry.Delay,
		OnRetry: func(e policy.RetryEvent) {
			p.report(outcome{
				kind:    outcomeAttemptFailed,
				method:  methodResilient,
				key:     key,
				attempt: e.Attempt,
				delay:   e.Delay,
				cause:   e.Err,
			})
		},
	}

	timed := deadline.Wrap(func(ctx context.Context) error {
		return p.send(ctx, env)
	})
	err := policy.Retry(ctx, retry, func(ctx context.Context) error {
		attempt++
		return timed(ctx)
	})

	var (
		exhausted *policy.ExhaustedError
		cancelled *policy.CancelledError
	)
	switch {
	case err == nil:
		p.report(outcome{kind: outcomeSuccess, method: methodResilient, key: key, attempt: attempt})
	case errors.As(err, &cancelled):
		p.report(outcome{kind: outcomeCancelled, method: methodResilient, key: key, attempt: cancelled.Attempts, cause: cancelled.Err})
	case errors.As(err, &exhausted):
		p.report(outcome{kind: outcomeExhausted, method: methodResilient, key: key, attempt: exhausted.Attempts, cause: exhausted.Err})
	}
}

func (p *Producer[T]) build(method, key string, message T, opts []envelope.Option) (envelope.Envelope, bool) {
	env, err := p.builder.Build(key, message, opts...)
	if err != nil {
		p.report(outcome{kind: outcomeEncodingFailed, method: method, key: key, cause: err})
		return envelope.Envelope{}, false
	}
	return env, true
}

// send makes a single call to the client. A panicking client is turned
// into a failed attempt.
func (p *Producer[T]) send(ctx context.Context, env envelope.Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pkgerrors.Errorf("broker client panic: %v", r)
		}
	}()

	p.safely(func() { p.metrics.AddAttempt(p.config.Topic) })
	_, err = p.client.Send(ctx, p.config.Topic, env)
	return pkgerrors.Wrap(err, "failed to send message")
}

func (p *Producer[T]) observe(start time.Time) {
	p.safely(func() { p.metrics.ObservePublish(p.config.Topic, time.Since(start)) })
}

func (p *Producer[T]) safely(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
