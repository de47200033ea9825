package producer

import "time"

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeAttemptFailed
	outcomeTimedOut
	outcomeExhausted
	outcomeCancelled
	outcomeEncodingFailed
	outcomeDropped
)

// outcome is what happened to a publish call, or to one of its attempts.
// Outcomes only exist to be reported; they are never retained.
type outcome struct {
	kind    outcomeKind
	method  string
	key     string
	attempt int
	delay   time.Duration
	timeout time.Duration
	elapsed time.Duration
	cause   error
}

// report is the only place publish outcomes turn into log events and
// metrics. A misbehaving logger or metrics sink must not change the
// result of a publish, so panics are swallowed here.
func (p *Producer[T]) report(o outcome) {
	defer func() {
		_ = recover()
	}()

	topic := p.config.Topic
	switch o.kind {
	case outcomeSuccess:
		p.metrics.AddPublished(topic)

	case outcomeAttemptFailed:
		p.metrics.AddRetry(topic)
		p.logger.Warn("publish attempt has failed, resending",
			"method", o.method,
			"attempt", o.attempt,
			"delay", o.delay,
			"retry", p.config.Retry,
			"topic", topic,
			"key", o.key,
			"err", o.cause,
		)

	case outcomeTimedOut:
		p.metrics.AddTimeout(topic)
		p.logger.Error("publish attempt timeout",
			"method", o.method,
			"attempt", o.attempt,
			"timeout", o.timeout,
			"elapsed", o.elapsed,
			"topic", topic,
			"key", o.key,
		)

	case outcomeExhausted:
		p.metrics.AddExhausted(topic)
		p.logger.Error("all publish attempts have failed",
			"method", o.method,
			"attempts", o.attempt,
			"retry", p.config.Retry,
			"topic", topic,
			"key", o.key,
			"err", o.cause,
		)

	case outcomeCancelled:
		p.logger.Debug("publish cancelled",
			"method", o.method,
			"attempts", o.attempt,
			"topic", topic,
			"key", o.key,
			"err", o.cause,
		)

	case outcomeEncodingFailed:
		p.metrics.AddDropped(topic)
		p.logger.Error("failed to encode message",
			"method", o.method,
			"topic", topic,
			"key", o.key,
			"err", o.cause,
		)

	case outcomeDropped:
		p.metrics.AddDropped(topic)
		p.logger.Error("unhandled error producing message",
			"method", o.method,
			"topic", topic,
			"key", o.key,
			"err", o.cause,
		)
	}
}
