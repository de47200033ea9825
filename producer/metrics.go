package producer

import "time"

// Metrics captures producer telemetry. Every method receives the topic
// the Producer publishes to.
type Metrics interface {
	// AddAttempt counts a call to Client.Send.
	AddAttempt(topic string)
	// AddPublished counts a delivered message.
	AddPublished(topic string)
	// AddRetry counts a failed attempt that will be retried.
	AddRetry(topic string)
	// AddTimeout counts an attempt that exceeded its deadline.
	AddTimeout(topic string)
	// AddExhausted counts a resilient publish that gave up.
	AddExhausted(topic string)
	// AddDropped counts a message that was never delivered for any
	// other reason: encoding failure or best-effort send failure.
	AddDropped(topic string)
	// ObservePublish records the duration of a whole publish call.
	ObservePublish(topic string, d time.Duration)
}

// NopMetrics is a no-op metrics recorder.
type NopMetrics struct{}

func (NopMetrics) AddAttempt(string)                    {}
func (NopMetrics) AddPublished(string)                  {}
func (NopMetrics) AddRetry(string)                      {}
func (NopMetrics) AddTimeout(string)                    {}
func (NopMetrics) AddExhausted(string)                  {}
func (NopMetrics) AddDropped(string)                    {}
func (NopMetrics) ObservePublish(string, time.Duration) {}
