// Package metrics exports producer telemetry to Prometheus.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/heetch/courier/producer"
)

// Prometheus implements producer.Metrics with counters and a histogram
// labelled by topic.
type Prometheus struct {
	attempts  *prometheus.CounterVec
	published *prometheus.CounterVec
	retries   *prometheus.CounterVec
	timeouts  *prometheus.CounterVec
	exhausted *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ producer.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courier",
			Name:      name,
			Help:      help,
		}, []string{"topic"})
	}

	p := &Prometheus{
		attempts:  counter("publish_attempts_total", "Number of calls made to the broker client."),
		published: counter("published_total", "Number of messages delivered."),
		retries:   counter("publish_retries_total", "Number of failed attempts that were retried."),
		timeouts:  counter("publish_timeouts_total", "Number of attempts that exceeded their timeout."),
		exhausted: counter("publish_exhausted_total", "Number of resilient publishes that gave up."),
		dropped:   counter("publish_dropped_total", "Number of messages dropped after an encoding or best-effort failure."),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courier",
			Name:      "publish_duration_seconds",
			Help:      "Duration of publish calls, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"topic"}),
	}

	for _, c := range []prometheus.Collector{p.attempts, p.published, p.retries, p.timeouts, p.exhausted, p.dropped, p.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}
	return p, nil
}

func (p *Prometheus) AddAttempt(topic string)   { p.attempts.WithLabelValues(topic).Inc() }
func (p *Prometheus) AddPublished(topic string) { p.published.WithLabelValues(topic).Inc() }
func (p *Prometheus) AddRetry(topic string)     { p.retries.WithLabelValues(topic).Inc() }
func (p *Prometheus) AddTimeout(topic string)   { p.timeouts.WithLabelValues(topic).Inc() }
func (p *Prometheus) AddExhausted(topic string) { p.exhausted.WithLabelValues(topic).Inc() }
func (p *Prometheus) AddDropped(topic string)   { p.dropped.WithLabelValues(topic).Inc() }

func (p *Prometheus) ObservePublish(topic string, d time.Duration) {
	p.duration.WithLabelValues(topic).Observe(d.Seconds())
}
