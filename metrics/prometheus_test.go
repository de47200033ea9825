package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/producer"
)

func TestPrometheusCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheus(reg)
	require.NoError(t, err)

	calls := 0
	client := producer.ClientFunc(func(_ context.Context, topic string, _ envelope.Envelope) (producer.Receipt, error) {
		calls++
		if calls <= 2 {
			return producer.Receipt{}, errors.New("kafka is down")
		}
		return producer.Receipt{Topic: topic}, nil
	})

	config := producer.NewConfig("customers")
	config.Retry.MaxAttempts = 2
	config.Retry.Delay = time.Millisecond
	p, err := producer.New[string](client, config, producer.WithMetrics(m))
	require.NoError(t, err)

	p.PublishResilient(context.Background(), "k", "v")
	p.PublishBestEffort(context.Background(), "k", "v")
	p.PublishBestEffort(context.Background(), "k", "v")

	require.Equal(t, 5.0, testutil.ToFloat64(m.attempts.WithLabelValues("customers")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.published.WithLabelValues("customers")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.retries.WithLabelValues("customers")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.dropped.WithLabelValues("customers")))
	require.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestPrometheusExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheus(reg)
	require.NoError(t, err)

	m.AddExhausted("customers")
	m.AddExhausted("customers")
	m.AddTimeout("orders")

	expected := `
# HELP courier_publish_exhausted_total Number of resilient publishes that gave up.
# TYPE courier_publish_exhausted_total counter
courier_publish_exhausted_total{topic="customers"} 2
# HELP courier_publish_timeouts_total Number of attempts that exceeded their timeout.
# TYPE courier_publish_timeouts_total counter
courier_publish_timeouts_total{topic="orders"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"courier_publish_exhausted_total", "courier_publish_timeouts_total"))
}

func TestNewPrometheusTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	require.Error(t, err)
}
