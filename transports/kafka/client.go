// Package kafka implements producer.Client on top of a sarama
// SyncProducer.
package kafka

import (
	"context"
	"sort"
	"time"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"gopkg.in/retry.v1"

	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/producer"
)

// Client sends envelopes to Kafka synchronously: Send returns once every
// in-sync replica acknowledged the message, or failed to.
type Client struct {
	producer sarama.SyncProducer
}

var _ producer.Client = (*Client)(nil)

// New creates a Client connected to the given brokers.
func New(config Config, addrs ...string) (*Client, error) {
	p, err := sarama.NewSyncProducer(addrs, &config.Config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a producer")
	}

	return NewFrom(p), nil
}

// Dial is like New but keeps trying to connect for up to limit, backing
// off exponentially, since the cluster might not be available immediately.
func Dial(config Config, limit time.Duration, addrs ...string) (*Client, error) {
	strategy := retry.LimitTime(limit, retry.Exponential{
		Initial:  10 * time.Millisecond,
		Factor:   2,
		MaxDelay: time.Second,
	})

	var err error
	for a := retry.Start(strategy, nil); a.Next(); {
		var c *Client
		c, err = New(config, addrs...)
		if err == nil {
			return c, nil
		}
	}
	return nil, errors.Wrapf(err, "cannot connect to Kafka cluster at %q after %v", addrs, limit)
}

// NewFrom creates a Client using the given SyncProducer. Useful when
// sharing the same underlying connection between several clients.
func NewFrom(p sarama.SyncProducer) *Client {
	return &Client{producer: p}
}

// Send implements producer.Client. The SyncProducer cannot be
// interrupted, so when ctx is done first Send returns ctx.Err() and the
// message may still be delivered later.
func (c *Client) Send(ctx context.Context, topic string, env envelope.Envelope) (producer.Receipt, error) {
	msg := toProducerMessage(topic, env)

	type result struct {
		partition int32
		offset    int64
		err       error
	}
	done := make(chan result, 1)
	go func() {
		var r result
		r.partition, r.offset, r.err = c.producer.SendMessage(msg)
		done <- r
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return producer.Receipt{}, r.err
		}
		return producer.Receipt{Topic: topic, Partition: r.partition, Offset: r.offset}, nil
	case <-ctx.Done():
		return producer.Receipt{}, ctx.Err()
	}
}

// Close shuts down the underlying producer.
func (c *Client) Close() error {
	return c.producer.Close()
}

func toProducerMessage(topic string, env envelope.Envelope) *sarama.ProducerMessage {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(env.Value()),
	}

	if env.Key() != "" {
		msg.Key = sarama.StringEncoder(env.Key())
	}

	headers := env.Headers()
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(headers[k]),
		})
	}

	return msg
}
