// Package kafkago implements producer.Client with the segmentio/kafka-go
// Writer, for services that do not want to depend on sarama.
package kafkago

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	kafka "github.com/segmentio/kafka-go"

	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/producer"
)

// Writer is the part of *kafka.Writer used by Client.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Client sends envelopes with a kafka-go Writer. The Writer reports
// neither partition nor offset, so receipts carry -1 for both.
type Client struct {
	w Writer
}

var _ producer.Client = (*Client)(nil)

// New creates a Client writing synchronously to the given brokers and
// waiting for every in-sync replica.
func New(addrs ...string) *Client {
	return NewFrom(&kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	})
}

// NewFrom creates a Client using the given Writer. The Writer must not
// have a Topic set.
func NewFrom(w Writer) *Client {
	return &Client{w: w}
}

// Send implements producer.Client.
func (c *Client) Send(ctx context.Context, topic string, env envelope.Envelope) (producer.Receipt, error) {
	if err := c.w.WriteMessages(ctx, toMessage(topic, env)); err != nil {
		return producer.Receipt{}, errors.Wrap(err, "failed to write message")
	}
	return producer.Receipt{Topic: topic, Partition: -1, Offset: -1}, nil
}

// Close flushes pending writes and closes the Writer.
func (c *Client) Close() error {
	return c.w.Close()
}

func toMessage(topic string, env envelope.Envelope) kafka.Message {
	msg := kafka.Message{
		Topic: topic,
		Value: env.Value(),
	}
	if env.Key() != "" {
		msg.Key = []byte(env.Key())
	}

	headers := env.Headers()
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(headers[k])})
	}
	return msg
}
