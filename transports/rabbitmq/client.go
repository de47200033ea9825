// Package rabbitmq implements producer.Client on RabbitMQ. The topic
// names the exchange and the envelope key is used as routing key.
package rabbitmq

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/producer"
)

// Channel is the part of *amqp.Channel used by Client.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Client publishes envelopes on a single AMQP channel. Channels are not
// safe for concurrent use, so publishes are serialised.
type Client struct {
	conn     *amqp.Connection
	ch       Channel
	confirms <-chan amqp.Confirmation

	mu  sync.Mutex
	tag uint64
}

var _ producer.Client = (*Client)(nil)

// Dial connects to the broker at url and opens a channel in confirm
// mode, so that Send only succeeds once the broker took responsibility
// for the message.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to open channel")
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to enable confirms")
	}

	c := NewFrom(ch, ch.NotifyPublish(make(chan amqp.Confirmation, 64)))
	c.conn = conn
	return c, nil
}

// NewFrom creates a Client publishing on ch. When confirms is not nil
// the channel must be in confirm mode and Send waits for the broker
// acknowledgement.
func NewFrom(ch Channel, confirms <-chan amqp.Confirmation) *Client {
	return &Client{ch: ch, confirms: confirms}
}

// Send implements producer.Client. Receipts carry the delivery tag as
// offset when confirms are enabled.
func (c *Client) Send(ctx context.Context, exchange string, env envelope.Envelope) (producer.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ch.PublishWithContext(ctx, exchange, env.Key(), false, false, toPublishing(env)); err != nil {
		return producer.Receipt{}, errors.Wrap(err, "failed to publish")
	}
	receipt := producer.Receipt{Topic: exchange, Partition: -1, Offset: -1}
	if c.confirms == nil {
		return receipt, nil
	}

	c.tag++
	for {
		select {
		case confirm, ok := <-c.confirms:
			if !ok {
				return producer.Receipt{}, errors.New("channel closed before confirmation")
			}
			// confirms of publishes abandoned earlier
			if confirm.DeliveryTag < c.tag {
				continue
			}
			if !confirm.Ack {
				return producer.Receipt{}, errors.Errorf("message %d was nacked", confirm.DeliveryTag)
			}
			receipt.Offset = int64(confirm.DeliveryTag)
			return receipt, nil
		case <-ctx.Done():
			return producer.Receipt{}, ctx.Err()
		}
	}
}

// Close closes the channel and, when the Client dialed it, the
// connection.
func (c *Client) Close() error {
	err := c.ch.Close()
	if c.conn != nil {
		if cerr := c.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func toPublishing(env envelope.Envelope) amqp.Publishing {
	headers := env.Headers()
	table := make(amqp.Table, len(headers))
	for k, v := range headers {
		table[k] = v
	}

	p := amqp.Publishing{
		Headers:      table,
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID(),
		Body:         env.Value(),
	}
	if t, err := time.Parse(time.RFC3339Nano, headers[envelope.HeaderProducedAt]); err == nil {
		p.Timestamp = t
	}
	return p
}
