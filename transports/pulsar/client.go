// Package pulsar implements producer.Client on Apache Pulsar. Envelope
// headers travel as message properties.
package pulsar

import (
	"context"
	"sync"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/pkg/errors"

	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/producer"
)

type sender interface {
	Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error)
	Close()
}

// Client sends envelopes to Pulsar. One Pulsar producer is created per
// topic on first use and reused afterwards.
type Client struct {
	client    pulsar.Client
	newSender func(topic string) (sender, error)

	mu      sync.Mutex
	senders map[string]sender
}

var _ producer.Client = (*Client)(nil)

// New connects to the Pulsar cluster at url.
func New(url string) (*Client, error) {
	pc, err := pulsar.NewClient(pulsar.ClientOptions{URL: url})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pulsar client")
	}
	return NewFrom(pc), nil
}

// NewFrom creates a Client using an existing Pulsar client, which Close
// also closes.
func NewFrom(pc pulsar.Client) *Client {
	c := newClient(func(topic string) (sender, error) {
		return pc.CreateProducer(pulsar.ProducerOptions{Topic: topic})
	})
	c.client = pc
	return c
}

func newClient(newSender func(topic string) (sender, error)) *Client {
	return &Client{
		newSender: newSender,
		senders:   make(map[string]sender),
	}
}

// Send implements producer.Client. Receipts carry the partition index
// and the entry id of the stored message.
func (c *Client) Send(ctx context.Context, topic string, env envelope.Envelope) (producer.Receipt, error) {
	s, err := c.sender(topic)
	if err != nil {
		return producer.Receipt{}, err
	}

	id, err := s.Send(ctx, toProducerMessage(env))
	if err != nil {
		return producer.Receipt{}, errors.Wrap(err, "failed to send message")
	}
	return producer.Receipt{Topic: topic, Partition: id.PartitionIdx(), Offset: id.EntryID()}, nil
}

func (c *Client) sender(topic string) (sender, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.senders[topic]; ok {
		return s, nil
	}
	s, err := c.newSender(topic)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create producer for topic %q", topic)
	}
	c.senders[topic] = s
	return s, nil
}

// Close closes every producer, then the Pulsar client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for topic, s := range c.senders {
		s.Close()
		delete(c.senders, topic)
	}
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

func toProducerMessage(env envelope.Envelope) *pulsar.ProducerMessage {
	return &pulsar.ProducerMessage{
		Key:        env.Key(),
		Payload:    env.Value(),
		Properties: env.Headers(),
	}
}
