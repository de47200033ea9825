package producer

import (
	"context"

	"github.com/heetch/courier/envelope"
)

// Client is the broker capability the Producer publishes through.
// Implementations live under the transports directory. A Client must be
// safe for concurrent use and should abort Send as soon as ctx is done.
type Client interface {
	Send(ctx context.Context, topic string, env envelope.Envelope) (Receipt, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, topic string, env envelope.Envelope) (Receipt, error)

// Send implements Client.
func (f ClientFunc) Send(ctx context.Context, topic string, env envelope.Envelope) (Receipt, error) {
	return f(ctx, topic, env)
}

// Receipt describes where a message was stored. Partition and Offset are
// -1 when the broker does not expose them.
type Receipt struct {
	Topic     string
	Partition int32
	Offset    int64
}
