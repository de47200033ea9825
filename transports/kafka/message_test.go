package kafka

import (
	"testing"

	"github.com/Shopify/sarama"
	qt "github.com/frankban/quicktest"

	"github.com/heetch/courier/envelope"
)

func TestToProducerMessage(t *testing.T) {
	c := qt.New(t)

	env := envelope.New("key", []byte("value"), map[string]string{
		"b": "2",
		"a": "1",
	})
	msg := toProducerMessage("topic", env)
	c.Assert(msg.Topic, qt.Equals, "topic")
	c.Assert(msg.Key, qt.Equals, sarama.Encoder(sarama.StringEncoder("key")))
	c.Assert(msg.Value, qt.DeepEquals, sarama.Encoder(sarama.ByteEncoder("value")))
	c.Assert(msg.Headers, qt.DeepEquals, []sarama.RecordHeader{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	})
}

func TestToProducerMessageEmptyKey(t *testing.T) {
	c := qt.New(t)

	msg := toProducerMessage("topic", envelope.New("", []byte("value"), nil))
	c.Assert(msg.Key, qt.IsNil)
	c.Assert(msg.Headers, qt.HasLen, 0)
}
