package kafka_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/require"

	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/transports/kafka"
)

func TestSend(t *testing.T) {
	msp := mocks.NewSyncProducer(t, nil)
	c := kafka.NewFrom(msp)
	defer c.Close()

	env := envelope.New("key", []byte(`"message"`), map[string]string{envelope.HeaderMessageID: "some-id"})

	msp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		exp := "\"message\""
		if string(val) != exp {
			return fmt.Errorf("expected: %s but got: %s", exp, val)
		}
		return nil
	})
	receipt, err := c.Send(context.Background(), "topic", env)
	require.NoError(t, err)
	require.Equal(t, "topic", receipt.Topic)

	msp.ExpectSendMessageAndFail(fmt.Errorf("cannot produce message"))
	_, err = c.Send(context.Background(), "topic", env)
	require.EqualError(t, err, "cannot produce message")
}

type blockingProducer struct {
	sarama.SyncProducer
	release chan struct{}
}

func (p *blockingProducer) SendMessage(*sarama.ProducerMessage) (int32, int64, error) {
	<-p.release
	return 0, 0, nil
}

func TestSendReturnsWhenContextIsDone(t *testing.T) {
	bp := &blockingProducer{release: make(chan struct{})}
	defer close(bp.release)
	c := kafka.NewFrom(bp)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, "topic", envelope.New("key", nil, nil))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDialFailsAfterLimit(t *testing.T) {
	config := kafka.NewConfig("test")
	config.Net.DialTimeout = 10 * time.Millisecond
	config.Metadata.Retry.Max = 0

	_, err := kafka.Dial(config, 50*time.Millisecond, "127.0.0.1:1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot connect to Kafka cluster")
}
