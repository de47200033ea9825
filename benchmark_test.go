package courier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/heetch/kafkatest"

	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/producer"
	"github.com/heetch/courier/transports/kafka"
)

// errorTally counts errors by message.
type errorTally struct {
	mu     sync.Mutex
	counts map[string]int
}

func (t *errorTally) Debug(string, ...interface{}) {}
func (t *errorTally) Info(string, ...interface{})  {}
func (t *errorTally) Warn(string, ...interface{})  {}

func (t *errorTally) Error(msg string, args ...interface{}) {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "err" {
			msg = fmt.Sprint(args[i+1])
		}
	}
	t.mu.Lock()
	t.counts[msg]++
	t.mu.Unlock()
}

func (t *errorTally) String() string {
	output := "\n"
	for m, c := range t.counts {
		output += fmt.Sprintf("|| %d\t\t: \"%s\"\n", c, m)
	}
	return output
}

func BenchmarkPublishResilient(b *testing.B) {
	client := producer.ClientFunc(func(_ context.Context, topic string, _ envelope.Envelope) (producer.Receipt, error) {
		return producer.Receipt{Topic: topic}, nil
	})
	p, err := producer.New[string](client, producer.NewConfig("benchmark.test"))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		p.PublishResilient(context.Background(), "some key", "some body")
	}
}

func BenchmarkPublishToKafka(b *testing.B) {
	kt, err := kafkatest.New()
	if errors.Is(err, kafkatest.ErrDisabled) {
		b.Skip("skipping integration benchmark")
	}
	if err != nil {
		b.Fatal(err)
	}
	defer kt.Close()

	config := kafka.NewConfig("benchmark")
	kt.InitConfig(&config.Config)
	client, err := kafka.Dial(config, 10*time.Second, kt.Addrs()...)
	if err != nil {
		b.Fatal(err)
	}
	defer client.Close()

	tally := &errorTally{counts: make(map[string]int)}
	p, err := producer.New[string](client, producer.NewConfig(kt.NewTopic()), producer.WithLogger(tally))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		p.PublishResilient(context.Background(), "some key", "some body")
	}
	b.StopTimer()
	b.Log(tally)
}
