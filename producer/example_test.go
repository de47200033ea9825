package producer_test

import (
	"context"
	"fmt"
	"time"

	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/producer"
)

type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func Example() {
	client := producer.ClientFunc(func(_ context.Context, topic string, env envelope.Envelope) (producer.Receipt, error) {
		fmt.Printf("%s %s %s\n", topic, env.Key(), env.Value())
		return producer.Receipt{Topic: topic, Partition: -1, Offset: -1}, nil
	})

	config := producer.NewConfig("customers")
	config.Retry.Delay = 10 * time.Millisecond

	p, err := producer.New[Customer](client, config)
	if err != nil {
		panic(err)
	}

	p.PublishResilient(context.Background(), "42", Customer{ID: "42", Name: "Ana"})
	// Output: customers 42 {"id":"42","name":"Ana"}
}

func ExampleProducer_PublishBestEffort() {
	client := producer.ClientFunc(func(context.Context, string, envelope.Envelope) (producer.Receipt, error) {
		return producer.Receipt{}, fmt.Errorf("kafka is down")
	})

	config := producer.NewConfig("customers")
	config.Retry.Enabled = false

	p, err := producer.New[Customer](client, config)
	if err != nil {
		panic(err)
	}

	// The failure is logged, never returned.
	p.PublishBestEffort(context.Background(), "42", Customer{ID: "42"})
	fmt.Println("done")
	// Output: done
}
