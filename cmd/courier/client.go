package main

import (
	"fmt"

	"github.com/heetch/courier/config"
	"github.com/heetch/courier/producer"
	"github.com/heetch/courier/transports/kafka"
	"github.com/heetch/courier/transports/kafkago"
	"github.com/heetch/courier/transports/pulsar"
	"github.com/heetch/courier/transports/rabbitmq"
)

type brokerClient interface {
	producer.Client
	Close() error
}

func newClient(cfg config.BrokerConfig) (brokerClient, error) {
	switch cfg.Driver {
	case config.DriverKafka:
		return kafka.Dial(kafka.NewConfig(cfg.ClientID), cfg.DialTimeout, cfg.Addrs...)
	case config.DriverKafkaGo:
		return kafkago.New(cfg.Addrs...), nil
	case config.DriverPulsar:
		return pulsar.New(cfg.URL)
	case config.DriverRabbitMQ:
		return rabbitmq.Dial(cfg.URL)
	}
	return nil, fmt.Errorf("unknown broker driver %q", cfg.Driver)
}
