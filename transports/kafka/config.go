package kafka

import "github.com/Shopify/sarama"

// Config is used to configure the Kafka client.
type Config struct {
	sarama.Config
}

// NewConfig creates a config with sane defaults. Keys are partitioned
// the same way JVM Kafka clients do, so messages sharing a key land on
// the same partition whichever client produced them.
func NewConfig(clientID string) Config {
	config := sarama.NewConfig()
	config.Version = sarama.V1_0_0_0
	config.ClientID = clientID
	config.Producer.RequiredAcks = sarama.WaitForAll // Wait for all in-sync replicas to ack the message
	config.Producer.Retry.Max = 3
	// required for the SyncProducer, see https://godoc.org/github.com/Shopify/sarama#SyncProducer
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Partitioner = NewJVMCompatiblePartitioner

	return Config{*config}
}
