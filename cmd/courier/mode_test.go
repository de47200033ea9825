package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heetch/courier/config"
	"github.com/heetch/courier/envelope"
	"github.com/heetch/courier/producer"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		mode    string
		enabled bool
		calls   int
	}{
		{mode: modeBestEffort, enabled: true, calls: 1},
		{mode: modeResilient, enabled: false, calls: 3},
		{mode: modeAuto, enabled: true, calls: 3},
		{mode: modeAuto, enabled: false, calls: 1},
	}

	for _, test := range tests {
		publish, err := parseMode(test.mode)
		require.NoError(t, err)

		calls := 0
		client := producer.ClientFunc(func(context.Context, string, envelope.Envelope) (producer.Receipt, error) {
			calls++
			return producer.Receipt{}, context.DeadlineExceeded
		})
		cfg := producer.NewConfig("topic")
		cfg.Retry.Enabled = test.enabled
		cfg.Retry.MaxAttempts = 2
		cfg.Retry.Delay = 0
		p, err := producer.New[json.RawMessage](client, cfg)
		require.NoError(t, err)

		publish(context.Background(), p, "k", json.RawMessage(`{}`))
		require.Equal(t, test.calls, calls, "mode %s, retry enabled %v", test.mode, test.enabled)
	}

	_, err := parseMode("twice")
	require.EqualError(t, err, `unknown mode "twice"`)
}

func TestNewClientUnknownDriver(t *testing.T) {
	_, err := newClient(config.BrokerConfig{Driver: "nats"})
	require.EqualError(t, err, `unknown broker driver "nats"`)
}
