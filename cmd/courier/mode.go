package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heetch/courier/producer"
)

const (
	modeBestEffort = "best-effort"
	modeResilient  = "resilient"
	modeAuto       = "auto"
)

type publishFunc func(ctx context.Context, p *producer.Producer[json.RawMessage], key string, message json.RawMessage)

func parseMode(mode string) (publishFunc, error) {
	switch mode {
	case modeBestEffort:
		return func(ctx context.Context, p *producer.Producer[json.RawMessage], key string, message json.RawMessage) {
			p.PublishBestEffort(ctx, key, message)
		}, nil
	case modeResilient:
		return func(ctx context.Context, p *producer.Producer[json.RawMessage], key string, message json.RawMessage) {
			p.PublishResilient(ctx, key, message)
		}, nil
	case modeAuto:
		return func(ctx context.Context, p *producer.Producer[json.RawMessage], key string, message json.RawMessage) {
			p.Publish(ctx, key, message)
		}, nil
	}
	return nil, fmt.Errorf("unknown mode %q", mode)
}
