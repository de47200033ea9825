// Command courier publishes one JSON message to a broker topic using the
// resilient producer.
//
// Usage:
//
//	courier -config courier.yaml -key 42 -message '{"id":"42"}' [-mode auto]
//
// Delivery failures are logged, never turned into a non-zero exit code.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/heetch/courier/common"
	"github.com/heetch/courier/config"
	"github.com/heetch/courier/metrics"
	"github.com/heetch/courier/producer"
)

const exitUsage = 2

func main() {
	var (
		configPath string
		key        string
		message    string
		mode       string
	)
	flag.StringVar(&configPath, "config", "", "Path to the YAML configuration file (optional)")
	flag.StringVar(&key, "key", "", "Message key")
	flag.StringVar(&message, "message", "", "Message body, as JSON")
	flag.StringVar(&mode, "mode", modeAuto, "Publish mode: best-effort, resilient or auto")
	flag.Parse()

	publish, err := parseMode(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(exitUsage)
	}
	if !json.Valid([]byte(message)) {
		fmt.Fprintln(os.Stderr, "message must be valid JSON")
		flag.Usage()
		os.Exit(exitUsage)
	}

	if err := run(configPath, key, json.RawMessage(message), publish); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, key string, message json.RawMessage, publish publishFunc) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, _ := zerolog.ParseLevel(cfg.Log.Level)
	zl := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("app", "courier").Logger()
	logger := common.NewZerologLogger(zl)

	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg)
	if err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	client, err := newClient(cfg.Broker)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close broker client", "err", err)
		}
	}()

	p, err := producer.New[json.RawMessage](client, cfg.ProducerConfig(),
		producer.WithLogger(logger),
		producer.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("publishing message", "topic", cfg.Producer.Topic, "key", key, "driver", cfg.Broker.Driver)
	publish(ctx, p, key, message)
	return nil
}
