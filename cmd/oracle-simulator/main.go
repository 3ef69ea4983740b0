package main

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/oracle"
	"github.com/radieske/jackpot-platform-poc/internal/shared/config"
	"github.com/radieske/jackpot-platform-poc/internal/shared/kafka"
	"github.com/radieske/jackpot-platform-poc/internal/shared/logger"
	"github.com/radieske/jackpot-platform-poc/internal/shared/metrics"
	ev "github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	latencyMs, err := strconv.Atoi(cfg.OracleLatencyMs)
	if err != nil || latencyMs < 0 {
		latencyMs = 500
	}

	// Kafka consumer: pedidos de aleatoriedade do jackpot-service
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		GroupID:  "oracle-simulator",
		Topic:    cfg.TopicRandomnessRequested,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	// Kafka producer: fulfillments
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRandomnessFulfilled)
	defer writer.Close()

	sim := oracle.New(log, writer, time.Duration(latencyMs)*time.Millisecond)

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("oracle-simulator started",
		zap.String("consume", cfg.TopicRandomnessRequested),
		zap.String("publish", cfg.TopicRandomnessFulfilled),
		zap.Int("latency_ms", latencyMs),
	)

	ctx := context.Background()

	// Loop principal: responde cada pedido com um resultado simulado
	for {
		_, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var req ev.RandomnessRequested
		if jerr := json.Unmarshal(value, &req); jerr != nil {
			log.Error("unmarshal randomness request", zap.Error(jerr))
			continue
		}

		if err := sim.Handle(ctx, req); err != nil {
			log.Error("handle randomness request",
				zap.String("request_id", req.RequestID),
				zap.Error(err),
			)
			time.Sleep(500 * time.Millisecond)
		}
	}
}
