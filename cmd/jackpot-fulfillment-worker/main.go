package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	jcache "github.com/radieske/jackpot-platform-poc/internal/jackpot/cache"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/producer"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/service"
	"github.com/radieske/jackpot-platform-poc/internal/shared/cache"
	"github.com/radieske/jackpot-platform-poc/internal/shared/config"
	"github.com/radieske/jackpot-platform-poc/internal/shared/db"
	"github.com/radieske/jackpot-platform-poc/internal/shared/kafka"
	"github.com/radieske/jackpot-platform-poc/internal/shared/logger"
	ev "github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

var (
	fulfillmentsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jackpot_fulfillments_processed_total",
		Help: "Fulfillments aplicadas com sucesso",
	})
	fulfillmentsDLQ = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jackpot_fulfillments_dlq_total",
		Help: "Fulfillments enviadas para a DLQ",
	})
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(fulfillmentsProcessed, fulfillmentsDLQ)

	// Postgres: estado do jackpot e cofres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: snapshot read-side do pool
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka consumer: resultados de aleatoriedade do oráculo
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		GroupID:  "jackpot-fulfillment",
		Topic:    cfg.TopicRandomnessFulfilled,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	// Kafka producers: eventos de domínio e DLQ
	randomnessWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRandomnessRequested)
	defer randomnessWriter.Close()
	eventsWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicJackpotEvents)
	defer eventsWriter.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicRandomnessFulfilledDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRandomnessFulfilledDLQ)
		defer dlqWriter.Close()
	}

	store := repo.NewPostgres(pg)
	publ := producer.NewKafkaPublisher(randomnessWriter, eventsWriter)
	svc := service.New(log, store, publ)
	svc.WithPoolCache(jcache.NewPoolCache(rdb, 30*time.Second))

	// Servidor HTTP para métricas Prometheus e healthcheck
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := ":" + cfg.MetricsPort
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	log.Info("jackpot-fulfillment-worker started",
		zap.String("consume", cfg.TopicRandomnessFulfilled),
		zap.String("publish", cfg.TopicJackpotEvents),
	)

	ctx := context.Background()

	// Loop principal: consome fulfillments e aplica no engine
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		if err := processOne(ctx, log, svc, msg.Value); err != nil {
			if isPermanent(err) {
				// pedido já decidido, expirado ou payload inválido:
				// reprocessar não ajuda, vai para a DLQ
				log.Warn("fulfillment rejected", zap.Error(err))
				sendToDLQ(ctx, dlqWriter, msg)
				continue
			}

			// erro transitório (banco, kafka): retry com backoff
			const retries = 3
			for i := 0; i < retries; i++ {
				time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
				if err = processOne(ctx, log, svc, msg.Value); err == nil || isPermanent(err) {
					break
				}
			}
			if err != nil {
				log.Error("fulfillment failed", zap.Error(err))
				sendToDLQ(ctx, dlqWriter, msg)
			}
		}
	}
}

// processOne decodifica uma fulfillment e aplica no serviço
func processOne(ctx context.Context, log *zap.Logger, svc *service.Service, raw []byte) error {
	var fulfilled ev.RandomnessFulfilled
	if err := json.Unmarshal(raw, &fulfilled); err != nil {
		return errBadPayload(err)
	}

	resultBytes, err := hex.DecodeString(fulfilled.Result)
	if err != nil || len(resultBytes) != 32 {
		return errBadPayload(errors.New("result must be 32 bytes hex"))
	}
	var result [32]byte
	copy(result[:], resultBytes)

	res, err := svc.FulfillJackpot(ctx, fulfilled.RequestID, fulfilled.BetID, result)
	if err != nil {
		return err
	}

	fulfillmentsProcessed.Inc()
	log.Info("fulfillment applied",
		zap.String("bet_id", res.Bet.ID),
		zap.String("status", string(res.Bet.Status)),
		zap.Uint64("pool_balance", res.PoolBalance),
	)
	return nil
}

type badPayload struct{ err error }

func (b badPayload) Error() string { return "bad payload: " + b.err.Error() }

func errBadPayload(err error) error { return badPayload{err: err} }

// isPermanent identifica falhas que nenhum retry resolve
func isPermanent(err error) bool {
	var bp badPayload
	if errors.As(err, &bp) {
		return true
	}
	return errors.Is(err, engine.ErrRequestNotFound) ||
		errors.Is(err, engine.ErrRequestAlreadyFulfilled) ||
		errors.Is(err, engine.ErrRequestTimeout) ||
		errors.Is(err, engine.ErrInvalidOracleAuthority)
}

func sendToDLQ(ctx context.Context, dlqWriter *kafkago.Writer, msg kafkago.Message) {
	if dlqWriter == nil {
		return
	}
	if err := kafka.WriteJSON(ctx, dlqWriter, string(msg.Key), msg.Value); err == nil {
		fulfillmentsDLQ.Inc()
	}
}
