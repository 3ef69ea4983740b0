package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	jcache "github.com/radieske/jackpot-platform-poc/internal/jackpot/cache"
	jhttp "github.com/radieske/jackpot-platform-poc/internal/jackpot/http"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/producer"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/service"
	"github.com/radieske/jackpot-platform-poc/internal/shared/cache"
	"github.com/radieske/jackpot-platform-poc/internal/shared/config"
	"github.com/radieske/jackpot-platform-poc/internal/shared/db"
	"github.com/radieske/jackpot-platform-poc/internal/shared/kafka"
	"github.com/radieske/jackpot-platform-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	// Kafka writers: pedidos de aleatoriedade + eventos de domínio
	randomnessWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRandomnessRequested)
	defer randomnessWriter.Close()
	eventsWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicJackpotEvents)
	defer eventsWriter.Close()

	// deps
	store := repo.NewPostgres(pg)
	publ := producer.NewKafkaPublisher(randomnessWriter, eventsWriter)
	poolCache := jcache.NewPoolCache(rdb, 30*time.Second)

	svc := service.New(log, store, publ)
	svc.WithPoolCache(poolCache)

	// HTTP público
	api := jhttp.NewServer(log, svc, poolCache)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("jackpot-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
