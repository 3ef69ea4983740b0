package oracle

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

var fulfillmentsProduced = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "oracle_fulfillments_produced_total",
	Help: "Total de resultados de aleatoriedade publicados pelo simulador",
})

func init() {
	prometheus.MustRegister(fulfillmentsProduced)
}

// Simulator responde pedidos de aleatoriedade com um resultado de 32
// bytes, depois de uma latência simulada. Substitui um provedor VRF
// real no ambiente local.
type Simulator struct {
	log     *zap.Logger
	writer  *kafkago.Writer
	latency time.Duration
}

// New cria o simulador com a latência configurada.
func New(log *zap.Logger, writer *kafkago.Writer, latency time.Duration) *Simulator {
	return &Simulator{log: log, writer: writer, latency: latency}
}

// Handle atende um pedido: espera a latência, gera o resultado e
// publica a fulfillment correspondente.
func (s *Simulator) Handle(ctx context.Context, req events.RandomnessRequested) error {
	seed, err := hex.DecodeString(req.Seed)
	if err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	select {
	case <-time.After(s.latency):
	case <-ctx.Done():
		return ctx.Err()
	}

	result, err := Result(seed)
	if err != nil {
		return err
	}

	out := events.RandomnessFulfilled{
		RequestID: req.RequestID,
		BetID:     req.BetID,
		Result:    hex.EncodeToString(result[:]),
		TsUnixMs:  time.Now().UnixMilli(),
	}
	b, _ := json.Marshal(out)
	if err := s.writer.WriteMessages(ctx, kafkago.Message{Key: []byte(req.RequestID), Value: b}); err != nil {
		return fmt.Errorf("publish fulfillment: %w", err)
	}

	fulfillmentsProduced.Inc()
	s.log.Info("randomness fulfilled",
		zap.String("request_id", req.RequestID),
		zap.String("bet_id", req.BetID),
	)
	return nil
}

// Result gera os 32 bytes do resultado: sha256 da seed do pedido
// misturada com entropia fresca do sistema.
func Result(seed []byte) ([32]byte, error) {
	var entropy [32]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		return [32]byte{}, fmt.Errorf("read entropy: %w", err)
	}

	h := sha256.New()
	h.Write(seed)
	h.Write(entropy[:])

	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result, nil
}
