package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos do jackpot em dois tópicos: os
// pedidos de aleatoriedade no tópico do oráculo e o resto no tópico de
// eventos de domínio.
type KafkaPublisher struct {
	RandomnessWriter *kafka.Writer
	EventsWriter     *kafka.Writer
}

func NewKafkaPublisher(randomness, domain *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{RandomnessWriter: randomness, EventsWriter: domain}
}

func (p *KafkaPublisher) PublishRandomnessRequested(ctx context.Context, e events.RandomnessRequested) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.RandomnessWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.RequestID), Value: b})
}

func (p *KafkaPublisher) PublishBetContributed(ctx context.Context, e events.BetContributed) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return p.writeEvent(ctx, e.BetID, e)
}

func (p *KafkaPublisher) PublishJackpotWon(ctx context.Context, e events.JackpotWon) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return p.writeEvent(ctx, e.BetID, e)
}

func (p *KafkaPublisher) PublishJackpotLoss(ctx context.Context, e events.JackpotLoss) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return p.writeEvent(ctx, e.BetID, e)
}

func (p *KafkaPublisher) PublishBetRefunded(ctx context.Context, e events.BetRefunded) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return p.writeEvent(ctx, e.BetID, e)
}

func (p *KafkaPublisher) PublishRewardsClaimed(ctx context.Context, e events.RewardsClaimed) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return p.writeEvent(ctx, e.User, e)
}

func (p *KafkaPublisher) PublishHouseWithdrawal(ctx context.Context, e events.HouseWithdrawal) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return p.writeEvent(ctx, e.Authority, e)
}

func (p *KafkaPublisher) PublishConfigUpdated(ctx context.Context, e events.ConfigUpdated) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return p.writeEvent(ctx, e.Authority, e)
}

func (p *KafkaPublisher) writeEvent(ctx context.Context, key string, v any) error {
	b, _ := json.Marshal(v)
	return p.EventsWriter.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b})
}
