package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/service"
)

const poolKey = "jackpot:pool:current"

// PoolCache mantém o snapshot read-side do pool no Redis
// Client: cliente Redis
// TTL: tempo de expiração do snapshot
type PoolCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewPoolCache cria o cache de snapshot do pool com TTL configurável
func NewPoolCache(c *redis.Client, ttl time.Duration) *PoolCache {
	return &PoolCache{Client: c, TTL: ttl}
}

// SetSnapshot grava o snapshot corrente do pool no Redis
func (p *PoolCache) SetSnapshot(ctx context.Context, snap service.PoolSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.Client.Set(ctx, poolKey, b, p.TTL).Err()
}

// GetSnapshot lê o snapshot do pool; redis.Nil quando não há snapshot
func (p *PoolCache) GetSnapshot(ctx context.Context) (service.PoolSnapshot, error) {
	var snap service.PoolSnapshot
	b, err := p.Client.Get(ctx, poolKey).Bytes()
	if err != nil {
		return snap, err
	}
	err = json.Unmarshal(b, &snap)
	return snap, err
}
