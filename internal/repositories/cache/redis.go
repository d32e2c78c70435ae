package cache

import (
	"context"
	"fmt"
	"time"

	"contractpay/internal/config"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Connect builds a CacheService for cfg and verifies the server answers.
// The caller owns the returned service and must Close it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*CacheService, error) {
	svc := NewCacheService(NewRedisClient(cfg), cfg.ReportTTL)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}
