package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"go.uber.org/zap"
)

const keyPrefix = "session:"

type RedisRepository struct {
	cache  *cache.RedisClient
	ttl    time.Duration
	logger logger.ZapLogger
}

func NewRedisRepository(c *cache.RedisClient, ttl time.Duration, log logger.ZapLogger) *RedisRepository {
	return &RedisRepository{cache: c, ttl: ttl, logger: log}
}

func (r *RedisRepository) Get(ctx context.Context, token string) (*model.SessionState, error) {
	var state model.SessionState
	err := r.cache.GetJSON(ctx, keyPrefix+token, &state)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, nil
		}
		return nil, err
	}
	// sliding expiry
	if err := r.cache.Touch(ctx, keyPrefix+token, r.ttl); err != nil {
		r.logger.Warn("failed to refresh session ttl", zap.Error(err))
	}
	return &state, nil
}

func (r *RedisRepository) Save(ctx context.Context, state *model.SessionState) error {
	return r.cache.SetJSON(ctx, keyPrefix+state.Token, state, r.ttl)
}

func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, keyPrefix+token)
}
