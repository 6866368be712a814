package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SummaryCache stores the rendered dashboard summary.
type SummaryCache interface {
	Get(ctx context.Context) (*model.DashboardSummary, error)
	Set(ctx context.Context, s *model.DashboardSummary, ttl time.Duration) error
}

// ErrCacheMiss is returned by SummaryCache.Get when nothing is cached.
var ErrCacheMiss = errors.New("cache miss")

// DashboardService serves admin counters with a short-lived cache.
type DashboardService struct {
	store DashboardStore
	cache SummaryCache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewDashboardService(store DashboardStore, cache SummaryCache, ttl time.Duration, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		store: store,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetSummary returns cached counters when present, otherwise it recounts.
func (s *DashboardService) GetSummary(ctx context.Context) (*model.DashboardSummary, error) {
	cached, err := s.cache.Get(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn().Err(err).Msg("Dashboard cache read failed")
	}

	summary, err := s.store.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, summary, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("Dashboard cache write failed")
	}
	return summary, nil
}

// RedisSummaryCache keeps the summary as JSON under the dashboard key.
type RedisSummaryCache struct {
	rdb *redis.Client
}

func NewRedisSummaryCache(rdb *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb}
}

func (c *RedisSummaryCache) Get(ctx context.Context) (*model.DashboardSummary, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.DashboardSummaryKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var s model.DashboardSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, s *model.DashboardSummary, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, config.CacheKey.DashboardSummaryKey(), raw, ttl).Err()
}
