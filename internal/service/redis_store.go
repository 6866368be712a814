package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNoSession is returned when an account has no live session.
var ErrNoSession = errors.New("no active session")

// RedisSessionStore keeps session JTIs under config.CacheKey.UserSessionKey.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Put(ctx context.Context, userID uint64, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, config.CacheKey.UserSessionKey(userID), jti, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, userID uint64) (string, error) {
	jti, err := s.rdb.Get(ctx, config.CacheKey.UserSessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return jti, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID uint64) error {
	return s.rdb.Del(ctx, config.CacheKey.UserSessionKey(userID)).Err()
}

// RedisPublisher fans mutation events out over Redis PubSub and drops the
// cached dashboard summary, which every mutation can change.
type RedisPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewRedisPublisher(rdb *redis.Client, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		rdb: rdb,
		log: log.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish never fails the caller; delivery errors are logged.
func (p *RedisPublisher) Publish(ctx context.Context, ev model.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("Failed to encode event")
		return
	}

	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, config.CacheKey.DashboardSummaryKey())
		pipe.Publish(ctx, config.CacheKey.AdminEventsChannel(), payload)
		return nil
	})
	if err != nil {
		p.log.Warn().Err(err).
			Str("entity", ev.Entity).
			Uint64("id", ev.ID).
			Str("type", string(ev.Type)).
			Msg("Failed to publish event")
	}
}

// Subscribe opens a PubSub subscription on the admin events channel.
func (p *RedisPublisher) Subscribe(ctx context.Context) *redis.PubSub {
	return p.rdb.Subscribe(ctx, config.CacheKey.AdminEventsChannel())
}

// publish is a nil-safe helper used by the services.
func publish(ctx context.Context, p Publisher, t model.EventType, entity string, id uint64) {
	if p == nil {
		return
	}
	p.Publish(ctx, model.Event{Type: t, Entity: entity, ID: id, At: time.Now().UTC()})
}

// releaseScript deletes a lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker hands out short-lived exclusive locks with SET NX.
type RedisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb}
}

// TryLock returns ok=false without error when another holder owns key.
// The returned release func is safe to call after the lock expired.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// The caller's context may already be done.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{key}, token).Err()
	}
	return release, true, nil
}
