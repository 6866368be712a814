package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/rs/zerolog"
)

type countingStore struct {
	calls int
}

func (s *countingStore) GetSummary(context.Context) (*model.DashboardSummary, error) {
	s.calls++
	return &model.DashboardSummary{Courses: 3, Students: 10, PendingEnrollments: s.calls}, nil
}

type memoryCache struct {
	summary *model.DashboardSummary
	ttl     time.Duration
	failGet bool
}

func (c *memoryCache) Get(context.Context) (*model.DashboardSummary, error) {
	if c.failGet {
		return nil, errors.New("redis down")
	}
	if c.summary == nil {
		return nil, ErrCacheMiss
	}
	return c.summary, nil
}

func (c *memoryCache) Set(_ context.Context, s *model.DashboardSummary, ttl time.Duration) error {
	c.summary, c.ttl = s, ttl
	return nil
}

func TestDashboardSummaryIsCached(t *testing.T) {
	store := &countingStore{}
	cache := &memoryCache{}
	svc := NewDashboardService(store, cache, 30*time.Second, zerolog.Nop())

	first, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if store.calls != 1 {
		t.Fatalf("store called %d times, want 1", store.calls)
	}
	if first.PendingEnrollments != second.PendingEnrollments || cache.ttl != 30*time.Second {
		t.Fatalf("cache not used: %+v %+v ttl=%v", first, second, cache.ttl)
	}
}

func TestDashboardFallsBackWhenCacheFails(t *testing.T) {
	store := &countingStore{}
	svc := NewDashboardService(store, &memoryCache{failGet: true}, time.Second, zerolog.Nop())

	s, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s.Students != 10 || store.calls != 1 {
		t.Fatalf("unexpected summary %+v calls=%d", s, store.calls)
	}
}
