package repository

import (
	"context"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository reads the dashboard counters straight from the pool.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummary runs every count in a single round trip.
func (r *DashboardRepository) GetSummary(ctx context.Context) (*model.DashboardSummary, error) {
	s := &model.DashboardSummary{}
	queries := []struct {
		sql  string
		args []interface{}
		dst  *int
	}{
		{`SELECT COUNT(*) FROM course WHERE deleted_at IS NULL`, nil, &s.Courses},
		{`SELECT COUNT(*) FROM student`, nil, &s.Students},
		{`SELECT COUNT(*) FROM teacher`, nil, &s.Teachers},
		{`SELECT COUNT(*) FROM class`, nil, &s.Classes},
		{`SELECT COUNT(*) FROM enrollment WHERE status = $1`, []interface{}{string(model.EnrollmentStatusPending)}, &s.PendingEnrollments},
	}

	batch := &pgx.Batch{}
	for _, q := range queries {
		batch.Queue(q.sql, q.args...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, q := range queries {
		if err := results.QueryRow().Scan(q.dst); err != nil {
			return nil, err
		}
	}
	return s, nil
}
