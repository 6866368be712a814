package database

import (
	"fmt"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewGorm opens a GORM session on top of an existing pgx pool so that both
// share the same connections and limits. Closing the pool closes GORM too.
func NewGorm(pool *pgxpool.Pool, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:      logger.NewGormLogger(log, cfg.SlowQueryThreshold),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	return db, nil
}
