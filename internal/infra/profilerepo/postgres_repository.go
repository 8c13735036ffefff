package profilerepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

// PostgresRepository stores one row per (user, plant) in sensitivity_levels.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get loads every stored level of the user.
func (r *PostgresRepository) Get(ctx context.Context, userID int64) (forecast.Levels, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT plant, level
		FROM sensitivity_levels
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query sensitivity levels: %w", err)
	}
	defer rows.Close()

	levels := make(forecast.Levels)
	for rows.Next() {
		var (
			plant string
			level int
		)
		if err := rows.Scan(&plant, &level); err != nil {
			return nil, fmt.Errorf("scan sensitivity level: %w", err)
		}
		levels[forecast.Plant(plant)] = level
	}
	return levels, rows.Err()
}

// Save replaces the user's levels in one transaction.
func (r *PostgresRepository) Save(ctx context.Context, userID int64, levels forecast.Levels) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sensitivity_levels WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear sensitivity levels: %w", err)
		}
		batch := &pgx.Batch{}
		for plant, level := range levels {
			batch.Queue(`
				INSERT INTO sensitivity_levels (user_id, plant, level, updated_at)
				VALUES ($1, $2, $3, NOW())
			`, userID, string(plant), level)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert sensitivity levels: %w", err)
		}
		return nil
	})
}

var _ allergy.LevelRepository = (*PostgresRepository)(nil)
