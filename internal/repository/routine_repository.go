package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/Freeeeeet/training_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoutineRepository struct {
	*base.Repository
}

func NewRoutineRepository(pool *pgxpool.Pool) *RoutineRepository {
	return &RoutineRepository{Repository: base.NewRepository(pool)}
}

// Get получает запись плана на день. nil если записи нет
func (r *RoutineRepository) Get(ctx context.Context, userID uuid.UUID, day int) (*model.RoutineEntry, error) {
	query := `
		SELECT user_id, day_of_week, content, updated_at
		FROM routines
		WHERE user_id = $1 AND day_of_week = $2
	`

	var entry model.RoutineEntry
	err := r.QueryRow(ctx, query, userID, day).Scan(
		&entry.UserID,
		&entry.DayOfWeek,
		&entry.Content,
		&entry.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	return &entry, nil
}

// Upsert создаёт или полностью заменяет запись по ключу (user_id, day_of_week)
func (r *RoutineRepository) Upsert(ctx context.Context, entry *model.RoutineEntry) error {
	query := `
		INSERT INTO routines (user_id, day_of_week, content, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, day_of_week)
		DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, entry.UserID, entry.DayOfWeek, entry.Content).Scan(&entry.UpdatedAt)
	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return model.ErrOnboardingRequired
		}
		return fmt.Errorf("upsert routine: %w", err)
	}

	return nil
}
