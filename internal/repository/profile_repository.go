package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/Freeeeeet/training_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	*base.Repository
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает профиль по ID пользователя
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT id, COALESCE(full_name, ''), created_at
		FROM profiles
		WHERE id = $1
	`

	var profile model.Profile
	err := r.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Профиль ещё не создан
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}

	return &profile, nil
}

// UpsertName создаёт профиль или обновляет имя существующего
func (r *ProfileRepository) UpsertName(ctx context.Context, id uuid.UUID, fullName string) (*model.Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id, full_name, created_at
	`

	var profile model.Profile
	err := r.QueryRow(ctx, query, id, fullName).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return &profile, nil
}

// List получает все профили, отсортированные по имени (ростер учеников)
func (r *ProfileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	query := `
		SELECT id, COALESCE(full_name, ''), created_at
		FROM profiles
		ORDER BY full_name NULLS LAST, created_at
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		var profile model.Profile
		if err := rows.Scan(&profile.ID, &profile.FullName, &profile.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}
