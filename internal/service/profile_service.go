package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileStore хранилище профилей
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpsertName(ctx context.Context, id uuid.UUID, fullName string) (*model.Profile, error)
	List(ctx context.Context) ([]*model.Profile, error)
}

type ProfileService struct {
	store  ProfileStore
	logger *zap.Logger
}

func NewProfileService(store ProfileStore, logger *zap.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logger}
}

// Get получает профиль. nil без ошибки - профиля ещё нет
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, model.NewUnavailableError("load profile", err)
	}
	return profile, nil
}

// CompleteOnboarding сохраняет имя пользователя, создавая профиль при необходимости
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, fullName string) (*model.Profile, error) {
	name := strings.TrimSpace(fullName)
	if utf8.RuneCountInString(name) < model.ProfileNameMinLength {
		return nil, model.NewValidationError(model.FieldFullName, "name is too short")
	}

	profile, err := s.store.UpsertName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}

	s.logger.Info("Onboarding completed",
		zap.String("user_id", userID.String()),
		zap.String("full_name", name),
	)

	return profile, nil
}

// Roster получает всех учеников, отсортированных по имени
func (s *ProfileService) Roster(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load roster", zap.Error(err))
		return nil, model.NewUnavailableError("load roster", err)
	}
	return profiles, nil
}
