package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoutineStore хранилище планов тренировок
type RoutineStore interface {
	Get(ctx context.Context, userID uuid.UUID, day int) (*model.RoutineEntry, error)
	Upsert(ctx context.Context, entry *model.RoutineEntry) error
}

// RoutineService планы тренировок учеников по дням недели.
// Пишет только администратор, конфликты не отслеживаются: побеждает последняя запись
type RoutineService struct {
	store  RoutineStore
	logger *zap.Logger
}

func NewRoutineService(store RoutineStore, logger *zap.Logger) *RoutineService {
	return &RoutineService{store: store, logger: logger}
}

// GetEntry возвращает план на день или пустую строку
func (s *RoutineService) GetEntry(ctx context.Context, studentID uuid.UUID, day int) (string, error) {
	if !model.ValidRoutineDay(day) {
		return "", model.NewValidationError(model.FieldDayOfWeek, "day must be between 1 and 6")
	}

	entry, err := s.store.Get(ctx, studentID, day)
	if err != nil {
		s.logger.Error("Failed to load routine",
			zap.String("student_id", studentID.String()),
			zap.Int("day", day),
			zap.Error(err),
		)
		return "", model.NewUnavailableError("load routine", err)
	}

	if entry == nil {
		return "", nil
	}
	return entry.Content, nil
}

// UpsertEntry создаёт или заменяет план на день
func (s *RoutineService) UpsertEntry(ctx context.Context, actor model.Identity, studentID uuid.UUID, day int, content string) error {
	if !actor.IsAdmin() {
		return model.ErrForbidden
	}

	if !model.ValidRoutineDay(day) {
		return model.NewValidationError(model.FieldDayOfWeek, "day must be between 1 and 6")
	}

	entry := &model.RoutineEntry{
		UserID:    studentID,
		DayOfWeek: day,
		Content:   content,
	}

	if err := s.store.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("save routine: %w", err)
	}

	s.logger.Info("Routine saved",
		zap.String("student_id", studentID.String()),
		zap.Int("day", day),
		zap.String("admin", actor.Email),
	)

	return nil
}
