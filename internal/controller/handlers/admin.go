package handlers

import (
	"context"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/training_bot/internal/controller/state"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleAdmin отправляет живую агенду новым сообщением
func (h *Handlers) HandleAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	ws, identity, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}

	err := common.ShowLiveAgenda(ctx, b, h.callbacks, ws, *identity, update.Message.Chat.ID, 0)
	if err != nil {
		h.logger.Error("Failed to show agenda", zap.String("admin", identity.Email), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
	}
}

// HandleStudents отправляет список учеников
func (h *Handlers) HandleStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	ws, identity, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}

	console, err := ws.Console(*identity)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	if err := console.Open(ctx); err != nil {
		h.logger.Warn("Console opened with errors", zap.Error(err))
	}
	if err := console.RefreshRoster(ctx); err != nil {
		h.logger.Warn("Failed to refresh roster", zap.Error(err))
	}

	students, err := console.Students()
	text, kb := common.BuildRosterScreen(students, err)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// handleRoutineContentStep сохраняет план тренировки, введённый администратором
func (h *Handlers) handleRoutineContentStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	ws, identity, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	studentData, ok1 := h.stateManager.GetData(telegramID, state.KeyStudentID)
	dayData, ok2 := h.stateManager.GetData(telegramID, state.KeyDay)
	studentID, ok3 := studentData.(uuid.UUID)
	day, ok4 := dayData.(int)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		h.logger.Error("Missing data for routine content",
			zap.Int64("telegram_id", telegramID),
			zap.Any("student_id", studentData),
			zap.Any("day", dayData))
		h.stateManager.ClearState(telegramID)
		h.sendMessage(ctx, b, chatID, "❌ Ошибка: данные не найдены. Начните заново через /students")
		return
	}

	console, err := ws.Console(*identity)
	if err != nil {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, err)
		return
	}

	content := update.Message.Text
	if err := console.SaveRoutine(ctx, studentID, day, content); err != nil {
		h.logger.Error("Failed to save routine",
			zap.String("student_id", studentID.String()),
			zap.Int("day", day),
			zap.Error(err))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.stateManager.ClearState(telegramID)

	student, found := console.Student(studentID)
	if !found {
		student = &model.Profile{ID: studentID}
	}

	h.sendMessage(ctx, b, chatID, "✅ План сохранён")
	text, kb := common.BuildRoutineScreen(student, day, content)
	h.sendScreen(ctx, b, chatID, text, kb)
}
