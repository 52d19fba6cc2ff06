package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/training_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start: проверяет сессию и показывает меню
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	ws := h.workspaces.Get(telegramID)

	identity, err := ws.Session.Resolve(ctx)
	if err != nil {
		h.logger.Error("Failed to resolve session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	if identity != nil && !identity.IsAdmin() && !ws.Session.State().ProfileLoaded {
		if _, err := ws.Session.LoadProfile(ctx); err != nil {
			h.logger.Warn("Failed to load profile", zap.Int64("telegram_id", telegramID), zap.Error(err))
			h.sendError(ctx, b, chatID, err)
			return
		}
	}

	st := ws.Session.State()
	h.sendMessage(ctx, b, chatID, common.MainMenuText(identity, st.Profile, ws.Session.NeedsOnboarding()))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"Аккаунт:\n" +
		"/signup - Регистрация по e-mail\n" +
		"/login - Вход\n" +
		"/name - Указать имя\n" +
		"/logout - Выход\n\n" +
		"Для учеников:\n" +
		"/book - Записаться на тренировку\n" +
		"/mybookings - Мои записи\n\n" +
		"Для администратора:\n" +
		"/admin - Агенда записей\n" +
		"/students - Ученики и планы тренировок\n\n" +
		"/cancel - Прервать текущий диалог"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	// Текст может содержать пароль, его не логируем
	h.logger.Info("Handling dialog step",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateSignUpEmail:
		h.handleSignUpEmailStep(ctx, b, update)
	case state.StateSignUpPassword:
		h.handleSignUpPasswordStep(ctx, b, update)
	case state.StateSignUpConfirmation:
		h.handleSignUpConfirmationStep(ctx, b, update)
	case state.StateSignInEmail:
		h.handleSignInEmailStep(ctx, b, update)
	case state.StateSignInPassword:
		h.handleSignInPasswordStep(ctx, b, update)
	case state.StateOnboardingName:
		h.handleOnboardingNameStep(ctx, b, update)
	case state.StateRoutineContent:
		h.handleRoutineContentStep(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
