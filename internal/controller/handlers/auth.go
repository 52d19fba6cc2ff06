package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/training_bot/internal/controller/state"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/Freeeeeet/training_bot/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Sign Up
// ========================

// HandleSignUp начинает регистрацию
func (h *Handlers) HandleSignUp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.Start(update.Message.From.ID, state.StateSignUpEmail, nil)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📝 Регистрация\n\n"+
			"Шаг 1 из 3: Введите e-mail\n\n"+
			"Для отмены используйте /cancel")
}

func (h *Handlers) handleSignUpEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	email := strings.TrimSpace(update.Message.Text)

	h.stateManager.SetData(telegramID, state.KeyEmail, email)
	h.stateManager.SetState(telegramID, state.StateSignUpPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("Шаг 2 из 3: Придумайте пароль (минимум %d символов)\n\n"+
			"Сообщение с паролем будет удалено из чата.", session.PasswordMinLength))
}

func (h *Handlers) handleSignUpPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	password := update.Message.Text
	h.deleteUserMessage(ctx, b, update.Message)

	h.stateManager.SetData(telegramID, state.KeyPassword, password)
	h.stateManager.SetState(telegramID, state.StateSignUpConfirmation)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 3 из 3: Повторите пароль")
}

func (h *Handlers) handleSignUpConfirmationStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	confirmation := update.Message.Text
	h.deleteUserMessage(ctx, b, update.Message)

	email, _ := h.stateManager.GetString(telegramID, state.KeyEmail)
	password, _ := h.stateManager.GetString(telegramID, state.KeyPassword)

	ws := h.workspaces.Get(telegramID)
	pending, err := ws.Session.SignUp(ctx, email, password, confirmation)
	if err != nil {
		h.logger.Info("Sign up failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		h.retrySignUp(ctx, b, telegramID, chatID, err)
		return
	}

	h.stateManager.ClearState(telegramID)

	if pending {
		h.sendMessage(ctx, b, chatID,
			"📧 Мы отправили письмо на "+html.EscapeString(email)+".\n\n"+
				"Подтвердите адрес по ссылке из письма, затем войдите: /login")
		return
	}

	h.logger.Info("User signed up", zap.Int64("telegram_id", telegramID))
	h.sendMenu(ctx, b, ws.Session, chatID)
}

// retrySignUp возвращает диалог к шагу, на котором ошибся пользователь
func (h *Handlers) retrySignUp(ctx context.Context, b *bot.Bot, telegramID, chatID int64, err error) {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		h.stateManager.ClearState(telegramID)
		h.sendMessage(ctx, b, chatID, "Попробуйте ещё раз: /signup")
		return
	}

	switch verr.Field {
	case model.FieldEmail:
		h.stateManager.SetState(telegramID, state.StateSignUpEmail)
		h.sendMessage(ctx, b, chatID, "Введите e-mail ещё раз:")
	default:
		h.stateManager.SetState(telegramID, state.StateSignUpPassword)
		h.sendMessage(ctx, b, chatID, "Введите пароль ещё раз:")
	}
}

// ========================
// Sign In / Sign Out
// ========================

// HandleLogin начинает вход
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.Start(update.Message.From.ID, state.StateSignInEmail, nil)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🔐 Вход\n\nВведите e-mail\n\nДля отмены используйте /cancel")
}

func (h *Handlers) handleSignInEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	h.stateManager.SetData(telegramID, state.KeyEmail, strings.TrimSpace(update.Message.Text))
	h.stateManager.SetState(telegramID, state.StateSignInPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Введите пароль.\n\nСообщение с паролем будет удалено из чата.")
}

func (h *Handlers) handleSignInPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text
	h.deleteUserMessage(ctx, b, update.Message)

	email, _ := h.stateManager.GetString(telegramID, state.KeyEmail)
	h.stateManager.ClearState(telegramID)

	ws := h.workspaces.Get(telegramID)
	if err := ws.Session.SignIn(ctx, email, password); err != nil {
		h.logger.Info("Sign in failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		h.sendMessage(ctx, b, chatID, "Попробуйте ещё раз: /login")
		return
	}

	h.logger.Info("User signed in", zap.Int64("telegram_id", telegramID))
	h.sendMenu(ctx, b, ws.Session, chatID)
}

// HandleLogout завершает сессию. Локально выходим даже если провайдер недоступен
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	ws := h.workspaces.Get(telegramID)

	h.stateManager.ClearState(telegramID)
	ws.Session.SignOut(ctx)

	h.logger.Info("User signed out", zap.Int64("telegram_id", telegramID))
	h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 Вы вышли из аккаунта.\n\n/login - Войти снова")
}

// ========================
// Onboarding
// ========================

// HandleName запрашивает имя пользователя
func (h *Handlers) HandleName(ctx context.Context, b *bot.Bot, update *models.Update) {
	ws, identity, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	if identity.IsAdmin() {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrAdminUsesConsole)
		return
	}

	h.stateManager.Start(ws.TelegramID, state.StateOnboardingName, nil)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("👤 Как вас зовут? Минимум %d символа.\n\nДля отмены используйте /cancel",
			model.ProfileNameMinLength))
}

func (h *Handlers) handleOnboardingNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	ws, _, ok := h.requireSession(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	profile, err := ws.Session.CompleteOnboarding(ctx, update.Message.Text)
	if err != nil {
		h.logger.Info("Onboarding failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		if !errors.Is(err, model.ErrValidation) {
			h.stateManager.ClearState(telegramID)
		}
		return
	}

	h.stateManager.ClearState(telegramID)
	h.logger.Info("Profile name saved",
		zap.Int64("telegram_id", telegramID),
		zap.String("user_id", profile.ID.String()))

	h.sendMenu(ctx, b, ws.Session, chatID)
}

// sendMenu показывает главное меню по текущему состоянию сессии
func (h *Handlers) sendMenu(ctx context.Context, b *bot.Bot, sess *session.Manager, chatID int64) {
	st := sess.State()
	h.sendMessage(ctx, b, chatID, common.MainMenuText(st.Identity, st.Profile, sess.NeedsOnboarding()))
}
