package common

import (
	"context"
	"errors"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/training_bot/internal/controller/workspace"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrAdminUsesConsole администратор не записывается сам, а управляет агендой
var ErrAdminUsesConsole = errors.New("admins manage bookings from the console")

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	Workspace  *workspace.Workspace
	Identity   *model.Identity
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		Workspace:  h.Workspaces.Get(callback.From.ID),
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadSession проверяет сессию у провайдера
func (hc *HandlerContext) LoadSession() error {
	identity, err := ResolveSession(hc.Ctx, hc.Workspace)
	if err != nil {
		return err
	}
	hc.Identity = identity
	return nil
}

// RequireStudent пользователь вошёл, не администратор и указал имя
func (hc *HandlerContext) RequireStudent() error {
	if hc.Identity == nil {
		if err := hc.LoadSession(); err != nil {
			return err
		}
	}
	return RequireStudent(hc.Ctx, hc.Workspace, *hc.Identity)
}

// RequireAdmin пользователь вошёл и он администратор
func (hc *HandlerContext) RequireAdmin() error {
	if hc.Identity == nil {
		if err := hc.LoadSession(); err != nil {
			return err
		}
	}
	if !hc.Identity.IsAdmin() {
		return model.ErrForbidden
	}
	return nil
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// Игнорируем ошибку "message is not modified" - это не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// DeleteMessage удаляет сообщение
func (hc *HandlerContext) DeleteMessage() error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	_, err := hc.Bot.DeleteMessage(hc.Ctx, &bot.DeleteMessageParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
	})

	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.SendMessage(hc.Ctx, params)

	return err
}

// ResolveSession проверяет сессию пользователя. Вызывается на каждое действие:
// так бот узнаёт, что сессию отозвали, пока пользователь отсутствовал
func ResolveSession(ctx context.Context, ws *workspace.Workspace) (*model.Identity, error) {
	identity, err := ws.Session.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, model.ErrNoSession
	}
	return identity, nil
}

// RequireStudent онбординг обязателен для обычного пользователя перед записью
func RequireStudent(ctx context.Context, ws *workspace.Workspace, identity model.Identity) error {
	if identity.IsAdmin() {
		return ErrAdminUsesConsole
	}

	if !ws.Session.State().ProfileLoaded {
		if _, err := ws.Session.LoadProfile(ctx); err != nil {
			return err
		}
	}
	if ws.Session.NeedsOnboarding() {
		return model.ErrOnboardingRequired
	}
	return nil
}
