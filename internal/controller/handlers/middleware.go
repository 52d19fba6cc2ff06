package handlers

import (
	"context"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/training_bot/internal/controller/workspace"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireSession проверяет что пользователь вошёл.
// Возвращает workspace, identity и true если OK
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update) (*workspace.Workspace, *model.Identity, bool) {
	if update.Message == nil {
		return nil, nil, false
	}

	telegramID := update.Message.From.ID
	ws := h.workspaces.Get(telegramID)

	identity, err := common.ResolveSession(ctx, ws)
	if err != nil {
		h.logger.Info("Session check failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return nil, nil, false
	}

	return ws, identity, true
}

// requireStudent проверяет что пользователь вошёл, указал имя и не администратор
func (h *Handlers) requireStudent(ctx context.Context, b *bot.Bot, update *models.Update) (*workspace.Workspace, *model.Identity, bool) {
	ws, identity, ok := h.requireSession(ctx, b, update)
	if !ok {
		return nil, nil, false
	}

	if err := common.RequireStudent(ctx, ws, *identity); err != nil {
		h.logger.Info("Student check failed", zap.Int64("telegram_id", ws.TelegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return nil, nil, false
	}

	return ws, identity, true
}

// requireAdmin проверяет что пользователь является администратором
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) (*workspace.Workspace, *model.Identity, bool) {
	ws, identity, ok := h.requireSession(ctx, b, update)
	if !ok {
		return nil, nil, false
	}

	if !identity.IsAdmin() {
		h.logger.Warn("Admin check failed", zap.Int64("telegram_id", ws.TelegramID))
		h.sendError(ctx, b, update.Message.Chat.ID, model.ErrForbidden)
		return nil, nil, false
	}

	return ws, identity, true
}
