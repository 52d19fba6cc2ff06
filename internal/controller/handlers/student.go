package handlers

import (
	"context"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBook начинает новую запись с выбора даты
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	ws, _, ok := h.requireStudent(ctx, b, update)
	if !ok {
		return
	}

	ws.Flow.Reset()

	text, kb := common.BuildCalendarScreen(ws.Flow.Calendar())
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleMyBookings показывает предстоящие записи ученика
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	ws, identity, ok := h.requireStudent(ctx, b, update)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListUpcomingForUser(ctx, identity.UserID)
	if err != nil {
		h.logger.Error("Failed to list bookings",
			zap.Int64("telegram_id", ws.TelegramID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	text, kb := common.BuildMyBookingsScreen(bookings)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}
