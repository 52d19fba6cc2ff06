package admin

import (
	"context"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Admin Agenda Handlers
// ========================

// HandleAgenda показывает живую агенду в текущем сообщении
func HandleAgenda(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if hc.Message == nil {
			common.HandleError(hc, common.ErrNoMessage, "show agenda")
			return
		}

		err := common.ShowLiveAgenda(hc.Ctx, b, h, hc.Workspace, *hc.Identity, hc.ChatID, hc.Message.ID)
		if err != nil {
			common.HandleError(hc, err, "show agenda")
			return
		}
		hc.Answer("")
	})
}

// HandleAdminDelete спрашивает подтверждение удаления отдельным сообщением,
// чтобы агенда продолжала обновляться
func HandleAdminDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseUUIDFromCallback(callback.Data, common.CbAdminDelete)
		if err != nil {
			common.HandleError(hc, err, "parse booking id")
			return
		}

		booking, err := h.BookingService.GetByID(hc.Ctx, bookingID)
		if err != nil {
			common.HandleError(hc, err, "get booking")
			return
		}
		if booking == nil {
			hc.AnswerAlert(common.ErrorMessage(model.ErrBookingNotFound))
			return
		}

		// Имя ученика берём из агенды: GetByID его не подтягивает
		if console, err := hc.Workspace.Console(*hc.Identity); err == nil {
			agenda, _ := console.Agenda()
			if listed := common.FindBooking(agenda, bookingID); listed != nil {
				booking = listed
			}
		}

		text, kb := common.BuildAdminDeleteConfirmScreen(booking)
		if err := hc.SendMessage(text, kb); err != nil {
			common.HandleError(hc, err, "show delete confirm")
			return
		}
		hc.Answer("")
	})
}

// HandleAdminConfirmDelete удаляет запись. Агенда перерисуется по уведомлению
func HandleAdminConfirmDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseUUIDFromCallback(callback.Data, common.CbAdminConfirmDelete)
		if err != nil {
			common.HandleError(hc, err, "parse booking id")
			return
		}

		console, err := hc.Workspace.Console(*hc.Identity)
		if err != nil {
			common.HandleError(hc, err, "open console")
			return
		}

		if err := console.DeleteBooking(hc.Ctx, bookingID); err != nil {
			common.HandleError(hc, err, "delete booking")
			return
		}

		h.Logger.Info("Booking deleted by admin",
			zap.String("admin", hc.Identity.Email),
			zap.String("booking_id", bookingID.String()))

		if err := hc.DeleteMessage(); err != nil {
			h.Logger.Warn("Failed to delete confirm message", zap.Error(err))
		}
		hc.Answer("🗑 Запись удалена")
	})
}

// HandleDismiss удаляет служебное сообщение
func HandleDismiss(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	if err := hc.DeleteMessage(); err != nil {
		h.Logger.Warn("Failed to dismiss message", zap.Error(err))
	}
	hc.Answer("")
}
