package student

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
// Student Bookings Handlers
// ========================

// HandleMyBookings показывает предстоящие записи
func HandleMyBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		showMyBookings(hc)
		hc.Answer("")
	})
}

// HandleCancelBooking спрашивает подтверждение отмены
func HandleCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseUUIDFromCallback(callback.Data, common.CbCancelBooking)
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
			showMyBookings(hc)
			return
		}
		if booking.UserID != hc.Identity.UserID {
			common.HandleError(hc, model.ErrNotOwner, "cancel booking")
			return
		}

		text, kb := common.BuildCancelConfirmScreen(booking)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "show cancel confirm")
			return
		}
		hc.Answer("")
	})
}

// HandleConfirmCancel удаляет свою запись
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseUUIDFromCallback(callback.Data, common.CbConfirmCancel)
		if err != nil {
			common.HandleError(hc, err, "parse booking id")
			return
		}

		if err := h.BookingService.Delete(hc.Ctx, *hc.Identity, bookingID); err != nil {
			common.HandleError(hc, err, "delete booking")
			return
		}

		h.Logger.Info("Booking cancelled by student",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("booking_id", bookingID.String()))

		showMyBookings(hc)
		hc.Answer("✅ Запись отменена")
	})
}

func showMyBookings(hc *common.HandlerContext) {
	bookings, err := hc.Handler.BookingService.ListUpcomingForUser(hc.Ctx, hc.Identity.UserID)
	if err != nil {
		// Пустое состояние вместо списка
		hc.Handler.Logger.Warn("Failed to load bookings", zap.Error(err))
		bookings = nil
	}

	text, kb := common.BuildMyBookingsScreen(bookings)
	if err != nil {
		text = common.ErrorMessage(err) + "\n\n" + text
	}
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show bookings", zap.Error(err))
	}
}
