package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/student"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == keyboard.Noop:
		// Заголовки календаря и закрытые дни
		common.AnswerCallback(ctx, b, callback.ID, "")
	case data == common.CbDismiss:
		admin.HandleDismiss(ctx, b, callback, h)

	// ===== Student: Booking Flow =====
	case strings.HasPrefix(data, common.CbDate):
		student.HandleSelectDate(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbTime):
		student.HandleSelectTime(ctx, b, callback, h)
	case data == common.CbFlowBack:
		student.HandleBack(ctx, b, callback, h)
	case data == common.CbConfirm:
		student.HandleConfirm(ctx, b, callback, h)
	case data == common.CbFlowCancel:
		student.HandleFlowCancel(ctx, b, callback, h)
	case data == common.CbBookAgain:
		student.HandleBookAgain(ctx, b, callback, h)

	// ===== Student: My Bookings =====
	case data == common.CbMyBookings:
		student.HandleMyBookings(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbCancelBooking):
		student.HandleCancelBooking(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbConfirmCancel):
		student.HandleConfirmCancel(ctx, b, callback, h)

	// ===== Admin: Agenda =====
	case data == common.CbAgenda:
		admin.HandleAgenda(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbAdminDelete):
		admin.HandleAdminDelete(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbAdminConfirmDelete):
		admin.HandleAdminConfirmDelete(ctx, b, callback, h)

	// ===== Admin: Students & Routines =====
	case data == common.CbStudents:
		admin.HandleStudents(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbStudent):
		admin.HandleStudent(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbRoutineEdit):
		admin.HandleRoutineEdit(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbRoutine):
		admin.HandleRoutine(ctx, b, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
