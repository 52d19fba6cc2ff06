package student

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/training_bot/internal/flow"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Booking Flow Handlers
// ========================

// HandleSelectDate выбор даты в календаре
func HandleSelectDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		date, err := model.ParseDate(strings.TrimPrefix(callback.Data, common.CbDate))
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse date")
			return
		}

		if err := hc.Workspace.Flow.SelectDate(date); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		showTimes(hc)
	})
}

// HandleSelectTime выбор времени
func HandleSelectTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		at, err := model.ParseClockTime(strings.TrimPrefix(callback.Data, common.CbTime))
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse time")
			return
		}

		if err := hc.Workspace.Flow.SelectTime(at); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		showConfirm(hc)
	})
}

// HandleBack шаг назад, выбранные значения сохраняются
func HandleBack(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		switch hc.Workspace.Flow.Back() {
		case flow.StepSelectDate:
			ShowCalendar(hc)
		case flow.StepSelectTime:
			showTimes(hc)
		default:
			hc.Answer("")
		}
	})
}

// HandleConfirm создаёт бронирование
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, confirmBooking)
}

// confirmBooking создаёт запись. На callback отвечает ровно один раз
func confirmBooking(hc *common.HandlerContext) {
	booking, err := hc.Workspace.Flow.Confirm(hc.Ctx, *hc.Identity)
	if err != nil {
		hc.Handler.Logger.Info("Booking not created",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		hc.AnswerAlert(common.ErrorMessage(err))

		// Слот заняли: показываем актуальные свободные времена
		if errors.Is(err, model.ErrSlotTaken) {
			if err := renderTimes(hc); err != nil {
				hc.Handler.Logger.Error("Failed to show times after conflict", zap.Error(err))
			}
		}
		return
	}

	text, kb := common.BuildDoneScreen(booking)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show booking result", zap.Error(err))
	}
	hc.Answer("✅ Готово")
}

// HandleFlowCancel отменяет запись и сбрасывает черновик
func HandleFlowCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Workspace.Flow.Reset()
		if err := hc.EditMessage("Запись отменена. Начать заново: /book", nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleBookAgain начинает новую запись
func HandleBookAgain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Workspace.Flow.Reset()
		ShowCalendar(hc)
	})
}

// ShowCalendar показывает календарь в текущем сообщении
func ShowCalendar(hc *common.HandlerContext) {
	text, kb := common.BuildCalendarScreen(hc.Workspace.Flow.Calendar())
	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "show calendar")
		return
	}
	hc.Answer("")
}

func showTimes(hc *common.HandlerContext) {
	if err := renderTimes(hc); err != nil {
		common.HandleError(hc, err, "show times")
		return
	}
	hc.Answer("")
}

// renderTimes перерисовывает экран выбора времени, на callback не отвечает
func renderTimes(hc *common.HandlerContext) error {
	times, err := hc.Workspace.Flow.Times(hc.Ctx)
	if errors.Is(err, flow.ErrStale) {
		// Пользователь уже выбрал другой день, экран перерисует более новый запрос
		return nil
	}
	if err != nil {
		return fmt.Errorf("load availability: %w", err)
	}

	_, draft := hc.Workspace.Flow.State()
	if draft.Date == nil {
		return nil
	}

	text, kb := common.BuildTimesScreen(*draft.Date, times)
	return hc.EditMessage(text, kb)
}

func showConfirm(hc *common.HandlerContext) {
	_, draft := hc.Workspace.Flow.State()
	if !draft.Complete() {
		hc.AnswerAlert(common.ErrorMessage(model.NewValidationError(model.FieldDateTime, "incomplete draft")))
		return
	}

	text, kb := common.BuildConfirmScreen(draft)
	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "show confirm")
		return
	}
	hc.Answer("")
}
