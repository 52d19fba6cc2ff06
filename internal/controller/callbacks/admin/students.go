package admin

import (
	"context"
	"fmt"
	"html"

	admincore "github.com/Freeeeeet/training_bot/internal/admin"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/training_bot/internal/controller/state"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ========================
// Admin Students & Routines
// ========================

// HandleStudents показывает список учеников
func HandleStudents(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withConsole(ctx, b, callback, h, func(hc *common.HandlerContext, console *admincore.Console) {
		if err := console.RefreshRoster(hc.Ctx); err != nil {
			h.Logger.Warn("Failed to refresh roster", zap.Error(err))
		}

		students, err := console.Students()
		text, kb := common.BuildRosterScreen(students, err)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "show roster")
			return
		}
		hc.Answer("")
	})
}

// HandleStudent дни недели для плана ученика
func HandleStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withConsole(ctx, b, callback, h, func(hc *common.HandlerContext, console *admincore.Console) {
		studentID, err := common.ParseUUIDFromCallback(callback.Data, common.CbStudent)
		if err != nil {
			common.HandleError(hc, err, "parse student id")
			return
		}

		student := findStudent(hc, console, studentID)
		text, kb := common.BuildStudentScreen(student)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "show student")
			return
		}
		hc.Answer("")
	})
}

// HandleRoutine план ученика на день
func HandleRoutine(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withConsole(ctx, b, callback, h, func(hc *common.HandlerContext, console *admincore.Console) {
		studentID, day, err := common.ParseStudentDay(callback.Data, common.CbRoutine)
		if err != nil {
			common.HandleError(hc, err, "parse routine")
			return
		}

		content, err := console.Routine(hc.Ctx, studentID, day)
		if err != nil {
			common.HandleError(hc, err, "get routine")
			return
		}

		text, kb := common.BuildRoutineScreen(findStudent(hc, console, studentID), day, content)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "show routine")
			return
		}
		hc.Answer("")
	})
}

// HandleRoutineEdit запрашивает новый текст плана. Ответ обрабатывает диалог в handlers
func HandleRoutineEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withConsole(ctx, b, callback, h, func(hc *common.HandlerContext, console *admincore.Console) {
		studentID, day, err := common.ParseStudentDay(callback.Data, common.CbRoutineEdit)
		if err != nil {
			common.HandleError(hc, err, "parse routine")
			return
		}
		if !model.ValidRoutineDay(day) {
			common.HandleError(hc, model.NewValidationError(model.FieldDayOfWeek, "day out of range"), "edit routine")
			return
		}

		student := findStudent(hc, console, studentID)
		h.StateManager.Start(hc.TelegramID, state.StateRoutineContent, map[string]any{
			state.KeyStudentID: studentID,
			state.KeyDay:       day,
		})

		text := fmt.Sprintf("✏️ Отправьте план для %s на %s.\n\nДля отмены используйте /cancel",
			html.EscapeString(student.DisplayName()), formatting.GetWeekdayName(day))
		if err := hc.SendMessage(text, nil); err != nil {
			common.HandleError(hc, err, "ask routine content")
			return
		}
		hc.Answer("")
	})
}

// withConsole проверяет роль, открывает консоль и снимает живую агенду
// с сообщения: оно переходит к другому экрану
func withConsole(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*common.HandlerContext, *admincore.Console),
) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		console, err := hc.Workspace.Console(*hc.Identity)
		if err != nil {
			common.HandleError(hc, err, "open console")
			return
		}
		if err := console.Open(hc.Ctx); err != nil {
			h.Logger.Warn("Console opened with errors", zap.Error(err))
		}

		if hc.Message != nil {
			hc.Workspace.StopAgenda(hc.Message.ID)
		}

		handler(hc, console)
	})
}

func findStudent(hc *common.HandlerContext, console *admincore.Console, id uuid.UUID) *model.Profile {
	if student, ok := console.Student(id); ok {
		return student
	}
	if err := console.RefreshRoster(hc.Ctx); err != nil {
		hc.Handler.Logger.Warn("Failed to refresh roster", zap.Error(err))
	}
	if student, ok := console.Student(id); ok {
		return student
	}
	return &model.Profile{ID: id}
}
