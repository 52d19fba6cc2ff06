package common

import (
	"context"
	"errors"

	"github.com/Freeeeeet/training_bot/internal/admin"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/training_bot/internal/controller/workspace"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ShowLiveAgenda открывает консоль и показывает агенду в сообщении messageID
// (0 - отправить новое). Сообщение перерисовывается при каждом изменении журнала
func ShowLiveAgenda(
	ctx context.Context,
	b *bot.Bot,
	h *callbacktypes.Handler,
	ws *workspace.Workspace,
	identity model.Identity,
	chatID int64,
	messageID int,
) error {
	console, err := ws.Console(identity)
	if err != nil {
		return err
	}

	// При ошибке загрузки агенда покажет пустое состояние
	if err := console.Open(ctx); err != nil && !errors.Is(err, model.ErrUnavailable) {
		return err
	}

	text, kb := agendaScreen(h, console)

	if messageID == 0 {
		msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: kb,
		})
		if err != nil {
			return err
		}
		messageID = msg.ID
	} else {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: kb,
		})
		if err != nil && !IsMessageNotModifiedError(err) {
			return err
		}
	}

	view := workspace.AgendaView{ChatID: chatID, MessageID: messageID}
	stop := console.OnChange(func() {
		renderAgenda(ctx, b, h, console, view)
	})
	ws.ShowAgenda(view, stop)

	return nil
}

func renderAgenda(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, console *admin.Console, view workspace.AgendaView) {
	text, kb := agendaScreen(h, console)

	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      view.ChatID,
		MessageID:   view.MessageID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	if err != nil && !IsMessageNotModifiedError(err) {
		h.Logger.Warn("Failed to re-render agenda",
			zap.Int64("chat_id", view.ChatID),
			zap.Int("message_id", view.MessageID),
			zap.Error(err))
	}
}

func agendaScreen(h *callbacktypes.Handler, console *admin.Console) (string, *models.InlineKeyboardMarkup) {
	agenda, err := console.Agenda()
	return BuildAgendaScreen(agenda, err, h.Now())
}
