package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// IsMessageNotModifiedError Telegram отвечает так, если текст и клавиатура не изменились
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// CallbackArgs разбивает callback data на аргументы после префикса.
// Например: "routine:<uuid>:3" -> ["<uuid>", "3"]
func CallbackArgs(data, prefix string, n int) ([]string, error) {
	if !strings.HasPrefix(data, prefix) {
		return nil, ErrInvalidFormat
	}
	args := strings.Split(strings.TrimPrefix(data, prefix), ":")
	if len(args) != n {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return args, nil
}

// ParseUUIDFromCallback извлекает UUID из callback data.
// Например: "cancel_booking:<uuid>" -> uuid
func ParseUUIDFromCallback(data, prefix string) (uuid.UUID, error) {
	args, err := CallbackArgs(data, prefix, 1)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return id, nil
}

// ParseStudentDay извлекает ученика и день недели: "routine:<uuid>:3"
func ParseStudentDay(data, prefix string) (uuid.UUID, int, error) {
	args, err := CallbackArgs(data, prefix, 2)
	if err != nil {
		return uuid.Nil, 0, err
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	day, err := strconv.Atoi(args[1])
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return id, day, nil
}
