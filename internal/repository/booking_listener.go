package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// BookingsChannel канал NOTIFY, в который пишет триггер bookings_notify
const BookingsChannel = "bookings_changed"

// BookingListener слушает изменения таблицы bookings через LISTEN/NOTIFY
type BookingListener struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewBookingListener(pool *pgxpool.Pool, logger *zap.Logger) *BookingListener {
	return &BookingListener{pool: pool, logger: logger}
}

// Listen блокируется до отмены ctx или ошибки соединения.
// На каждое уведомление вызывается handle
func (l *BookingListener) Listen(ctx context.Context, handle func(model.BookingChange)) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer func() {
		// соединение возвращается в пул, подписка ему больше не нужна
		_, _ = conn.Exec(context.Background(), "UNLISTEN "+BookingsChannel)
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+BookingsChannel); err != nil {
		return fmt.Errorf("listen %s: %w", BookingsChannel, err)
	}

	l.logger.Info("Listening for booking changes", zap.String("channel", BookingsChannel))

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		change, err := ParseBookingChange(notification.Payload)
		if err != nil {
			// Уведомление всё равно означает изменение - отдаём его без ID
			l.logger.Warn("Malformed booking notification",
				zap.String("payload", notification.Payload),
				zap.Error(err))
		}

		handle(change)
	}
}

// ParseBookingChange разбирает payload триггера: {"op":"INSERT","id":"..."}
func ParseBookingChange(payload string) (model.BookingChange, error) {
	var change model.BookingChange
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return model.BookingChange{}, fmt.Errorf("parse booking change: %w", err)
	}
	return change, nil
}
