package model

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Service      string    `json:"service"`
	Professional string    `json:"professional"`
	BookingDate  time.Time `json:"booking_date"` // только дата, полночь UTC
	BookingTime  ClockTime `json:"booking_time"`
	CreatedAt    time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	UserName string `json:"user_name,omitempty"`
}

// StartsAt возвращает момент начала занятия в локации loc
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.BookingTime.On(b.BookingDate, loc)
}

// BookingChangeOp тип изменения в таблице bookings
type BookingChangeOp string

const (
	BookingInserted BookingChangeOp = "INSERT"
	BookingUpdated  BookingChangeOp = "UPDATE"
	BookingDeleted  BookingChangeOp = "DELETE"
)

// BookingChange уведомление об изменении бронирования
type BookingChange struct {
	Op        BookingChangeOp `json:"op"`
	BookingID uuid.UUID       `json:"id"`
}
