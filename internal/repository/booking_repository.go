package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/Freeeeeet/training_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Имя ограничения уникальности слота из миграции 00001_init.sql
const bookingSlotConstraint = "bookings_slot_unique"

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новое бронирование.
// Занятый слот отклоняется ограничением bookings_slot_unique, а не проверкой в коде
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, service, professional, booking_date, booking_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.ID,
		booking.UserID,
		booking.Service,
		booking.Professional,
		booking.BookingDate,
		booking.BookingTime,
	).Scan(&booking.CreatedAt)

	if err != nil {
		return createBookingError(err)
	}

	return nil
}

// createBookingError переводит ошибки вставки в доменные
func createBookingError(err error) error {
	switch {
	case base.IsUniqueViolation(err, bookingSlotConstraint):
		return model.ErrSlotTaken
	case base.IsForeignKeyViolation(err):
		// профиля ещё нет: пользователь не прошёл онбординг
		return model.ErrOnboardingRequired
	default:
		return fmt.Errorf("create booking: %w", err)
	}
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, user_id, service, professional, booking_date, booking_time, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.Service,
		&booking.Professional,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// OccupiedTimes возвращает занятые времена на дату у специалиста
func (r *BookingRepository) OccupiedTimes(ctx context.Context, date time.Time, professional string) ([]model.ClockTime, error) {
	query := `
		SELECT booking_time
		FROM bookings
		WHERE booking_date = $1 AND professional = $2
		ORDER BY booking_time
	`

	rows, err := r.Query(ctx, query, date, professional)
	if err != nil {
		return nil, fmt.Errorf("get occupied times: %w", err)
	}
	defer rows.Close()

	var times []model.ClockTime
	for rows.Next() {
		var t model.ClockTime
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan booking time: %w", err)
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking times: %w", err)
	}

	return times, nil
}

// ListFromDateByUser получает бронирования пользователя начиная с даты from
func (r *BookingRepository) ListFromDateByUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.service, b.professional, b.booking_date, b.booking_time, b.created_at,
		       COALESCE(p.full_name, '')
		FROM bookings b
		LEFT JOIN profiles p ON p.id = b.user_id
		WHERE b.user_id = $1 AND b.booking_date >= $2
		ORDER BY b.booking_date, b.booking_time
	`

	rows, err := r.Query(ctx, query, userID, from)
	if err != nil {
		return nil, fmt.Errorf("get bookings by user: %w", err)
	}

	return collectBookings(rows)
}

// ListFromDate получает бронирования всех пользователей начиная с даты from (для агенды)
func (r *BookingRepository) ListFromDate(ctx context.Context, from time.Time) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.service, b.professional, b.booking_date, b.booking_time, b.created_at,
		       COALESCE(p.full_name, '')
		FROM bookings b
		LEFT JOIN profiles p ON p.id = b.user_id
		WHERE b.booking_date >= $1
		ORDER BY b.booking_date, b.booking_time
	`

	rows, err := r.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("get upcoming bookings: %w", err)
	}

	return collectBookings(rows)
}

// Delete удаляет любое бронирование (для администратора)
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if affected == 0 {
		return model.ErrBookingNotFound
	}

	return nil
}

// DeleteOwned удаляет бронирование только если оно принадлежит userID.
// Владелец проверяется в самом запросе, поэтому чужое бронирование удалить нельзя
func (r *BookingRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete own booking: %w", err)
	}

	if affected > 0 {
		return nil
	}

	// Ничего не удалили: либо бронирования нет, либо оно чужое
	var exists bool
	err = r.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check booking exists: %w", err)
	}

	if exists {
		return model.ErrNotOwner
	}
	return model.ErrBookingNotFound
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.Service,
			&booking.Professional,
			&booking.BookingDate,
			&booking.BookingTime,
			&booking.CreatedAt,
			&booking.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}
