package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpcomingGraceWindow сколько времени сегодняшнее занятие остаётся в списке ученика после начала
const UpcomingGraceWindow = time.Hour

// BookingStore хранилище бронирований
type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListFromDateByUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]*model.Booking, error)
	ListFromDate(ctx context.Context, from time.Time) ([]*model.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) error
}

// BookingService журнал бронирований: единственный общий изменяемый ресурс
type BookingService struct {
	store   BookingStore
	changes *ChangeBroker
	clock   Clock
	newID   func() uuid.UUID
	logger  *zap.Logger
}

func NewBookingService(
	store BookingStore,
	changes *ChangeBroker,
	clock Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		store:   store,
		changes: changes,
		clock:   clock,
		newID:   uuid.New,
		logger:  logger,
	}
}

// ListUpcomingForUser получает предстоящие бронирования пользователя.
// Сегодняшние показываются, пока с их начала прошло не больше часа
func (s *BookingService) ListUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	now := s.clock()
	today := model.DateOf(now)

	bookings, err := s.store.ListFromDateByUser(ctx, userID, today)
	if err != nil {
		s.logger.Error("Failed to list user bookings", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, model.NewUnavailableError("list user bookings", err)
	}

	graceStart := now.Add(-UpcomingGraceWindow)
	upcoming := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.BookingDate.After(today) {
			upcoming = append(upcoming, b)
			continue
		}
		if b.BookingDate.Equal(today) && !b.StartsAt(now.Location()).Before(graceStart) {
			upcoming = append(upcoming, b)
		}
	}

	return upcoming, nil
}

// ListUpcomingAll получает все бронирования начиная с сегодняшнего дня (агенда администратора)
func (s *BookingService) ListUpcomingAll(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.store.ListFromDate(ctx, model.DateOf(s.clock()))
	if err != nil {
		s.logger.Error("Failed to list upcoming bookings", zap.Error(err))
		return nil, model.NewUnavailableError("list upcoming bookings", err)
	}
	return bookings, nil
}

// Create создаёт бронирование по черновику.
// Окончательно занятость слота проверяет ограничение уникальности в БД:
// два клиента могут одновременно увидеть слот свободным
func (s *BookingService) Create(ctx context.Context, owner model.Identity, draft model.Draft) (*model.Booking, error) {
	if !draft.Complete() {
		return nil, model.NewValidationError(model.FieldDateTime, "date and time are required")
	}

	now := s.clock()
	date := model.DateOf(*draft.Date)
	if draft.Time.On(date, now.Location()).Before(now) {
		return nil, model.NewValidationError(model.FieldTime, "slot is in the past")
	}

	booking := &model.Booking{
		ID:           s.newID(),
		UserID:       owner.UserID,
		Service:      draft.Service,
		Professional: draft.Professional,
		BookingDate:  date,
		BookingTime:  *draft.Time,
	}

	if err := s.store.Create(ctx, booking); err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.logger.Info("Slot already taken",
				zap.String("user_id", owner.UserID.String()),
				zap.String("date", model.FormatDate(date)),
				zap.String("time", booking.BookingTime.String()),
				zap.String("professional", booking.Professional),
			)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", owner.UserID.String()),
		zap.String("date", model.FormatDate(date)),
		zap.String("time", booking.BookingTime.String()),
		zap.String("professional", booking.Professional),
	)

	return booking, nil
}

// Delete удаляет бронирование. Обычный пользователь может удалить только своё,
// администратор - любое. Слот сразу становится свободным
func (s *BookingService) Delete(ctx context.Context, requester model.Identity, bookingID uuid.UUID) error {
	var err error
	if requester.IsAdmin() {
		err = s.store.Delete(ctx, bookingID)
	} else {
		err = s.store.DeleteOwned(ctx, bookingID, requester.UserID)
	}

	if err != nil {
		if errors.Is(err, model.ErrNotOwner) {
			s.logger.Warn("Attempt to delete foreign booking",
				zap.String("booking_id", bookingID.String()),
				zap.String("user_id", requester.UserID.String()),
			)
		}
		return fmt.Errorf("delete booking: %w", err)
	}

	s.logger.Info("Booking deleted",
		zap.String("booking_id", bookingID.String()),
		zap.String("user_id", requester.UserID.String()),
		zap.String("role", string(requester.Role)),
	)

	return nil
}

// GetByID получает бронирование по ID
func (s *BookingService) GetByID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, model.NewUnavailableError("get booking", err)
	}
	return booking, nil
}

// Subscribe подписывает на изменения бронирований (любая вставка, изменение, удаление)
func (s *BookingService) Subscribe() (<-chan model.BookingChange, func()) {
	return s.changes.Subscribe()
}
