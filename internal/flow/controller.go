// Package flow пошаговая запись на занятие: дата, время, подтверждение
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"go.uber.org/zap"
)

type Step int

const (
	StepSelectDate Step = iota
	StepSelectTime
	StepConfirm
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepSelectDate:
		return "select_date"
	case StepSelectTime:
		return "select_time"
	case StepConfirm:
		return "confirm"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// ErrStale результат загрузки устарел: черновик изменился или запись сброшена
var ErrStale = errors.New("draft changed while loading")

// Availability источник свободных слотов
type Availability interface {
	Available(ctx context.Context, date time.Time, professional string) ([]model.ClockTime, error)
	InCatalog(t model.ClockTime) bool
}

// BookingCreator создаёт бронирование
type BookingCreator interface {
	Create(ctx context.Context, owner model.Identity, draft model.Draft) (*model.Booking, error)
}

// Controller черновик записи одного пользователя.
// version растёт при каждом изменении черновика, epoch - при сбросе;
// по ним отбрасываются результаты загрузок, завершившихся слишком поздно
type Controller struct {
	availability Availability
	bookings     BookingCreator
	service      string
	professional string
	now          func() time.Time
	logger       *zap.Logger

	mu      sync.Mutex
	step    Step
	draft   model.Draft
	version uint64
	epoch   uint64
}

func NewController(
	availability Availability,
	bookings BookingCreator,
	service, professional string,
	now func() time.Time,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		availability: availability,
		bookings:     bookings,
		service:      service,
		professional: professional,
		now:          now,
		logger:       logger,
		step:         StepSelectDate,
		draft:        model.NewDraft(service, professional),
	}
}

// State возвращает текущий шаг и копию черновика
func (c *Controller) State() (Step, model.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step, copyDraft(c.draft)
}

// Calendar календарь для выбора даты
func (c *Controller) Calendar() Calendar {
	return BuildCalendar(c.now())
}

// SelectDate выбирает дату. Выбранное ранее время сбрасывается только при смене дня:
// на другой день оно может быть занято
func (c *Controller) SelectDate(date time.Time) error {
	if !Selectable(date, c.now()) {
		return model.NewValidationError(model.FieldDate, "date is in the past or closed")
	}

	d := model.DateOf(date)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.Date == nil || !c.draft.Date.Equal(d) {
		c.draft.Time = nil
	}
	c.draft.Date = &d
	c.version++
	c.step = StepSelectTime
	return nil
}

// Times загружает свободные времена на выбранную дату.
// Если пока шла загрузка черновик изменился, возвращается ErrStale
func (c *Controller) Times(ctx context.Context) ([]model.ClockTime, error) {
	c.mu.Lock()
	if c.draft.Date == nil {
		c.mu.Unlock()
		return nil, model.NewValidationError(model.FieldDate, "date is required")
	}
	date := *c.draft.Date
	professional := c.draft.Professional
	version, epoch := c.version, c.epoch
	c.mu.Unlock()

	times, err := c.availability.Available(ctx, date, professional)

	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.version || epoch != c.epoch {
		c.logger.Debug("Discarding stale availability",
			zap.String("date", model.FormatDate(date)),
			zap.Uint64("version", version),
			zap.Uint64("current", c.version))
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	return times, nil
}

// SelectTime выбирает время из каталога
func (c *Controller) SelectTime(t model.ClockTime) error {
	if !c.availability.InCatalog(t) {
		return model.NewValidationError(model.FieldTime, "time is not offered")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.Date == nil {
		return model.NewValidationError(model.FieldDate, "date is required")
	}

	c.draft.Time = &t
	c.version++
	c.step = StepConfirm
	return nil
}

// Back возвращает на предыдущий шаг, выбранные значения сохраняются
func (c *Controller) Back() Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepConfirm:
		c.step = StepSelectTime
	case StepSelectTime:
		c.step = StepSelectDate
	}
	return c.step
}

// Confirm создаёт бронирование по черновику.
// Успех: черновик сброшен, шаг Done. Слот занят: черновик сохранён,
// возврат к выбору времени. Прочие ошибки: состояние не меняется
func (c *Controller) Confirm(ctx context.Context, owner model.Identity) (*model.Booking, error) {
	c.mu.Lock()
	draft := copyDraft(c.draft)
	epoch := c.epoch
	c.mu.Unlock()

	if !draft.Complete() {
		return nil, model.NewValidationError(model.FieldDateTime, "date and time are required")
	}

	booking, err := c.bookings.Create(ctx, owner, draft)

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		// Пользователь вышел, пока шёл запрос: состояние уже сброшено
		if err != nil {
			return nil, err
		}
		return booking, nil
	}

	if err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			c.step = StepSelectTime
		}
		return nil, err
	}

	c.draft = model.NewDraft(c.service, c.professional)
	c.version++
	c.step = StepDone
	return booking, nil
}

// Reset сбрасывает черновик к значениям по умолчанию.
// Незавершённые загрузки будут отброшены
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = model.NewDraft(c.service, c.professional)
	c.step = StepSelectDate
	c.version++
	c.epoch++
}

func copyDraft(d model.Draft) model.Draft {
	out := d
	if d.Date != nil {
		date := *d.Date
		out.Date = &date
	}
	if d.Time != nil {
		t := *d.Time
		out.Time = &t
	}
	return out
}
