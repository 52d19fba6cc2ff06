// Package admin консоль администратора: живая агенда, список учеников и их планы
package admin

import (
	"context"
	"sync"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Bookings журнал бронирований
type Bookings interface {
	ListUpcomingAll(ctx context.Context) ([]*model.Booking, error)
	Delete(ctx context.Context, requester model.Identity, bookingID uuid.UUID) error
	Subscribe() (<-chan model.BookingChange, func())
}

// Roster список учеников
type Roster interface {
	Roster(ctx context.Context) ([]*model.Profile, error)
}

// Routines планы тренировок
type Routines interface {
	GetEntry(ctx context.Context, studentID uuid.UUID, day int) (string, error)
	UpsertEntry(ctx context.Context, actor model.Identity, studentID uuid.UUID, day int, content string) error
}

// Console состояние консоли одного администратора.
// Пока консоль открыта, каждое изменение журнала перечитывает агенду целиком.
// Результат загрузки применяется, только если консоль всё ещё открыта в той же
// эпохе и за это время не была применена более поздняя загрузка
type Console struct {
	bookings Bookings
	roster   Roster
	routines Routines
	actor    model.Identity
	logger   *zap.Logger

	mu        sync.Mutex
	alive     bool
	epoch     uint64
	seq       uint64
	applied   uint64
	agenda    []*model.Booking
	agendaErr error
	students  []*model.Profile
	rosterErr error
	stop      func()
	listeners map[int]func()
	nextID    int
}

func NewConsole(bookings Bookings, roster Roster, routines Routines, actor model.Identity, logger *zap.Logger) *Console {
	return &Console{
		bookings:  bookings,
		roster:    roster,
		routines:  routines,
		actor:     actor,
		logger:    logger.With(zap.String("admin", actor.Email)),
		listeners: make(map[int]func()),
	}
}

// Open открывает консоль: подписка на изменения журнала и параллельная
// загрузка агенды и списка учеников. Повторный вызов ничего не делает
func (c *Console) Open(ctx context.Context) error {
	if !c.actor.IsAdmin() {
		return model.ErrForbidden
	}

	c.mu.Lock()
	if c.alive {
		c.mu.Unlock()
		return nil
	}
	c.alive = true
	c.epoch++
	epoch := c.epoch

	changes, unsubscribe := c.bookings.Subscribe()
	watchCtx, cancel := context.WithCancel(ctx)
	c.stop = func() {
		cancel()
		unsubscribe()
	}
	c.mu.Unlock()

	go c.watch(watchCtx, epoch, changes)

	var (
		g        errgroup.Group
		agenda   []*model.Booking
		students []*model.Profile
		agErr    error
		roErr    error
	)
	seq := c.nextSeq()

	g.Go(func() error {
		agenda, agErr = c.bookings.ListUpcomingAll(ctx)
		return agErr
	})
	g.Go(func() error {
		students, roErr = c.roster.Roster(ctx)
		return roErr
	})
	err := g.Wait()

	c.mu.Lock()
	if !c.current(epoch) {
		c.mu.Unlock()
		return nil
	}
	c.students, c.rosterErr = students, roErr
	c.applyAgendaLocked(seq, agenda, agErr)
	c.mu.Unlock()

	c.notify()

	if err != nil {
		c.logger.Warn("Admin console opened with errors", zap.Error(err))
	}
	return err
}

// Close закрывает консоль. Загрузки, завершившиеся после закрытия, отбрасываются
func (c *Console) Close() {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return
	}
	c.alive = false
	c.epoch++
	stop := c.stop
	c.stop = nil
	c.agenda, c.agendaErr = nil, nil
	c.students, c.rosterErr = nil, nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Alive открыта ли консоль
func (c *Console) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

// Agenda возвращает последнюю загруженную агенду и ошибку загрузки
func (c *Console) Agenda() ([]*model.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*model.Booking(nil), c.agenda...), c.agendaErr
}

// Students возвращает список учеников
func (c *Console) Students() ([]*model.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*model.Profile(nil), c.students...), c.rosterErr
}

// Student ищет ученика в загруженном списке
func (c *Console) Student(id uuid.UUID) (*model.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.students {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Refresh перечитывает агенду
func (c *Console) Refresh(ctx context.Context) error {
	c.mu.Lock()
	epoch := c.epoch
	alive := c.alive
	c.mu.Unlock()

	if !alive {
		return nil
	}
	return c.refresh(ctx, epoch)
}

// RefreshRoster перечитывает список учеников
func (c *Console) RefreshRoster(ctx context.Context) error {
	c.mu.Lock()
	epoch := c.epoch
	alive := c.alive
	c.mu.Unlock()

	if !alive {
		return nil
	}

	students, err := c.roster.Roster(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(epoch) {
		return nil
	}
	c.students, c.rosterErr = students, err
	return err
}

// DeleteBooking удаляет любое бронирование и перечитывает агенду
func (c *Console) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	if err := c.bookings.Delete(ctx, c.actor, bookingID); err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("Failed to refresh agenda after delete", zap.Error(err))
	}
	return nil
}

// Routine план ученика на день недели
func (c *Console) Routine(ctx context.Context, studentID uuid.UUID, day int) (string, error) {
	return c.routines.GetEntry(ctx, studentID, day)
}

// SaveRoutine сохраняет план ученика на день недели
func (c *Console) SaveRoutine(ctx context.Context, studentID uuid.UUID, day int, content string) error {
	return c.routines.UpsertEntry(ctx, c.actor, studentID, day, content)
}

// OnChange регистрирует обработчик перерисовки. Возвращает функцию отписки
func (c *Console) OnChange(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Console) watch(ctx context.Context, epoch uint64, changes <-chan model.BookingChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			c.logger.Debug("Booking changed, reloading agenda",
				zap.String("op", string(change.Op)),
				zap.String("booking_id", change.BookingID.String()))
			if err := c.refresh(ctx, epoch); err != nil {
				c.logger.Warn("Failed to reload agenda", zap.Error(err))
			}
		}
	}
}

func (c *Console) refresh(ctx context.Context, epoch uint64) error {
	seq := c.nextSeq()
	agenda, err := c.bookings.ListUpcomingAll(ctx)

	c.mu.Lock()
	if !c.current(epoch) {
		c.mu.Unlock()
		return nil
	}
	changed := c.applyAgendaLocked(seq, agenda, err)
	c.mu.Unlock()

	if changed {
		c.notify()
	}
	return err
}

func (c *Console) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

func (c *Console) current(epoch uint64) bool {
	return c.alive && c.epoch == epoch
}

func (c *Console) applyAgendaLocked(seq uint64, agenda []*model.Booking, err error) bool {
	if seq < c.applied {
		return false
	}
	c.applied = seq
	if err != nil {
		// при ошибке показываем пустое состояние
		c.agenda, c.agendaErr = nil, err
		return true
	}
	c.agenda, c.agendaErr = agenda, nil
	return true
}

func (c *Console) notify() {
	c.mu.Lock()
	listeners := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
