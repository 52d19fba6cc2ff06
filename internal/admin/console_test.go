package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/Freeeeeet/training_bot/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	adminIdentity   = model.Identity{UserID: uuid.New(), Email: "coach@example.com", Role: model.RoleAdmin}
	regularIdentity = model.Identity{UserID: uuid.New(), Email: "anna@example.com", Role: model.RoleRegular}
)

type fakeBookings struct {
	broker *service.ChangeBroker

	mu      sync.Mutex
	list    []*model.Booking
	listErr error
	gate    chan struct{}
	started chan struct{}
	deleted []uuid.UUID
	calls   int
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{
		broker:  service.NewChangeBroker(),
		started: make(chan struct{}, 16),
	}
}

func (f *fakeBookings) set(bookings ...*model.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = bookings
}

func (f *fakeBookings) ListUpcomingAll(ctx context.Context) ([]*model.Booking, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.gate = nil
	list := append([]*model.Booking(nil), f.list...)
	err := f.listErr
	f.mu.Unlock()

	f.started <- struct{}{}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, model.NewUnavailableError("list upcoming bookings", err)
	}
	return list, nil
}

func (f *fakeBookings) Delete(_ context.Context, requester model.Identity, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !requester.IsAdmin() {
		return model.ErrNotOwner
	}
	kept := f.list[:0]
	for _, b := range f.list {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	f.list = kept
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBookings) Subscribe() (<-chan model.BookingChange, func()) {
	return f.broker.Subscribe()
}

type fakeRoster struct {
	profiles []*model.Profile
	err      error
}

func (f *fakeRoster) Roster(context.Context) ([]*model.Profile, error) {
	if f.err != nil {
		return nil, model.NewUnavailableError("list roster", f.err)
	}
	return f.profiles, nil
}

type fakeRoutines struct {
	mu      sync.Mutex
	entries map[string]string
}

func routineKey(id uuid.UUID, day int) string {
	return id.String() + "/" + string(rune('0'+day))
}

func (f *fakeRoutines) GetEntry(_ context.Context, studentID uuid.UUID, day int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[routineKey(studentID, day)], nil
}

func (f *fakeRoutines) UpsertEntry(_ context.Context, actor model.Identity, studentID uuid.UUID, day int, content string) error {
	if !actor.IsAdmin() {
		return model.ErrForbidden
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[routineKey(studentID, day)] = content
	return nil
}

func booking(name, at string) *model.Booking {
	return &model.Booking{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Professional: "Pamela",
		BookingDate:  time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		BookingTime:  model.MustClockTime(at),
		UserName:     name,
	}
}

func newTestConsole(t *testing.T, bookings *fakeBookings, roster *fakeRoster, actor model.Identity) *Console {
	t.Helper()
	c := NewConsole(bookings, roster, &fakeRoutines{entries: map[string]string{}}, actor, zaptest.NewLogger(t))
	t.Cleanup(c.Close)
	return c
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
	}
}

func TestConsole_OpenLoadsAgendaAndRoster(t *testing.T) {
	bookings := newFakeBookings()
	bookings.set(booking("Анна", "09:00"), booking("Борис", "10:00"))
	roster := &fakeRoster{profiles: []*model.Profile{{ID: uuid.New(), FullName: "Анна"}}}
	c := newTestConsole(t, bookings, roster, adminIdentity)

	require.NoError(t, c.Open(context.Background()))

	agenda, err := c.Agenda()
	require.NoError(t, err)
	assert.Len(t, agenda, 2)

	students, err := c.Students()
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.True(t, c.Alive())
}

func TestConsole_RequiresAdmin(t *testing.T) {
	c := newTestConsole(t, newFakeBookings(), &fakeRoster{}, regularIdentity)

	err := c.Open(context.Background())

	assert.ErrorIs(t, err, model.ErrForbidden)
	assert.False(t, c.Alive())
}

func TestConsole_RosterFailureKeepsAgenda(t *testing.T) {
	bookings := newFakeBookings()
	bookings.set(booking("Анна", "09:00"))
	c := newTestConsole(t, bookings, &fakeRoster{err: errors.New("timeout")}, adminIdentity)

	err := c.Open(context.Background())

	assert.ErrorIs(t, err, model.ErrUnavailable)
	agenda, agErr := c.Agenda()
	require.NoError(t, agErr)
	assert.Len(t, agenda, 1)
	_, rosterErr := c.Students()
	assert.ErrorIs(t, rosterErr, model.ErrUnavailable)
}

func TestConsole_ReloadsAgendaOnChange(t *testing.T) {
	bookings := newFakeBookings()
	c := newTestConsole(t, bookings, &fakeRoster{}, adminIdentity)
	require.NoError(t, c.Open(context.Background()))

	changed := make(chan struct{}, 4)
	c.OnChange(func() { changed <- struct{}{} })

	added := booking("Анна", "09:00")
	bookings.set(added)
	bookings.broker.Publish(model.BookingChange{Op: model.BookingInserted, BookingID: added.ID})

	waitSignal(t, changed)
	agenda, err := c.Agenda()
	require.NoError(t, err)
	require.Len(t, agenda, 1)
	assert.Equal(t, added.ID, agenda[0].ID)
}

func TestConsole_CloseDiscardsInFlightReload(t *testing.T) {
	bookings := newFakeBookings()
	c := newTestConsole(t, bookings, &fakeRoster{}, adminIdentity)
	require.NoError(t, c.Open(context.Background()))
	<-bookings.started

	changed := make(chan struct{}, 4)
	c.OnChange(func() { changed <- struct{}{} })

	gate := make(chan struct{})
	bookings.mu.Lock()
	bookings.gate = gate
	bookings.mu.Unlock()

	bookings.set(booking("Анна", "09:00"))
	bookings.broker.Publish(model.BookingChange{Op: model.BookingInserted, BookingID: uuid.New()})
	waitSignal(t, bookings.started)

	c.Close()
	close(gate)

	agenda, err := c.Agenda()
	assert.NoError(t, err)
	assert.Empty(t, agenda)
	assert.Zero(t, bookings.broker.Subscribers())

	select {
	case <-changed:
		t.Fatal("listener must not be notified after close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConsole_DeleteBookingRefreshesAgenda(t *testing.T) {
	bookings := newFakeBookings()
	first, second := booking("Анна", "09:00"), booking("Борис", "10:00")
	bookings.set(first, second)
	c := newTestConsole(t, bookings, &fakeRoster{}, adminIdentity)
	require.NoError(t, c.Open(context.Background()))

	require.NoError(t, c.DeleteBooking(context.Background(), first.ID))

	assert.Equal(t, []uuid.UUID{first.ID}, bookings.deleted)
	agenda, _ := c.Agenda()
	require.Len(t, agenda, 1)
	assert.Equal(t, second.ID, agenda[0].ID)
}

func TestConsole_Routine(t *testing.T) {
	c := newTestConsole(t, newFakeBookings(), &fakeRoster{}, adminIdentity)
	student := uuid.New()
	ctx := context.Background()

	require.NoError(t, c.SaveRoutine(ctx, student, 2, "Присед 5x5"))
	require.NoError(t, c.SaveRoutine(ctx, student, 2, "Становая 3x5"))

	content, err := c.Routine(ctx, student, 2)
	require.NoError(t, err)
	assert.Equal(t, "Становая 3x5", content)

	empty, err := c.Routine(ctx, student, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestConsole_OpenTwiceIsNoop(t *testing.T) {
	bookings := newFakeBookings()
	c := newTestConsole(t, bookings, &fakeRoster{}, adminIdentity)

	require.NoError(t, c.Open(context.Background()))
	require.NoError(t, c.Open(context.Background()))

	assert.Equal(t, 1, bookings.broker.Subscribers())
}

func TestConsole_RefreshRoster(t *testing.T) {
	roster := &fakeRoster{}
	c := newTestConsole(t, newFakeBookings(), roster, adminIdentity)
	require.NoError(t, c.Open(context.Background()))

	student := &model.Profile{ID: uuid.New(), FullName: "Вера"}
	roster.profiles = []*model.Profile{student}
	require.NoError(t, c.RefreshRoster(context.Background()))

	got, ok := c.Student(student.ID)
	require.True(t, ok)
	assert.Equal(t, "Вера", got.FullName)
}
