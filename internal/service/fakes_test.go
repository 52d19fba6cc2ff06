package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/google/uuid"
)

type slotKey struct {
	date         time.Time
	professional string
	time         model.ClockTime
}

// memBookingStore in-memory хранилище с тем же ограничением уникальности слота, что и в БД
type memBookingStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*model.Booking
	slots    map[slotKey]uuid.UUID
	failErr  error
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{
		bookings: make(map[uuid.UUID]*model.Booking),
		slots:    make(map[slotKey]uuid.UUID),
	}
}

func (m *memBookingStore) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}

	key := slotKey{b.BookingDate, b.Professional, b.BookingTime}
	if _, taken := m.slots[key]; taken {
		return model.ErrSlotTaken
	}
	b.CreatedAt = time.Now()
	copied := *b
	m.bookings[b.ID] = &copied
	m.slots[key] = b.ID
	return nil
}

func (m *memBookingStore) GetByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (m *memBookingStore) list(filter func(*model.Booking) bool) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}

	var out []*model.Booking
	for _, b := range m.bookings {
		if filter(b) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.Before(out[j].BookingDate)
		}
		return out[i].BookingTime.Before(out[j].BookingTime)
	})
	return out, nil
}

func (m *memBookingStore) ListFromDateByUser(_ context.Context, userID uuid.UUID, from time.Time) ([]*model.Booking, error) {
	return m.list(func(b *model.Booking) bool {
		return b.UserID == userID && !b.BookingDate.Before(from)
	})
}

func (m *memBookingStore) ListFromDate(_ context.Context, from time.Time) ([]*model.Booking, error) {
	return m.list(func(b *model.Booking) bool {
		return !b.BookingDate.Before(from)
	})
}

func (m *memBookingStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return model.ErrBookingNotFound
	}
	delete(m.slots, slotKey{b.BookingDate, b.Professional, b.BookingTime})
	delete(m.bookings, id)
	return nil
}

func (m *memBookingStore) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	b, ok := m.bookings[id]
	m.mu.Unlock()
	if !ok {
		return model.ErrBookingNotFound
	}
	if b.UserID != userID {
		return model.ErrNotOwner
	}
	return m.Delete(ctx, id)
}

func (m *memBookingStore) OccupiedTimes(_ context.Context, date time.Time, professional string) ([]model.ClockTime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var times []model.ClockTime
	for key := range m.slots {
		if key.date.Equal(date) && key.professional == professional {
			times = append(times, key.time)
		}
	}
	return times, nil
}

type memRoutineStore struct {
	entries map[uuid.UUID]map[int]*model.RoutineEntry
}

func newMemRoutineStore() *memRoutineStore {
	return &memRoutineStore{entries: make(map[uuid.UUID]map[int]*model.RoutineEntry)}
}

func (m *memRoutineStore) Get(_ context.Context, userID uuid.UUID, day int) (*model.RoutineEntry, error) {
	entry, ok := m.entries[userID][day]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

func (m *memRoutineStore) Upsert(_ context.Context, entry *model.RoutineEntry) error {
	if m.entries[entry.UserID] == nil {
		m.entries[entry.UserID] = make(map[int]*model.RoutineEntry)
	}
	entry.UpdatedAt = time.Now()
	copied := *entry
	m.entries[entry.UserID][entry.DayOfWeek] = &copied
	return nil
}

type memProfileStore struct {
	profiles map[uuid.UUID]*model.Profile
	failErr  error
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[uuid.UUID]*model.Profile)}
}

func (m *memProfileStore) GetByID(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.profiles[id], nil
}

func (m *memProfileStore) UpsertName(_ context.Context, id uuid.UUID, fullName string) (*model.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		p = &model.Profile{ID: id, CreatedAt: time.Now()}
		m.profiles[id] = p
	}
	p.FullName = fullName
	copied := *p
	return &copied, nil
}

func (m *memProfileStore) List(_ context.Context) ([]*model.Profile, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []*model.Profile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

var errStoreDown = errors.New("connection refused")

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
