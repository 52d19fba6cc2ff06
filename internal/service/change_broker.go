package service

import (
	"sync"

	"github.com/Freeeeeet/training_bot/internal/model"
)

// ChangeBroker раздаёт уведомления об изменениях бронирований подписчикам.
// Буфер каждого подписчика - одно уведомление: подписчики всё равно
// перечитывают список целиком, поэтому лишние уведомления схлопываются
type ChangeBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan model.BookingChange
}

func NewChangeBroker() *ChangeBroker {
	return &ChangeBroker{
		subs: make(map[int]chan model.BookingChange),
	}
}

// Subscribe регистрирует подписчика. Вызов cancel закрывает канал
func (b *ChangeBroker) Subscribe() (<-chan model.BookingChange, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan model.BookingChange, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}

	return ch, cancel
}

// Publish отправляет уведомление всем подписчикам, не блокируясь
func (b *ChangeBroker) Publish(change model.BookingChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- change:
		default:
			// У подписчика уже есть непрочитанное уведомление
		}
	}
}

// Subscribers возвращает количество активных подписчиков
func (b *ChangeBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
