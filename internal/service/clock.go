package service

import "time"

// Clock источник текущего времени. Всегда возвращает время в локации бизнеса
type Clock func() time.Time

// SystemClock возвращает часы, привязанные к локации loc
func SystemClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}
