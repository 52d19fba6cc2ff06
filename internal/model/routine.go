package model

import (
	"time"

	"github.com/google/uuid"
)

// RoutineEntry план тренировки ученика на конкретный день недели
type RoutineEntry struct {
	UserID    uuid.UUID `json:"user_id"`
	DayOfWeek int       `json:"day_of_week"` // 1 = понедельник ... 6 = суббота
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoutineFirstDay = 1
	RoutineLastDay  = 6
)

// ValidRoutineDay проверяет, что день недели входит в диапазон 1-6
func ValidRoutineDay(day int) bool {
	return day >= RoutineFirstDay && day <= RoutineLastDay
}
