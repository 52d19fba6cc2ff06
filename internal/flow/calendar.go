package flow

import (
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
)

// Day ячейка календаря. Нулевая Date - пустая ячейка до первого числа месяца
type Day struct {
	Date     time.Time
	Disabled bool
}

func (d Day) Blank() bool {
	return d.Date.IsZero()
}

// Calendar текущий месяц, недели с понедельника
type Calendar struct {
	Month time.Time
	Weeks [][]Day
}

// BuildCalendar строит календарь месяца, в который попадает now.
// Прошедшие дни и воскресенья недоступны
func BuildCalendar(now time.Time) Calendar {
	today := model.DateOf(now)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// понедельник = 0
	offset := (int(first.Weekday()) + 6) % 7

	week := make([]Day, offset, 7)
	weeks := make([][]Day, 0, 6)

	for i := 0; i < daysInMonth; i++ {
		date := first.AddDate(0, 0, i)
		week = append(week, Day{
			Date:     date,
			Disabled: !Selectable(date, now),
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]Day, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, Day{})
		}
		weeks = append(weeks, week)
	}

	return Calendar{Month: first, Weeks: weeks}
}

// Selectable можно ли записаться на дату: не в прошлом и не воскресенье
func Selectable(date, now time.Time) bool {
	date = model.DateOf(date)
	if date.Before(model.DateOf(now)) {
		return false
	}
	return date.Weekday() != time.Sunday
}
