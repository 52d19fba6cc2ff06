package common

import (
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/training_bot/internal/flow"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbackData(kb *models.InlineKeyboardMarkup) []string {
	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.CallbackData)
		}
	}
	return data
}

func TestBuildCalendarScreen(t *testing.T) {
	// Среда, 11 марта 2026. 1 марта - воскресенье
	now := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	_, kb := BuildCalendarScreen(flow.BuildCalendar(now))
	data := callbackData(kb)

	assert.Contains(t, data, CbDate+"2026-03-11")
	assert.Contains(t, data, CbDate+"2026-03-31")
	assert.NotContains(t, data, CbDate+"2026-03-10", "past days are not selectable")
	assert.NotContains(t, data, CbDate+"2026-03-15", "sundays are not selectable")
	assert.Contains(t, data, CbFlowCancel)

	assert.Len(t, kb.InlineKeyboard[1], 7)
	assert.Equal(t, "Пн", kb.InlineKeyboard[1][0].Text)
}

func TestBuildTimesScreen_Empty(t *testing.T) {
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	text, kb := BuildTimesScreen(date, nil)

	assert.Contains(t, text, "Свободного времени нет")
	assert.Equal(t, []string{CbFlowBack}, callbackData(kb))
}

func TestBuildAgendaScreen_GroupsByDate(t *testing.T) {
	day1 := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	bookings := []*model.Booking{
		{ID: uuid.New(), BookingDate: day1, BookingTime: model.MustClockTime("09:00"), Professional: "Pamela", UserName: "Анна"},
		{ID: uuid.New(), BookingDate: day1, BookingTime: model.MustClockTime("10:00"), Professional: "Pamela"},
		{ID: uuid.New(), BookingDate: day2, BookingTime: model.MustClockTime("08:00"), Professional: "Pamela", UserName: "<script>"},
	}
	updated := time.Date(2026, 3, 11, 9, 30, 15, 0, time.UTC)

	text, kb := BuildAgendaScreen(bookings, nil, updated)

	assert.Contains(t, text, "11 марта")
	assert.Contains(t, text, "12 марта")
	assert.Contains(t, text, "10:00 · "+model.NoNamePlaceholder)
	assert.Contains(t, text, "&lt;script&gt;")
	assert.NotContains(t, text, "<script>")
	assert.Contains(t, text, "09:30:15")

	data := callbackData(kb)
	require.Len(t, data, len(bookings)+1)
	assert.Equal(t, CbAdminDelete+bookings[0].ID.String(), data[0])
	assert.Equal(t, CbStudents, data[len(data)-1])
}

func TestBuildAgendaScreen_EmptyAndError(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	text, kb := BuildAgendaScreen(nil, nil, now)
	assert.Contains(t, text, "Предстоящих записей нет")
	assert.Equal(t, []string{CbStudents}, callbackData(kb))

	text, _ = BuildAgendaScreen(nil, model.NewUnavailableError("list", errors.New("timeout")), now)
	assert.Contains(t, text, "Не удалось загрузить данные")
}

func TestBuildRosterScreen(t *testing.T) {
	students := []*model.Profile{
		{ID: uuid.New(), FullName: "Анна"},
		{ID: uuid.New()},
	}

	text, kb := BuildRosterScreen(students, nil)

	assert.Contains(t, text, "2 ученика")
	data := callbackData(kb)
	assert.Equal(t, []string{
		CbStudent + students[0].ID.String(),
		CbStudent + students[1].ID.String(),
		CbAgenda,
	}, data)
	assert.Equal(t, "👤 "+model.NoNamePlaceholder, kb.InlineKeyboard[1][0].Text)
}

func TestBuildStudentScreen_SixDays(t *testing.T) {
	student := &model.Profile{ID: uuid.New(), FullName: "Анна"}

	_, kb := BuildStudentScreen(student)
	data := callbackData(kb)

	require.Len(t, data, 7)
	assert.Equal(t, CbRoutine+student.ID.String()+":1", data[0])
	assert.Equal(t, CbRoutine+student.ID.String()+":6", data[5])
	assert.Equal(t, CbStudents, data[6])
}

func TestBuildRoutineScreen(t *testing.T) {
	student := &model.Profile{ID: uuid.New(), FullName: "Анна"}

	text, kb := BuildRoutineScreen(student, 3, "")
	assert.Contains(t, text, "План не задан")
	assert.Equal(t, CbRoutineEdit+student.ID.String()+":3", callbackData(kb)[0])

	text, _ = BuildRoutineScreen(student, 3, "Присед <3x10>")
	assert.Contains(t, text, "Присед &lt;3x10&gt;")
}

func TestMainMenuText(t *testing.T) {
	assert.Contains(t, MainMenuText(nil, nil, false), "/login")

	admin := &model.Identity{Email: "coach@example.com", Role: model.RoleAdmin}
	assert.Contains(t, MainMenuText(admin, nil, false), "/admin")

	regular := &model.Identity{Email: "anna@example.com", Role: model.RoleRegular}
	assert.Contains(t, MainMenuText(regular, nil, true), "/name")

	profile := &model.Profile{FullName: "Анна"}
	menu := MainMenuText(regular, profile, false)
	assert.Contains(t, menu, "Анна")
	assert.Contains(t, menu, "/book")
}

func TestFindBooking(t *testing.T) {
	bookings := []*model.Booking{{ID: uuid.New()}, {ID: uuid.New()}}

	assert.Same(t, bookings[1], FindBooking(bookings, bookings[1].ID))
	assert.Nil(t, FindBooking(bookings, uuid.New()))
}
