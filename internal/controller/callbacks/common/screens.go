package common

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/training_bot/internal/flow"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// MainMenuText текст главного меню в зависимости от состояния пользователя
func MainMenuText(identity *model.Identity, profile *model.Profile, needsOnboarding bool) string {
	if identity == nil {
		return "👋 Добро пожаловать!\n\n" +
			"Здесь можно записаться на персональную тренировку.\n\n" +
			"/login - Войти\n" +
			"/signup - Зарегистрироваться"
	}

	if identity.IsAdmin() {
		return fmt.Sprintf("👋 %s\n\n"+
			"🛠 Панель администратора:\n"+
			"/admin - Агенда записей (обновляется сама)\n"+
			"/students - Ученики и планы тренировок\n"+
			"/logout - Выйти", html.EscapeString(identity.Email))
	}

	if needsOnboarding {
		return "👤 Как вас зовут?\n\nУкажите имя, чтобы записываться на занятия: /name"
	}

	return fmt.Sprintf("👋 Привет, %s!\n\n"+
		"/book - Записаться на тренировку\n"+
		"/mybookings - Мои записи\n"+
		"/name - Изменить имя\n"+
		"/logout - Выйти", html.EscapeString(profile.DisplayName()))
}

// BuildCalendarScreen экран выбора даты
func BuildCalendarScreen(cal flow.Calendar) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	kb.Row(keyboard.NoopButton(fmt.Sprintf("%s %d", formatting.GetMonthName(cal.Month.Month()), cal.Month.Year())))

	header := make([]models.InlineKeyboardButton, 0, 7)
	for _, wd := range []int{1, 2, 3, 4, 5, 6, 0} {
		header = append(header, keyboard.NoopButton(formatting.GetWeekdayShort(wd)))
	}
	kb.Row(header...)

	for _, week := range cal.Weeks {
		row := make([]models.InlineKeyboardButton, 0, 7)
		for _, day := range week {
			switch {
			case day.Blank():
				row = append(row, keyboard.NoopButton(" "))
			case day.Disabled:
				row = append(row, keyboard.NoopButton("·"))
			default:
				row = append(row, keyboard.Button(strconv.Itoa(day.Date.Day()), CbDate+model.FormatDate(day.Date)))
			}
		}
		kb.Row(row...)
	}

	kb.Row(keyboard.CancelButton(CbFlowCancel))

	return "📅 <b>Выберите дату</b>\n\nВоскресенье - выходной.", kb.Build()
}

// BuildTimesScreen экран выбора времени
func BuildTimesScreen(date time.Time, times []model.ClockTime) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	text := fmt.Sprintf("🕐 <b>%s</b>\n\nВыберите время:", formatting.FormatLongDate(date))
	if len(times) == 0 {
		text = fmt.Sprintf("🕐 <b>%s</b>\n\nСвободного времени нет. Выберите другой день.", formatting.FormatLongDate(date))
	}

	buttons := make([]models.InlineKeyboardButton, 0, len(times))
	for _, t := range times {
		buttons = append(buttons, keyboard.Button(t.String(), CbTime+t.String()))
	}
	kb.Chunk(3, buttons...)
	kb.AddBackButton(CbFlowBack)

	return text, kb.Build()
}

// BuildConfirmScreen экран подтверждения записи
func BuildConfirmScreen(draft model.Draft) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("📝 <b>Подтвердите запись</b>\n\n"+
		"🏋️ %s\n"+
		"👤 Тренер: %s\n"+
		"📅 %s",
		html.EscapeString(draft.Service),
		html.EscapeString(draft.Professional),
		formatting.FormatSlot(*draft.Date, *draft.Time),
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmButton(CbConfirm)).
		AddBackButton(CbFlowBack)

	return text, kb.Build()
}

// BuildDoneScreen экран успешной записи
func BuildDoneScreen(booking *model.Booking) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("✅ <b>Вы записаны!</b>\n\n"+
		"🏋️ %s\n"+
		"👤 Тренер: %s\n"+
		"📅 %s",
		html.EscapeString(booking.Service),
		html.EscapeString(booking.Professional),
		formatting.FormatSlot(booking.BookingDate, booking.BookingTime),
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📋 Мои записи", CbMyBookings)).
		Row(keyboard.Button("➕ Записаться ещё", CbBookAgain))

	return text, kb.Build()
}

// BuildMyBookingsScreen список предстоящих записей ученика
func BuildMyBookingsScreen(bookings []*model.Booking) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if len(bookings) == 0 {
		kb.Row(keyboard.Button("➕ Записаться", CbBookAgain))
		return "📋 У вас нет предстоящих записей.", kb.Build()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>Мои записи</b> (%d %s)\n\n", len(bookings), formatting.PluralizeBookings(len(bookings)))
	for _, b := range bookings {
		fmt.Fprintf(&sb, "📅 %s\n🏋️ %s, тренер %s\n\n",
			formatting.FormatSlot(b.BookingDate, b.BookingTime),
			html.EscapeString(b.Service),
			html.EscapeString(b.Professional))
		kb.Row(keyboard.Button(
			fmt.Sprintf("❌ Отменить %s %s", formatting.FormatDateWithWeekday(b.BookingDate), b.BookingTime),
			CbCancelBooking+b.ID.String()))
	}
	kb.Row(keyboard.Button("➕ Записаться", CbBookAgain))

	return sb.String(), kb.Build()
}

// BuildCancelConfirmScreen подтверждение отмены своей записи
func BuildCancelConfirmScreen(booking *model.Booking) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("❓ Отменить запись на %s?", formatting.FormatSlot(booking.BookingDate, booking.BookingTime))

	kb := keyboard.NewBuilder().
		AddRows(keyboard.ConfirmCancelButtons(CbConfirmCancel+booking.ID.String(), CbMyBookings))

	return text, kb.Build()
}

// BuildAgendaScreen агенда администратора: все предстоящие записи по дням
func BuildAgendaScreen(bookings []*model.Booking, err error, updatedAt time.Time) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	var sb strings.Builder
	sb.WriteString("🗓 <b>Агенда</b>\n\n")

	switch {
	case err != nil:
		sb.WriteString(ErrorMessage(err))
		sb.WriteString("\n")
	case len(bookings) == 0:
		sb.WriteString("Предстоящих записей нет.\n")
	default:
		var current time.Time
		for _, b := range bookings {
			if !b.BookingDate.Equal(current) {
				current = b.BookingDate
				fmt.Fprintf(&sb, "\n<b>%s</b>\n", formatting.FormatLongDate(current))
			}
			fmt.Fprintf(&sb, "%s · %s (%s)\n",
				b.BookingTime,
				html.EscapeString(agendaName(b)),
				html.EscapeString(b.Professional))
			kb.Row(keyboard.DeleteButton(
				fmt.Sprintf("%s %s %s", formatting.FormatDateWithWeekday(b.BookingDate), b.BookingTime, agendaName(b)),
				CbAdminDelete+b.ID.String()))
		}
	}

	fmt.Fprintf(&sb, "\n🔄 Обновлено в %s", updatedAt.Format("15:04:05"))
	kb.Row(keyboard.Button("👥 Ученики", CbStudents))

	return sb.String(), kb.Build()
}

// BuildAdminDeleteConfirmScreen подтверждение удаления записи администратором
func BuildAdminDeleteConfirmScreen(booking *model.Booking) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("❓ Удалить запись?\n\n👤 %s\n📅 %s",
		html.EscapeString(agendaName(booking)),
		formatting.FormatSlot(booking.BookingDate, booking.BookingTime))

	kb := keyboard.NewBuilder().
		AddRows(keyboard.ConfirmCancelButtons(CbAdminConfirmDelete+booking.ID.String(), CbDismiss))

	return text, kb.Build()
}

// BuildRosterScreen список учеников
func BuildRosterScreen(students []*model.Profile, err error) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	var text string
	switch {
	case err != nil:
		text = "👥 <b>Ученики</b>\n\n" + ErrorMessage(err)
	case len(students) == 0:
		text = "👥 <b>Ученики</b>\n\nПока никого нет."
	default:
		text = fmt.Sprintf("👥 <b>Ученики</b> (%d %s)\n\nВыберите ученика, чтобы открыть план тренировок:",
			len(students), formatting.PluralizeStudents(len(students)))
		for _, s := range students {
			kb.Row(keyboard.Button("👤 "+s.DisplayName(), CbStudent+s.ID.String()))
		}
	}

	kb.Row(keyboard.Button("🗓 Агенда", CbAgenda))
	return text, kb.Build()
}

// BuildStudentScreen выбор дня недели для плана ученика
func BuildStudentScreen(student *model.Profile) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	buttons := make([]models.InlineKeyboardButton, 0, model.RoutineLastDay)
	for day := model.RoutineFirstDay; day <= model.RoutineLastDay; day++ {
		buttons = append(buttons, keyboard.Button(
			formatting.GetWeekdayName(day),
			fmt.Sprintf("%s%s:%d", CbRoutine, student.ID, day)))
	}
	kb.Chunk(2, buttons...)
	kb.AddBackButton(CbStudents)

	text := fmt.Sprintf("👤 <b>%s</b>\n\nВыберите день недели:", html.EscapeString(student.DisplayName()))
	return text, kb.Build()
}

// BuildRoutineScreen план ученика на день
func BuildRoutineScreen(student *model.Profile, day int, content string) (string, *models.InlineKeyboardMarkup) {
	body := html.EscapeString(content)
	if strings.TrimSpace(content) == "" {
		body = "<i>План не задан</i>"
	}

	text := fmt.Sprintf("📋 <b>%s</b> · %s\n\n%s",
		html.EscapeString(student.DisplayName()),
		formatting.GetWeekdayName(day),
		body)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("✏️ Изменить", fmt.Sprintf("%s%s:%d", CbRoutineEdit, student.ID, day))).
		AddBackButton(CbStudent + student.ID.String())

	return text, kb.Build()
}

// FindBooking ищет запись в списке
func FindBooking(bookings []*model.Booking, id uuid.UUID) *model.Booking {
	for _, b := range bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func agendaName(b *model.Booking) string {
	if strings.TrimSpace(b.UserName) == "" {
		return model.NoNamePlaceholder
	}
	return b.UserName
}
