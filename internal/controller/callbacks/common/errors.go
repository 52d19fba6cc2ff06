package common

import (
	"errors"

	"github.com/Freeeeeet/training_bot/internal/model"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var verr *model.ValidationError
	var aerr *model.AuthError

	switch {
	case errors.As(err, &verr):
		return validationMessage(verr)
	case errors.As(err, &aerr):
		// Сообщение провайдера показываем как есть
		return "❌ " + aerr.Error()
	case errors.Is(err, model.ErrSlotTaken):
		return "❌ Это время уже заняли. Выберите другое."
	case errors.Is(err, model.ErrNotOwner):
		return "❌ Это не ваша запись"
	case errors.Is(err, model.ErrForbidden):
		return "❌ Эта функция доступна только администратору"
	case errors.Is(err, model.ErrBookingNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, model.ErrNoSession):
		return "🔐 Войдите в аккаунт: /login"
	case errors.Is(err, model.ErrOnboardingRequired):
		return "👤 Сначала укажите имя: /name"
	case errors.Is(err, model.ErrUnavailable):
		return "⚠️ Не удалось загрузить данные. Попробуйте позже."
	case errors.Is(err, ErrAdminUsesConsole):
		return "🛠 Администратор управляет записями через /admin"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}

func validationMessage(err *model.ValidationError) string {
	switch err.Field {
	case model.FieldDateTime:
		return "❌ Выберите дату и время"
	case model.FieldDate:
		return "❌ На эту дату записаться нельзя"
	case model.FieldTime:
		return "❌ Это время недоступно"
	case model.FieldFullName:
		return "❌ Имя должно быть не короче 3 символов"
	case model.FieldEmail:
		return "❌ Некорректный e-mail"
	case model.FieldPassword:
		return "❌ Пароль должен быть не короче 6 символов"
	case model.FieldPasswordConfirmation:
		return "❌ Пароли не совпадают"
	case model.FieldDayOfWeek:
		return "❌ Неверный день недели"
	default:
		return "❌ Проверьте введённые данные"
	}
}
