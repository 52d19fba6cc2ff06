package keyboard

import "github.com/go-telegram/bot/models"

// Noop callback кнопок, которые ничего не делают (заголовки календаря, закрытые дни)
const Noop = "noop"

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Назад", callbackData)
}

// CancelButton создаёт кнопку "Отмена"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Отмена", callbackData)
}

// ConfirmButton создаёт кнопку "Подтвердить"
func ConfirmButton(callbackData string) models.InlineKeyboardButton {
	return Button("✅ Подтвердить", callbackData)
}

// NoopButton кнопка без действия
func NoopButton(text string) models.InlineKeyboardButton {
	return Button(text, Noop)
}

// ConfirmCancelButtons создаёт ряд с кнопками Подтвердить/Отмена
func ConfirmCancelButtons(confirmCallback, cancelCallback string) [][]models.InlineKeyboardButton {
	return [][]models.InlineKeyboardButton{
		{
			ConfirmButton(confirmCallback),
			CancelButton(cancelCallback),
		},
	}
}

// AddBackButton добавляет кнопку "Назад" к builder
func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}

// DeleteButton создаёт кнопку "Удалить"
func DeleteButton(text, callbackData string) models.InlineKeyboardButton {
	return Button("🗑 "+text, callbackData)
}
