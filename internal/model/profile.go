package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile профиль пользователя. ID совпадает с ID в провайдере аутентификации
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"` // пустое имя = онбординг не пройден
	CreatedAt time.Time `json:"created_at"`
}

// HasName проверяет, указал ли пользователь имя
func (p *Profile) HasName() bool {
	return p != nil && strings.TrimSpace(p.FullName) != ""
}

// DisplayName возвращает имя для отображения
func (p *Profile) DisplayName() string {
	if !p.HasName() {
		return NoNamePlaceholder
	}
	return p.FullName
}

const NoNamePlaceholder = "Без имени"

// Минимальная длина имени при онбординге
const ProfileNameMinLength = 3
