package session

import (
	"strings"

	"github.com/Freeeeeet/training_bot/internal/model"
)

// AllowList список e-mail администраторов, задаётся конфигурацией
type AllowList map[string]struct{}

// NewAllowList нормализует адреса: без пробелов, в нижнем регистре
func NewAllowList(emails []string) AllowList {
	list := make(AllowList, len(emails))
	for _, email := range emails {
		email = normalizeEmail(email)
		if email != "" {
			list[email] = struct{}{}
		}
	}
	return list
}

func (l AllowList) Contains(email string) bool {
	_, ok := l[normalizeEmail(email)]
	return ok
}

// ClassifyRole администратор, если подтверждённый e-mail есть в списке
func ClassifyRole(email string, admins AllowList) model.Role {
	if email != "" && admins.Contains(email) {
		return model.RoleAdmin
	}
	return model.RoleRegular
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
