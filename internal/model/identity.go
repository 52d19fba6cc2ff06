package model

import "github.com/google/uuid"

type Role string

const (
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
)

// Identity аутентифицированный пользователь
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
