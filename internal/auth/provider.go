// Package auth описывает провайдера аутентификации и его реализацию поверх Supabase Auth
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User пользователь, подтверждённый провайдером
type User struct {
	ID    uuid.UUID
	Email string
}

// Session выданная провайдером сессия
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// Provider внешний провайдер аутентификации
type Provider interface {
	// SignUp регистрирует пользователя. nil-сессия без ошибки означает,
	// что провайдер ждёт подтверждения e-mail
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	// GetUser проверяет access token на стороне провайдера
	GetUser(ctx context.Context, accessToken string) (*User, error)
	SignOut(ctx context.Context, accessToken string) error
}
