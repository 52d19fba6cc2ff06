package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/supabase-community/gotrue-go/types"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// SupabaseProvider провайдер аутентификации поверх Supabase Auth (GoTrue)
type SupabaseProvider struct {
	client *supa.Client
	logger *zap.Logger
}

// NewSupabaseProvider создаёт клиента Supabase с публичным (anon) ключом
func NewSupabaseProvider(url, anonKey string, logger *zap.Logger) (*SupabaseProvider, error) {
	client, err := supa.NewClient(url, anonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	return &SupabaseProvider{client: client, logger: logger}, nil
}

func (p *SupabaseProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, classifyError("sign up", err)
	}

	// Без автоподтверждения GoTrue возвращает только пользователя
	if resp.AccessToken == "" {
		p.logger.Info("Sign up pending e-mail confirmation", zap.String("email", email))
		return nil, nil
	}

	return toSession(resp.Session), nil
}

func (p *SupabaseProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.client.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, classifyError("sign in", err)
	}

	return toSession(resp.Session), nil
}

func (p *SupabaseProvider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.client.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, classifyError("refresh session", err)
	}

	return toSession(resp.Session), nil
}

func (p *SupabaseProvider) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.client.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, classifyError("get user", err)
	}

	return &User{ID: resp.ID, Email: resp.Email}, nil
}

func (p *SupabaseProvider) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.client.Auth.WithToken(accessToken).Logout(); err != nil {
		return classifyError("sign out", err)
	}
	return nil
}

// classifyError отделяет отказ провайдера (4xx) от недоступности сервиса.
// Только отказ означает, что сессия недействительна
func classifyError(op string, err error) error {
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		return &model.AuthError{Err: err}
	}

	code, body, ok := parseStatus(err)
	if ok && code >= 400 && code < 500 &&
		code != http.StatusRequestTimeout && code != http.StatusTooManyRequests {
		return &model.AuthError{Err: &rejection{message: rejectionMessage(body), err: err}}
	}

	return model.NewUnavailableError(op, err)
}

// parseStatus достаёт HTTP-статус и тело ответа из ошибки GoTrue. Клиент не
// экспортирует типизированную ошибку, есть только текст "response status code N: body"
func parseStatus(err error) (int, string, bool) {
	rest, found := strings.CutPrefix(err.Error(), statusPrefix)
	if !found {
		return 0, "", false
	}

	digits, body, _ := strings.Cut(rest, ":")
	code, convErr := strconv.Atoi(strings.TrimSpace(digits))
	if convErr != nil {
		return 0, "", false
	}
	return code, strings.TrimSpace(body), true
}

const statusPrefix = "response status code "

// rejection отказ провайдера. Текст ошибки - сообщение GoTrue для пользователя
type rejection struct {
	message string
	err     error
}

func (r *rejection) Error() string {
	return r.message
}

func (r *rejection) Unwrap() error {
	return r.err
}

// rejectionMessage разные версии GoTrue кладут текст ошибки в разные поля
func rejectionMessage(body string) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		for _, m := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
			if m != "" {
				return m
			}
		}
	}

	if body == "" {
		return "request rejected by auth provider"
	}
	return body
}

func toSession(s types.Session) *Session {
	expiresAt := time.Unix(s.ExpiresAt, 0)
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}

	return &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    expiresAt,
		User: User{
			ID:    s.User.ID,
			Email: s.User.Email,
		},
	}
}
