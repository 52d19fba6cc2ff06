// Package session управляет текущим пользователем: сессия у провайдера,
// роль, профиль и порядок применения событий сессии
package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/Freeeeeet/training_bot/internal/auth"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRefreshMargin за сколько до истечения access token сессия обновляется
const DefaultRefreshMargin = 2 * time.Minute

// Минимальная длина пароля, которую принимает Supabase Auth
const PasswordMinLength = 6

// ProfileLoader источник профилей
type ProfileLoader interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, fullName string) (*model.Profile, error)
}

// State снимок производного состояния сессии
type State struct {
	Identity      *model.Identity
	Profile       *model.Profile
	ProfileLoaded bool
	Generation    uint64
}

// Manager сессия одного пользователя.
// Каждое событие увеличивает generation; результат асинхронной загрузки
// применяется только если generation не изменился с момента запуска
type Manager struct {
	provider      auth.Provider
	profiles      ProfileLoader
	admins        AllowList
	now           func() time.Time
	refreshMargin time.Duration
	logger        *zap.Logger

	mu            sync.Mutex
	generation    uint64
	session       *auth.Session
	identity      *model.Identity
	profile       *model.Profile
	profileLoaded bool
	listeners     map[int]func(Event)
	nextListener  int
}

func NewManager(
	provider auth.Provider,
	profiles ProfileLoader,
	admins AllowList,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		provider:      provider,
		profiles:      profiles,
		admins:        admins,
		now:           time.Now,
		refreshMargin: DefaultRefreshMargin,
		logger:        logger,
		listeners:     make(map[int]func(Event)),
	}
}

// Subscribe подписывает на события сессии. Возвращает функцию отписки
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// State возвращает снимок текущего состояния
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return State{
		Identity:      m.identity,
		Profile:       m.profile,
		ProfileLoaded: m.profileLoaded,
		Generation:    m.generation,
	}
}

// Identity возвращает текущего пользователя
func (m *Manager) Identity() (model.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.identity == nil {
		return model.Identity{}, false
	}
	return *m.identity, true
}

// NeedsOnboarding обычный пользователь без имени в профиле должен его указать.
// Администратор онбординг не проходит
func (m *Manager) NeedsOnboarding() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.identity == nil || m.identity.IsAdmin() {
		return false
	}
	return !m.profile.HasName()
}

// SignUp регистрирует пользователя. pending=true - провайдер ждёт подтверждения e-mail
func (m *Manager) SignUp(ctx context.Context, email, password, confirmation string) (pending bool, err error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return false, model.NewValidationError(model.FieldEmail, "invalid e-mail address")
	}
	if len(password) < PasswordMinLength {
		return false, model.NewValidationError(model.FieldPassword, "password is too short")
	}
	if password != confirmation {
		return false, model.NewValidationError(model.FieldPasswordConfirmation, "passwords do not match")
	}

	sess, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		return false, fmt.Errorf("sign up: %w", err)
	}

	if sess == nil {
		return true, nil
	}

	return false, m.dispatch(ctx, Event{Type: EventSignedIn, Session: sess})
}

// SignIn вход по e-mail и паролю
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	sess, err := m.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	return m.dispatch(ctx, Event{Type: EventSignedIn, Session: sess})
}

// SignOut завершает сессию у провайдера и очищает локальное состояние.
// Локальное состояние очищается даже если провайдер вернул ошибку
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	var token string
	if m.session != nil {
		token = m.session.AccessToken
	}
	m.mu.Unlock()

	if token != "" {
		if err := m.provider.SignOut(ctx, token); err != nil {
			m.logger.Warn("Provider sign out failed, clearing local session anyway", zap.Error(err))
		}
	}

	// Ошибки у SignedOut быть не может: профиль не загружается
	_ = m.dispatch(ctx, Event{Type: EventSignedOut})
}

// Resolve проверяет сессию у провайдера (а не только локально) и возвращает пользователя.
// nil без ошибки - сессии нет. Вызывается при старте и при каждом возвращении пользователя
func (m *Manager) Resolve(ctx context.Context) (*model.Identity, error) {
	m.mu.Lock()
	sess := m.session
	gen := m.generation
	m.mu.Unlock()

	if sess == nil {
		return nil, nil
	}

	if m.expiresSoon(sess) {
		refreshed, err := m.provider.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			if errors.Is(err, model.ErrAuth) {
				m.logger.Info("Session refresh rejected by provider", zap.Error(err))
				m.signOutLocally(ctx, gen)
				return nil, nil
			}
			return nil, fmt.Errorf("refresh session: %w", err)
		}

		if err := m.dispatch(ctx, Event{Type: EventTokenRefreshed, Session: refreshed}); err != nil {
			m.logger.Warn("Failed to reload profile after refresh", zap.Error(err))
		}

		m.mu.Lock()
		sess = m.session
		gen = m.generation
		m.mu.Unlock()

		if sess == nil {
			return nil, nil
		}
	}

	user, err := m.provider.GetUser(ctx, sess.AccessToken)
	if err != nil {
		if errors.Is(err, model.ErrAuth) {
			m.logger.Info("Session invalidated by provider", zap.Error(err))
			m.signOutLocally(ctx, gen)
			return nil, nil
		}
		return nil, fmt.Errorf("validate session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		// Пока шла проверка, сессия сменилась: отдаём актуальное состояние
		return m.identity, nil
	}

	identity := m.identityFor(*user)
	m.identity = &identity
	return m.identity, nil
}

// LoadProfile перезагружает профиль текущего пользователя
func (m *Manager) LoadProfile(ctx context.Context) (*model.Profile, error) {
	m.mu.Lock()
	gen := m.generation
	m.mu.Unlock()

	if err := m.loadProfile(ctx, gen); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile, nil
}

// CompleteOnboarding сохраняет имя текущего пользователя
func (m *Manager) CompleteOnboarding(ctx context.Context, fullName string) (*model.Profile, error) {
	m.mu.Lock()
	identity := m.identity
	gen := m.generation
	m.mu.Unlock()

	if identity == nil {
		return nil, model.ErrNoSession
	}

	profile, err := m.profiles.CompleteOnboarding(ctx, identity.UserID, fullName)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen == m.generation {
		m.profile = profile
		m.profileLoaded = true
	}
	return profile, nil
}

// dispatch применяет событие: новое поколение, обновление состояния, слушатели,
// затем загрузка профиля для SignedIn / TokenRefreshed
func (m *Manager) dispatch(ctx context.Context, ev Event) error {
	m.mu.Lock()
	m.generation++
	gen := m.generation

	switch ev.Type {
	case EventSignedOut:
		m.session = nil
		m.identity = nil
		m.profile = nil
		m.profileLoaded = false

	case EventSignedIn, EventTokenRefreshed:
		sameUser := m.identity != nil && m.identity.UserID == ev.Session.User.ID
		identity := m.identityFor(ev.Session.User)
		m.session = ev.Session
		m.identity = &identity
		if !sameUser {
			m.profile = nil
			m.profileLoaded = false
		}
	}

	listeners := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	m.logger.Debug("Session event", zap.String("event", string(ev.Type)), zap.Uint64("generation", gen))

	for _, fn := range listeners {
		fn(ev)
	}

	if ev.Type == EventSignedOut {
		return nil
	}
	return m.loadProfile(ctx, gen)
}

// loadProfile загружает профиль и применяет его, только если поколение не сменилось
func (m *Manager) loadProfile(ctx context.Context, gen uint64) error {
	m.mu.Lock()
	if m.identity == nil || gen != m.generation {
		m.mu.Unlock()
		return nil
	}
	userID := m.identity.UserID
	m.mu.Unlock()

	profile, err := m.profiles.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		m.logger.Debug("Discarding stale profile load",
			zap.Uint64("generation", gen),
			zap.Uint64("current", m.generation))
		return nil
	}

	m.profile = profile
	m.profileLoaded = true
	return nil
}

// signOutLocally очищает состояние, если с момента gen ничего не произошло
func (m *Manager) signOutLocally(ctx context.Context, gen uint64) {
	m.mu.Lock()
	stale := gen != m.generation
	m.mu.Unlock()

	if stale {
		return
	}
	_ = m.dispatch(ctx, Event{Type: EventSignedOut})
}

func (m *Manager) identityFor(user auth.User) model.Identity {
	return model.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   ClassifyRole(user.Email, m.admins),
	}
}

// expiresSoon решает, пора ли обновить токен. Срок берётся из claim exp,
// а если токен не разбирается - из ответа провайдера
func (m *Manager) expiresSoon(sess *auth.Session) bool {
	expiresAt, err := auth.TokenExpiry(sess.AccessToken)
	if err != nil {
		expiresAt = sess.ExpiresAt
	}
	if expiresAt.IsZero() {
		return false
	}
	return !m.now().Add(m.refreshMargin).Before(expiresAt)
}
