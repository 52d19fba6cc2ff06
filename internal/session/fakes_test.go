package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/training_bot/internal/auth"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errNetwork = errors.New("network unreachable")

type fakeProvider struct {
	mu sync.Mutex

	users     map[string]auth.User // email -> user
	passwords map[string]string
	// needsConfirmation при SignUp сессия не выдаётся
	needsConfirmation bool
	// expiry срок действия выдаваемых токенов
	expiry time.Time

	revoked     map[string]bool // access token -> отозван
	getUserErr  error
	refreshErr  error
	signOutErr  error
	signOuts    int
	refreshes   int
	issuedCount int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		users:     make(map[string]auth.User),
		passwords: make(map[string]string),
		revoked:   make(map[string]bool),
		expiry:    time.Now().Add(time.Hour),
	}
}

func (p *fakeProvider) addUser(email, password string) auth.User {
	p.mu.Lock()
	defer p.mu.Unlock()

	user := auth.User{ID: uuid.New(), Email: email}
	p.users[email] = user
	p.passwords[email] = password
	return user
}

func (p *fakeProvider) issue(user auth.User) *auth.Session {
	p.issuedCount++
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   p.expiry.Unix(),
		"n":     p.issuedCount,
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	return &auth.Session{
		AccessToken:  token,
		RefreshToken: "refresh-" + user.Email,
		ExpiresAt:    p.expiry,
		User:         user,
	}
}

func (p *fakeProvider) SignUp(_ context.Context, email, password string) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.users[email]; ok {
		return nil, &model.AuthError{Err: errors.New("User already registered")}
	}
	user := auth.User{ID: uuid.New(), Email: email}
	p.users[email] = user
	p.passwords[email] = password
	if p.needsConfirmation {
		return nil, nil
	}
	return p.issue(user), nil
}

func (p *fakeProvider) SignInWithPassword(_ context.Context, email, password string) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[email]
	if !ok || p.passwords[email] != password {
		return nil, &model.AuthError{Err: errors.New("Invalid login credentials")}
	}
	return p.issue(user), nil
}

func (p *fakeProvider) Refresh(_ context.Context, refreshToken string) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refreshes++
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	for email, user := range p.users {
		if refreshToken == "refresh-"+email {
			return p.issue(user), nil
		}
	}
	return nil, &model.AuthError{Err: errors.New("Invalid Refresh Token")}
}

func (p *fakeProvider) GetUser(_ context.Context, accessToken string) (*auth.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.getUserErr != nil {
		return nil, p.getUserErr
	}
	if p.revoked[accessToken] {
		return nil, &model.AuthError{Err: errors.New("invalid JWT")}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, &model.AuthError{Err: err}
	}
	email, _ := claims["email"].(string)
	user, ok := p.users[email]
	if !ok {
		return nil, &model.AuthError{Err: errors.New("user not found")}
	}
	return &user, nil
}

func (p *fakeProvider) SignOut(_ context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.signOuts++
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.revoked[accessToken] = true
	return nil
}

// fakeProfiles хранилище профилей. gates позволяют придержать загрузку профиля
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*model.Profile
	gates    map[uuid.UUID]chan struct{}
	started  chan uuid.UUID
	getErr   error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles: make(map[uuid.UUID]*model.Profile),
		gates:    make(map[uuid.UUID]chan struct{}),
		started:  make(chan uuid.UUID, 16),
	}
}

func (f *fakeProfiles) put(userID uuid.UUID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[userID] = &model.Profile{ID: userID, FullName: name}
}

func (f *fakeProfiles) hold(userID uuid.UUID) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[userID] = gate
	return gate
}

func (f *fakeProfiles) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	f.mu.Lock()
	gate := f.gates[userID]
	err := f.getErr
	f.mu.Unlock()

	f.started <- userID

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, model.NewUnavailableError("get profile", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfiles) CompleteOnboarding(_ context.Context, userID uuid.UUID, fullName string) (*model.Profile, error) {
	if len([]rune(fullName)) < model.ProfileNameMinLength {
		return nil, model.NewValidationError(model.FieldFullName, "name is too short")
	}
	f.put(userID, fullName)
	return &model.Profile{ID: userID, FullName: fullName}, nil
}

func newTestManager(t *testing.T, provider *fakeProvider, profiles *fakeProfiles, admins ...string) *Manager {
	t.Helper()
	m := NewManager(provider, profiles, NewAllowList(admins), zaptest.NewLogger(t))
	return m
}

func signIn(t *testing.T, m *Manager, email, password string) {
	t.Helper()
	require.NoError(t, m.SignIn(context.Background(), email, password))
}
