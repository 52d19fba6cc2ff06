package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIn_LoadsIdentityAndProfile(t *testing.T) {
	provider := newFakeProvider()
	profiles := newFakeProfiles()
	user := provider.addUser("anna@example.com", "secret1")
	profiles.put(user.ID, "Анна")
	m := newTestManager(t, provider, profiles)

	signIn(t, m, "anna@example.com", "secret1")

	st := m.State()
	require.NotNil(t, st.Identity)
	assert.Equal(t, user.ID, st.Identity.UserID)
	assert.Equal(t, model.RoleRegular, st.Identity.Role)
	assert.True(t, st.ProfileLoaded)
	assert.Equal(t, "Анна", st.Profile.FullName)
	assert.False(t, m.NeedsOnboarding())
}

func TestSignIn_WrongPassword(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())

	err := m.SignIn(context.Background(), "anna@example.com", "wrong")

	assert.ErrorIs(t, err, model.ErrAuth)
	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestSignIn_AdminFromAllowList(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("coach@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles(), "coach@example.com")

	signIn(t, m, "coach@example.com", "secret1")

	identity, ok := m.Identity()
	require.True(t, ok)
	assert.True(t, identity.IsAdmin())
	// без профиля, но администратор онбординг не проходит
	assert.False(t, m.NeedsOnboarding())
}

func TestNeedsOnboarding_RegularWithoutName(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())

	signIn(t, m, "anna@example.com", "secret1")

	assert.True(t, m.NeedsOnboarding())

	profile, err := m.CompleteOnboarding(context.Background(), "Анна Петрова")
	require.NoError(t, err)
	assert.Equal(t, "Анна Петрова", profile.FullName)
	assert.False(t, m.NeedsOnboarding())
}

func TestCompleteOnboarding_NoSession(t *testing.T) {
	m := newTestManager(t, newFakeProvider(), newFakeProfiles())

	_, err := m.CompleteOnboarding(context.Background(), "Анна")

	assert.ErrorIs(t, err, model.ErrNoSession)
}

func TestSignUp_Validation(t *testing.T) {
	m := newTestManager(t, newFakeProvider(), newFakeProfiles())
	ctx := context.Background()

	tests := []struct {
		name         string
		email        string
		password     string
		confirmation string
		field        string
	}{
		{"bad email", "not-an-email", "secret1", "secret1", model.FieldEmail},
		{"short password", "anna@example.com", "123", "123", model.FieldPassword},
		{"mismatch", "anna@example.com", "secret1", "secret2", model.FieldPasswordConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.SignUp(ctx, tt.email, tt.password, tt.confirmation)

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSignUp_PendingConfirmation(t *testing.T) {
	provider := newFakeProvider()
	provider.needsConfirmation = true
	m := newTestManager(t, provider, newFakeProfiles())

	pending, err := m.SignUp(context.Background(), "anna@example.com", "secret1", "secret1")

	require.NoError(t, err)
	assert.True(t, pending)
	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestSignUp_ImmediateSession(t *testing.T) {
	m := newTestManager(t, newFakeProvider(), newFakeProfiles())

	pending, err := m.SignUp(context.Background(), "anna@example.com", "secret1", "secret1")

	require.NoError(t, err)
	assert.False(t, pending)
	assert.True(t, m.NeedsOnboarding())
}

func TestSignOut_ClearsStateAndNotifies(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())
	signIn(t, m, "anna@example.com", "secret1")

	var events []EventType
	m.Subscribe(func(ev Event) { events = append(events, ev.Type) })

	m.SignOut(context.Background())

	_, ok := m.Identity()
	assert.False(t, ok)
	assert.Equal(t, []EventType{EventSignedOut}, events)
	assert.Equal(t, 1, provider.signOuts)
}

func TestSignOut_ProviderFailureStillClearsLocalState(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())
	signIn(t, m, "anna@example.com", "secret1")
	provider.signOutErr = errNetwork

	m.SignOut(context.Background())

	st := m.State()
	assert.Nil(t, st.Identity)
	assert.Nil(t, st.Profile)
	assert.False(t, st.ProfileLoaded)
}

func TestUnsubscribe(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())

	calls := 0
	unsubscribe := m.Subscribe(func(Event) { calls++ })
	signIn(t, m, "anna@example.com", "secret1")
	unsubscribe()
	m.SignOut(context.Background())

	assert.Equal(t, 1, calls)
}

func TestResolve_NoSession(t *testing.T) {
	m := newTestManager(t, newFakeProvider(), newFakeProfiles())

	identity, err := m.Resolve(context.Background())

	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestResolve_ValidSession(t *testing.T) {
	provider := newFakeProvider()
	user := provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())
	signIn(t, m, "anna@example.com", "secret1")

	identity, err := m.Resolve(context.Background())

	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, 0, provider.refreshes)
}

func TestResolve_RevokedSessionSignsOut(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())
	signIn(t, m, "anna@example.com", "secret1")

	var events []EventType
	m.Subscribe(func(ev Event) { events = append(events, ev.Type) })
	provider.getUserErr = &model.AuthError{Err: errors.New("invalid JWT")}

	identity, err := m.Resolve(context.Background())

	require.NoError(t, err)
	assert.Nil(t, identity)
	assert.Equal(t, []EventType{EventSignedOut}, events)
}

func TestResolve_NetworkErrorKeepsSession(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())
	signIn(t, m, "anna@example.com", "secret1")
	provider.getUserErr = errNetwork

	_, err := m.Resolve(context.Background())

	assert.ErrorIs(t, err, errNetwork)
	_, ok := m.Identity()
	assert.True(t, ok)
}

func TestResolve_RefreshesExpiringToken(t *testing.T) {
	provider := newFakeProvider()
	provider.expiry = time.Now().Add(30 * time.Second)
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())
	signIn(t, m, "anna@example.com", "secret1")

	var events []EventType
	m.Subscribe(func(ev Event) { events = append(events, ev.Type) })
	provider.expiry = time.Now().Add(time.Hour)

	identity, err := m.Resolve(context.Background())

	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, 1, provider.refreshes)
	assert.Equal(t, []EventType{EventTokenRefreshed}, events)
}

func TestResolve_RefreshRejectedSignsOut(t *testing.T) {
	provider := newFakeProvider()
	provider.expiry = time.Now().Add(30 * time.Second)
	provider.addUser("anna@example.com", "secret1")
	m := newTestManager(t, provider, newFakeProfiles())
	signIn(t, m, "anna@example.com", "secret1")
	provider.refreshErr = &model.AuthError{Err: errors.New("Invalid Refresh Token")}

	identity, err := m.Resolve(context.Background())

	require.NoError(t, err)
	assert.Nil(t, identity)
	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestProfileLoadFailure_KeepsIdentity(t *testing.T) {
	provider := newFakeProvider()
	provider.addUser("anna@example.com", "secret1")
	profiles := newFakeProfiles()
	profiles.getErr = errNetwork
	m := newTestManager(t, provider, profiles)

	err := m.SignIn(context.Background(), "anna@example.com", "secret1")

	assert.ErrorIs(t, err, model.ErrUnavailable)
	st := m.State()
	assert.NotNil(t, st.Identity)
	assert.False(t, st.ProfileLoaded)
}

// Медленная загрузка профиля первого пользователя не должна перезаписать
// состояние после входа второго
func TestStaleProfileLoadIsDiscarded(t *testing.T) {
	provider := newFakeProvider()
	profiles := newFakeProfiles()
	first := provider.addUser("first@example.com", "secret1")
	second := provider.addUser("second@example.com", "secret2")
	profiles.put(first.ID, "Первый")
	profiles.put(second.ID, "Второй")
	m := newTestManager(t, provider, profiles)

	gate := profiles.hold(first.ID)
	done := make(chan error, 1)
	go func() {
		done <- m.SignIn(context.Background(), "first@example.com", "secret1")
	}()
	require.Equal(t, first.ID, <-profiles.started)

	signIn(t, m, "second@example.com", "secret2")
	require.Equal(t, second.ID, <-profiles.started)

	close(gate)
	require.NoError(t, <-done)

	st := m.State()
	require.NotNil(t, st.Identity)
	assert.Equal(t, second.ID, st.Identity.UserID)
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Второй", st.Profile.FullName)
}

func TestStaleProfileLoadAfterSignOut(t *testing.T) {
	provider := newFakeProvider()
	profiles := newFakeProfiles()
	user := provider.addUser("anna@example.com", "secret1")
	profiles.put(user.ID, "Анна")
	m := newTestManager(t, provider, profiles)

	gate := profiles.hold(user.ID)
	done := make(chan error, 1)
	go func() {
		done <- m.SignIn(context.Background(), "anna@example.com", "secret1")
	}()
	<-profiles.started

	m.SignOut(context.Background())
	close(gate)
	require.NoError(t, <-done)

	st := m.State()
	assert.Nil(t, st.Identity)
	assert.Nil(t, st.Profile)
	assert.False(t, st.ProfileLoaded)
}
