package session

import "github.com/Freeeeeet/training_bot/internal/auth"

// EventType события жизненного цикла сессии
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventSignedOut      EventType = "SIGNED_OUT"
)

// Event событие сессии. Session nil для EventSignedOut
type Event struct {
	Type    EventType
	Session *auth.Session
}
