// Package workspace хранит объекты одного пользователя Telegram:
// сессию, черновик записи и консоль администратора
package workspace

import (
	"sync"
	"time"

	"github.com/Freeeeeet/training_bot/internal/admin"
	"github.com/Freeeeeet/training_bot/internal/auth"
	"github.com/Freeeeeet/training_bot/internal/flow"
	"github.com/Freeeeeet/training_bot/internal/model"
	"github.com/Freeeeeet/training_bot/internal/session"
	"go.uber.org/zap"
)

// Bookings журнал бронирований, общий для записи и консоли
type Bookings interface {
	flow.BookingCreator
	admin.Bookings
}

// Deps зависимости, из которых собирается рабочее место пользователя
type Deps struct {
	Auth         auth.Provider
	Profiles     session.ProfileLoader
	Admins       session.AllowList
	Availability flow.Availability
	Bookings     Bookings
	Roster       admin.Roster
	Routines     admin.Routines
	Service      string
	Professional string
	Now          func() time.Time
	Logger       *zap.Logger
}

// AgendaView сообщение с живой агендой администратора
type AgendaView struct {
	ChatID    int64
	MessageID int
}

// Workspace состояние одного пользователя Telegram
type Workspace struct {
	TelegramID int64
	Session    *session.Manager
	Flow       *flow.Controller

	deps   Deps
	logger *zap.Logger

	mu          sync.Mutex
	console     *admin.Console
	agenda      *AgendaView
	stopAgenda  func()
	unsubscribe func()
}

func newWorkspace(telegramID int64, deps Deps) *Workspace {
	logger := deps.Logger.With(zap.Int64("telegram_id", telegramID))

	w := &Workspace{
		TelegramID: telegramID,
		Session:    session.NewManager(deps.Auth, deps.Profiles, deps.Admins, logger),
		Flow: flow.NewController(deps.Availability, deps.Bookings,
			deps.Service, deps.Professional, deps.Now, logger),
		deps:   deps,
		logger: logger,
	}
	w.unsubscribe = w.Session.Subscribe(w.onSessionEvent)
	return w
}

// Console консоль администратора. Создаётся при первом обращении
func (w *Workspace) Console(identity model.Identity) (*admin.Console, error) {
	if !identity.IsAdmin() {
		return nil, model.ErrForbidden
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.console == nil {
		w.console = admin.NewConsole(w.deps.Bookings, w.deps.Roster, w.deps.Routines, identity, w.logger)
	}
	return w.console, nil
}

// ShowAgenda запоминает сообщение с агендой. stop отписывает предыдущую перерисовку
func (w *Workspace) ShowAgenda(view AgendaView, stop func()) {
	w.mu.Lock()
	prev := w.stopAgenda
	w.agenda = &view
	w.stopAgenda = stop
	w.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// StopAgenda прекращает перерисовку, если агенда показана в сообщении messageID:
// сообщение переходит к другому экрану
func (w *Workspace) StopAgenda(messageID int) {
	w.mu.Lock()
	if w.agenda == nil || w.agenda.MessageID != messageID {
		w.mu.Unlock()
		return
	}
	stop := w.stopAgenda
	w.agenda = nil
	w.stopAgenda = nil
	w.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Agenda текущее сообщение с агендой
func (w *Workspace) Agenda() (AgendaView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.agenda == nil {
		return AgendaView{}, false
	}
	return *w.agenda, true
}

// Close закрывает консоль и отписывается от сессии
func (w *Workspace) Close() {
	w.teardown()
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

// onSessionEvent при выходе и при входе другого пользователя сбрасывает
// черновик и закрывает консоль
func (w *Workspace) onSessionEvent(ev session.Event) {
	if ev.Type == session.EventTokenRefreshed {
		return
	}
	w.logger.Debug("Tearing down workspace", zap.String("event", string(ev.Type)))
	w.teardown()
}

func (w *Workspace) teardown() {
	w.Flow.Reset()

	w.mu.Lock()
	console := w.console
	stop := w.stopAgenda
	w.console = nil
	w.agenda = nil
	w.stopAgenda = nil
	w.mu.Unlock()

	if stop != nil {
		stop()
	}
	if console != nil {
		console.Close()
	}
}
