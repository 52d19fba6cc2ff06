package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/training_bot/internal/controller/state"
	"github.com/Freeeeeet/training_bot/internal/controller/workspace"
	"github.com/Freeeeeet/training_bot/internal/service"
	"go.uber.org/zap"
)

// StateManager интерфейс для управления состоянием диалогов
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) state.UserState
	SetState(telegramID int64, st state.UserState)
	Start(telegramID int64, st state.UserState, data map[string]any)
	SetData(telegramID int64, key string, value any)
	GetData(telegramID int64, key string) (any, bool)
	GetString(telegramID int64, key string) (string, bool)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Workspaces     *workspace.Registry
	BookingService *service.BookingService
	StateManager   StateManager
	Now            func() time.Time
	Logger         *zap.Logger
}
