package handlers

import (
	"time"

	"github.com/Freeeeeet/training_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/training_bot/internal/controller/state"
	"github.com/Freeeeeet/training_bot/internal/controller/workspace"
	"github.com/Freeeeeet/training_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	workspaces     *workspace.Registry
	bookingService *service.BookingService
	stateManager   *state.Manager
	callbacks      *callbacktypes.Handler
	now            func() time.Time
	logger         *zap.Logger
}

// NewHandlers создаёт новый обработчик команд. callbacks нужен для живой агенды:
// она перерисовывается так же, как из inline-кнопок
func NewHandlers(
	workspaces *workspace.Registry,
	bookingService *service.BookingService,
	stateManager *state.Manager,
	callbacks *callbacktypes.Handler,
	now func() time.Time,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		workspaces:     workspaces,
		bookingService: bookingService,
		stateManager:   stateManager,
		callbacks:      callbacks,
		now:            now,
		logger:         logger,
	}
}
