package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"go.uber.org/zap"
)

const (
	watcherInitialBackoff = time.Second
	watcherMaxBackoff     = 30 * time.Second
)

// ChangeSource источник изменений бронирований (LISTEN в Postgres)
type ChangeSource interface {
	Listen(ctx context.Context, handle func(model.BookingChange)) error
}

// ChangePublisher получатель изменений
type ChangePublisher interface {
	Publish(change model.BookingChange)
}

// Watcher фоновая задача: держит подписку на изменения бронирований
// и переподключается при обрыве соединения
type Watcher struct {
	source    ChangeSource
	publisher ChangePublisher
	logger    *zap.Logger
	stopChan  chan struct{}
	sleep     func(ctx context.Context, d time.Duration) bool
}

// NewWatcher создаёт новый наблюдатель
func NewWatcher(source ChangeSource, publisher ChangePublisher, logger *zap.Logger) *Watcher {
	return &Watcher{
		source:    source,
		publisher: publisher,
		logger:    logger,
		stopChan:  make(chan struct{}),
		sleep:     sleepCtx,
	}
}

// Run блокируется до отмены ctx или вызова Stop
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("Starting booking change watcher")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-w.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	backoff := watcherInitialBackoff
	for {
		started := time.Now()
		err := w.source.Listen(ctx, w.publisher.Publish)
		if ctx.Err() != nil {
			w.logger.Info("Booking change watcher stopped")
			return nil
		}

		if time.Since(started) > watcherMaxBackoff {
			backoff = watcherInitialBackoff
		}

		w.logger.Error("Booking change listener failed, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff))

		// После переподключения уведомления за время обрыва потеряны:
		// подписчики перечитывают данные целиком, поэтому хватает одного сигнала
		if !w.sleep(ctx, backoff) {
			w.logger.Info("Booking change watcher stopped")
			return nil
		}
		w.publisher.Publish(model.BookingChange{})

		backoff = min(backoff*2, watcherMaxBackoff)
	}
}

// Stop останавливает наблюдатель
func (w *Watcher) Stop() {
	w.logger.Info("Stopping booking change watcher")
	close(w.stopChan)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
