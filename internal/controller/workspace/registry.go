package workspace

import (
	"sync"

	"go.uber.org/zap"
)

// Registry рабочие места пользователей по telegram ID
type Registry struct {
	deps Deps

	mu    sync.Mutex
	items map[int64]*Workspace
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:  deps,
		items: make(map[int64]*Workspace),
	}
}

// Get возвращает рабочее место пользователя, создавая его при первом обращении
func (r *Registry) Get(telegramID int64) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.items[telegramID]
	if !ok {
		w = newWorkspace(telegramID, r.deps)
		r.items[telegramID] = w
		r.deps.Logger.Debug("Workspace created", zap.Int64("telegram_id", telegramID))
	}
	return w
}

// Len количество рабочих мест
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Close закрывает все рабочие места
func (r *Registry) Close() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[int64]*Workspace)
	r.mu.Unlock()

	for _, w := range items {
		w.Close()
	}
}
