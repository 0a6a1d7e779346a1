package repository

import (
	"context"
	"sync"
	"time"

	"github.com/mmeshcher/readytoeat/internal/model"
)

// MemoryRepository хранит сессии в памяти процесса. Используется, когда
// адрес БД не задан.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
	now      func() time.Time
}

// NewMemoryRepository создаёт пустое in-memory хранилище.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]model.Session),
		now:      time.Now,
	}
}

// Close ничего не делает.
func (r *MemoryRepository) Close() error { return nil }

// GetSession возвращает копию сессии.
func (r *MemoryRepository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Cart = append([]model.CartLine(nil), s.Cart...)
	return &s, nil
}

// SaveSession сохраняет копию сессии.
func (r *MemoryRepository) SaveSession(ctx context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cp := *s
	cp.Cart = append([]model.CartLine(nil), s.Cart...)
	if prev, ok := r.sessions[s.ID]; ok {
		cp.CreatedAt = prev.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	r.sessions[s.ID] = cp
	return nil
}

// DeleteSession удаляет сессию.
func (r *MemoryRepository) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// DeleteSessionsBefore удаляет сессии, не обновлявшиеся с момента before,
// кроме перечисленных в keep.
func (r *MemoryRepository) DeleteSessionsBefore(ctx context.Context, before time.Time, keep []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		kept[id] = struct{}{}
	}

	var n int64
	for id, s := range r.sessions {
		if _, ok := kept[id]; ok {
			continue
		}
		if s.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}
