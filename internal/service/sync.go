package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/readytoeat/internal/model"
)

// RunSync периодически обновляет меню, статусы заказов и баланс баллов загруженных сессий
// и удаляет устаревшие сессии. Блокируется до отмены ctx.
func (s *Service) RunSync(ctx context.Context, interval time.Duration) {
	if s.api == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

func (s *Service) syncOnce(ctx context.Context) {
	s.refreshCatalog(ctx)
	s.syncOrderStatuses(ctx)
	s.syncPoints(ctx)
	s.purgeStale(ctx)
}

func (s *Service) loadedSessions() []*session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// syncOrderStatuses просит удалённый API продвинуть статусы заказов
// каждой загруженной пользовательской сессии.
func (s *Service) syncOrderStatuses(ctx context.Context) {
	for _, sess := range s.loadedSessions() {
		if ctx.Err() != nil {
			return
		}

		sess.mu.Lock()
		upstream := sess.upstream
		skip := sess.role == model.RoleGuest || sess.upstream == ""
		sess.mu.Unlock()
		if skip {
			continue
		}

		n, err := s.api.UpdateOrderStatuses(ctx, upstream)
		if err != nil {
			s.logger.Debug("order status update failed", zap.String("session", sess.id), zap.Error(err))
			continue
		}
		if n > 0 {
			s.logger.Info("order statuses updated", zap.String("session", sess.id), zap.Int("count", n))
		}
	}
}

// syncPoints запрашивает баланс для каждой загруженной сессии. Ответ
// отбрасывается, если за время запроса баланс изменился локально.
func (s *Service) syncPoints(ctx context.Context) {
	for _, sess := range s.loadedSessions() {
		if ctx.Err() != nil {
			return
		}

		sess.mu.Lock()
		upstream, version := sess.upstream, sess.pointsVersion
		skip := sess.role == model.RoleGuest || sess.upstream == ""
		sess.mu.Unlock()
		if skip {
			continue
		}

		points, err := s.api.GetPoints(ctx, upstream)
		if err != nil {
			s.logger.Debug("points sync failed", zap.String("session", sess.id), zap.Error(err))
			continue
		}

		sess.mu.Lock()
		if sess.pointsVersion == version && sess.points != points {
			sess.setPoints(points)
			s.persist(ctx, sess)
		}
		sess.mu.Unlock()
	}
}

// purgeStale выгружает из памяти неактивные сессии и удаляет их из хранилища.
// Записи сессий, оставшихся в памяти, не удаляются: чтение корзины не
// обновляет время записи в хранилище.
func (s *Service) purgeStale(ctx context.Context) {
	cutoff := s.now().Add(-s.sessionTTL)

	s.mu.Lock()
	keep := make([]string, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			keep = append(keep, id)
			continue
		}
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		} else {
			keep = append(keep, id)
		}
		sess.mu.Unlock()
	}
	s.mu.Unlock()

	n, err := s.repo.DeleteSessionsBefore(ctx, cutoff, keep)
	if err != nil {
		s.logger.Warn("purge stale sessions failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("stale sessions purged", zap.Int64("count", n))
	}
}
