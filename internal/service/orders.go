package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/tracking"
)

// OrdersView содержит заказы сессии, разделённые на текущие и прошлые.
type OrdersView struct {
	Current []tracking.Tracked
	Past    []tracking.Tracked
}

// Orders возвращает заказы пользователя со статусом, вычисленным по часам.
func (s *Service) Orders(ctx context.Context, id string) (*OrdersView, error) {
	upstream, _, err := s.credentials(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.api.GetOrders(ctx, upstream)
	if err != nil {
		return nil, err
	}

	current, past := tracking.Split(orders, s.now(), s.location)
	return &OrdersView{Current: current, Past: past}, nil
}

// AdminMenu возвращает полное меню, включая недоступные позиции.
func (s *Service) AdminMenu(ctx context.Context, id string) ([]model.CatalogItem, error) {
	upstream, err := s.adminCredentials(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.api.GetMenu(ctx, upstream)
}

// AdminAddItem добавляет позицию в меню и обновляет снимок меню.
func (s *Service) AdminAddItem(ctx context.Context, id string, item model.NewMenuItem) error {
	upstream, err := s.adminCredentials(ctx, id)
	if err != nil {
		return err
	}
	if err := s.api.AddMenuItem(ctx, upstream, item); err != nil {
		return err
	}
	s.refreshCatalog(ctx)
	return nil
}

// AdminUpdatePrice меняет цену позиции. Корзины пересчитываются по новой
// цене при следующем запросе.
func (s *Service) AdminUpdatePrice(ctx context.Context, id string, itemID int64, price decimal.Decimal) error {
	upstream, err := s.adminCredentials(ctx, id)
	if err != nil {
		return err
	}
	if err := s.api.UpdateMenuPrice(ctx, upstream, itemID, price); err != nil {
		return err
	}
	s.refreshCatalog(ctx)
	return nil
}

// AdminDeleteItem удаляет позицию меню.
func (s *Service) AdminDeleteItem(ctx context.Context, id string, itemID int64) error {
	upstream, err := s.adminCredentials(ctx, id)
	if err != nil {
		return err
	}
	if err := s.api.DeleteMenuItem(ctx, upstream, itemID); err != nil {
		return err
	}
	s.refreshCatalog(ctx)
	return nil
}

// AdminPastOrders возвращает завершённые заказы всех пользователей.
func (s *Service) AdminPastOrders(ctx context.Context, id string) ([]tracking.Tracked, error) {
	upstream, err := s.adminCredentials(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.api.GetPastOrders(ctx, upstream)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := make([]tracking.Tracked, 0, len(orders))
	for _, o := range orders {
		res = append(res, tracking.Tracked{
			Order:   o,
			Status:  model.OrderStatusPast,
			ReadyAt: tracking.ReadyAt(o),
			Message: tracking.Message(o, now, s.location),
		})
	}
	return res, nil
}

// credentials возвращает учётные данные удалённого API и роль сессии,
// не удерживая её мьютекс во время сетевого запроса.
func (s *Service) credentials(ctx context.Context, id string) (string, model.Role, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return "", "", err
	}
	defer sess.mu.Unlock()

	return sess.upstream, sess.role, nil
}

func (s *Service) adminCredentials(ctx context.Context, id string) (string, error) {
	upstream, role, err := s.credentials(ctx, id)
	if err != nil {
		return "", err
	}
	if role != model.RoleAdmin {
		return "", ErrForbidden
	}
	return upstream, nil
}

func (s *Service) refreshCatalog(ctx context.Context) {
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh failed", zap.Error(err))
	}
}
