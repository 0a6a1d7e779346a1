package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/readytoeat/internal/cart"
	"github.com/mmeshcher/readytoeat/internal/checkout"
	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/pricing"
)

// CartView содержит корзину с расчётом стоимости и признаком доступности оформления.
type CartView struct {
	Snapshot    model.PricingSnapshot
	Eligibility model.Eligibility
	ItemCount   int
}

// Menu возвращает доступное меню. При первом обращении меню загружается
// из удалённого API.
func (s *Service) Menu(ctx context.Context) ([]model.CatalogItem, error) {
	if !s.catalog.Loaded() {
		if err := s.catalog.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return s.catalog.Snapshot().Items(), nil
}

// Cart возвращает текущую корзину сессии.
func (s *Service) Cart(ctx context.Context, id string) (*CartView, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	return s.cartView(ctx, sess), nil
}

// AddItem добавляет одну единицу позиции в корзину.
func (s *Service) AddItem(ctx context.Context, id string, itemID int64, hasExtra bool) (*CartView, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	sess.cart.AddLine(itemID, hasExtra)
	s.persist(ctx, sess)

	return s.cartView(ctx, sess), nil
}

// RemoveItem уменьшает количество позиции на единицу во всех её вариантах.
func (s *Service) RemoveItem(ctx context.Context, id string, itemID int64) (*CartView, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	sess.cart.RemoveLine(itemID)
	s.persist(ctx, sess)

	return s.cartView(ctx, sess), nil
}

// SetQuantity задаёт количество строки по её ключу ("12" или "12_extra").
func (s *Service) SetQuantity(ctx context.Context, id, key string, quantity int) (*CartView, error) {
	lineKey, ok := cart.DecodeKey(key)
	if !ok {
		return nil, ErrInvalidLineKey
	}

	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	sess.cart.SetQuantity(lineKey, quantity)
	s.persist(ctx, sess)

	return s.cartView(ctx, sess), nil
}

// cartView вызывается под мьютексом сессии.
func (s *Service) cartView(ctx context.Context, sess *session) *CartView {
	s.ensureCatalog(ctx)

	return &CartView{
		Snapshot:    pricing.ComputeSnapshot(sess.cart.Lines(), s.catalog),
		Eligibility: checkout.Evaluate(s.localNow()),
		ItemCount:   sess.cart.ItemCount(),
	}
}

// ensureCatalog пытается загрузить меню, если оно ещё не получено.
// Без меню строки корзины просто не участвуют в расчёте.
func (s *Service) ensureCatalog(ctx context.Context) {
	if s.catalog.Loaded() {
		return
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh failed", zap.Error(err))
	}
}

func (s *Service) localNow() time.Time {
	return s.now().In(s.location)
}
