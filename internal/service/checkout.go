package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/readytoeat/internal/checkout"
	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/pricing"
	"github.com/mmeshcher/readytoeat/internal/validation"
)

// Receipt описывает результат успешного оформления заказа.
type Receipt struct {
	OrderNumber      string
	Subtotal         decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
	PointsEarned     int64
	EstimatedMinutes int
}

// Checkout оформляет заказ из корзины сессии. Корзина очищается только
// после того, как удалённый API принял заказ.
func (s *Service) Checkout(ctx context.Context, id string, method model.PaymentMethod, details model.PaymentDetails) (*Receipt, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	eligibility := checkout.Evaluate(s.localNow())
	if !eligibility.CheckoutAllowed {
		return nil, ErrCheckoutUnavailable
	}

	lines := sess.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if err := validation.ValidatePayment(method, details); err != nil {
		return nil, err
	}

	s.ensureCatalog(ctx)
	snap := pricing.ComputeSnapshot(lines, s.catalog)
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			FoodID:   l.ItemID,
			Quantity: l.Quantity,
			HasExtra: l.HasExtra,
		})
	}

	req := model.OrderRequest{
		Items:          items,
		TotalAmount:    snap.Subtotal,
		TaxAmount:      snap.Tax,
		GrandTotal:     snap.Total,
		PointsEarned:   snap.PointsEarned,
		EstimatedTime:  eligibility.EstimatedMinutes,
		PaymentMethod:  method,
		PaymentDetails: validation.Redact(method, details),
	}

	number, err := s.api.PlaceOrder(ctx, sess.upstream, req)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("session", sess.id),
		zap.String("order", number),
		zap.String("total", snap.Total.String()),
	)

	sess.cart.Clear()
	s.persist(ctx, sess)

	return &Receipt{
		OrderNumber:      number,
		Subtotal:         snap.Subtotal,
		Tax:              snap.Tax,
		Total:            snap.Total,
		PointsEarned:     snap.PointsEarned,
		EstimatedMinutes: eligibility.EstimatedMinutes,
	}, nil
}
