// Package pricing рассчитывает стоимость корзины, налог и начисляемые баллы.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/readytoeat/internal/cart"
	"github.com/mmeshcher/readytoeat/internal/catalog"
	"github.com/mmeshcher/readytoeat/internal/model"
)

var (
	// TaxRate задаёт ставку налога, 15%.
	TaxRate = decimal.RequireFromString("0.15")
	// PointsDivisor: один балл за каждые 10 единиц суммы без налога.
	PointsDivisor = decimal.NewFromInt(10)
)

// ComputeSnapshot рассчитывает снимок корзины. Строки вознаграждений выводятся
// с нулевой ценой, строки без позиции в меню пропускаются.
func ComputeSnapshot(lines []model.CartLine, c catalog.Accessor) model.PricingSnapshot {
	subtotal := decimal.Zero
	priced := make([]model.PricedLine, 0, len(lines))

	for _, line := range lines {
		key := cart.EncodeKey(line.Key())

		if line.IsReward {
			priced = append(priced, model.PricedLine{
				Key:      key,
				ItemID:   line.ItemID,
				Name:     line.Name,
				Quantity: line.Quantity,
				Price:    decimal.Zero,
				Total:    decimal.Zero,
				IsReward: true,
				RewardID: line.RewardID,
			})
			continue
		}

		item, ok := c.Lookup(line.ItemID)
		if !ok {
			continue
		}

		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		priced = append(priced, model.PricedLine{
			Key:      key,
			ItemID:   line.ItemID,
			Name:     item.Name,
			Quantity: line.Quantity,
			HasExtra: line.HasExtra,
			Price:    item.Price,
			Total:    lineTotal,
		})
	}

	tax := subtotal.Mul(TaxRate)

	return model.PricingSnapshot{
		Lines:        priced,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        subtotal.Add(tax).Floor(),
		PointsEarned: subtotal.Div(PointsDivisor).Floor().IntPart(),
	}
}
