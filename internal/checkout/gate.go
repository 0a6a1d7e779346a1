// Package checkout определяет, доступно ли оформление заказа в данный момент,
// и оценивает время приготовления.
package checkout

import (
	"time"

	"github.com/mmeshcher/readytoeat/internal/model"
)

const (
	defaultEstimate = 15
	openHour        = 8
	closeHour       = 18

	// UnavailableMessage показывается, когда оформление заказа недоступно.
	UnavailableMessage = "Checkout is only available Monday-Friday, 8:00 AM - 6:00 PM"
)

type window struct {
	from, to int
	minutes  int
}

// Интервалы [from, to) в часах; первое совпадение побеждает.
var estimates = []window{
	{from: 8, to: 10, minutes: 15},
	{from: 10, to: 12, minutes: 30},
	{from: 12, to: 15, minutes: 45},
	{from: 15, to: 17, minutes: 20},
	{from: 17, to: 18, minutes: 10},
}

// EstimatedMinutes возвращает оценку времени приготовления для часа суток.
func EstimatedMinutes(hour int) int {
	for _, w := range estimates {
		if hour >= w.from && hour < w.to {
			return w.minutes
		}
	}
	return defaultEstimate
}

// Evaluate проверяет время now в его собственной временной зоне.
func Evaluate(now time.Time) model.Eligibility {
	hour := now.Hour()
	day := now.Weekday()

	weekend := day == time.Saturday || day == time.Sunday
	offHours := hour >= closeHour || hour < openHour

	res := model.Eligibility{
		EstimatedMinutes: EstimatedMinutes(hour),
		CheckoutAllowed:  !weekend && !offHours,
	}
	if !res.CheckoutAllowed {
		res.Message = UnavailableMessage
	}
	return res
}
