// Package tracking вычисляет отображаемый статус заказа по прошедшему времени.
package tracking

import (
	"time"

	"github.com/mmeshcher/readytoeat/internal/model"
)

// PastAfter задаёт, через сколько после готовности заказ переходит в историю.
const PastAfter = 60 * time.Minute

// ReadyAt возвращает ожидаемое время готовности заказа.
func ReadyAt(o model.Order) time.Time {
	return o.OrderTime.Add(time.Duration(o.EstimatedTime) * time.Minute)
}

// Status возвращает статус заказа для отображения на момент now.
func Status(o model.Order, now time.Time) model.OrderStatus {
	switch o.Status {
	case model.OrderStatusCompleted, model.OrderStatusPast:
		return model.OrderStatusPast
	}

	elapsed := now.Sub(o.OrderTime).Truncate(time.Minute)
	estimate := time.Duration(o.EstimatedTime) * time.Minute

	if elapsed >= estimate+PastAfter {
		return model.OrderStatusPast
	}
	if o.Status == model.OrderStatusReady || elapsed >= estimate {
		return model.OrderStatusReady
	}
	return model.OrderStatusCurrent
}

// Message возвращает подпись к заказу: готов или время готовности в loc.
func Message(o model.Order, now time.Time, loc *time.Location) string {
	if Status(o, now) != model.OrderStatusCurrent {
		return "Your order is ready!"
	}
	if loc == nil {
		loc = time.Local
	}
	return "Your order will be ready at - " + ReadyAt(o).In(loc).Format("15:04")
}

// Tracked описывает заказ с вычисленным статусом.
type Tracked struct {
	Order   model.Order
	Status  model.OrderStatus
	ReadyAt time.Time
	Message string
}

// Split делит заказы на текущие (current, ready) и прошлые.
func Split(orders []model.Order, now time.Time, loc *time.Location) (current, past []Tracked) {
	for _, o := range orders {
		t := Tracked{
			Order:   o,
			Status:  Status(o, now),
			ReadyAt: ReadyAt(o),
			Message: Message(o, now, loc),
		}
		if t.Status == model.OrderStatusPast {
			past = append(past, t)
		} else {
			current = append(current, t)
		}
	}
	return current, past
}
