package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/readytoeat/internal/model"
)

type foodItemsResponse struct {
	FoodItems []model.CatalogItem `json:"food_items"`
}

// GetFoodItems возвращает меню.
func (c *Client) GetFoodItems(ctx context.Context) ([]model.CatalogItem, error) {
	var resp foodItemsResponse
	if err := c.do(ctx, http.MethodGet, "/api/food-items", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.FoodItems, nil
}

type pointsBody struct {
	Points int64 `json:"points"`
}

// GetPoints возвращает баланс баллов пользователя.
func (c *Client) GetPoints(ctx context.Context, session string) (int64, error) {
	var resp pointsBody
	if err := c.do(ctx, http.MethodGet, "/api/user/points", session, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Points, nil
}

// UpdatePoints сохраняет баланс баллов пользователя.
func (c *Client) UpdatePoints(ctx context.Context, session string, points int64) error {
	return c.do(ctx, http.MethodPut, "/api/user/points", session, pointsBody{Points: points}, nil)
}

type placeOrderResponse struct {
	Order struct {
		OrderNumber string `json:"order_number"`
	} `json:"order"`
}

// orderRequestDTO передаёт суммы числами, как их ожидает удалённый API.
type orderRequestDTO struct {
	Items          []model.OrderItem    `json:"items"`
	TotalAmount    float64              `json:"total_amount"`
	TaxAmount      float64              `json:"tax_amount"`
	GrandTotal     float64              `json:"grand_total"`
	PointsEarned   int64                `json:"points_earned"`
	EstimatedTime  int                  `json:"estimated_time"`
	PaymentMethod  model.PaymentMethod  `json:"payment_method"`
	PaymentDetails model.PaymentDetails `json:"payment_details"`
}

// PlaceOrder создаёт заказ и возвращает его номер.
func (c *Client) PlaceOrder(ctx context.Context, session string, order model.OrderRequest) (string, error) {
	body := orderRequestDTO{
		Items:          order.Items,
		TotalAmount:    order.TotalAmount.InexactFloat64(),
		TaxAmount:      order.TaxAmount.InexactFloat64(),
		GrandTotal:     order.GrandTotal.InexactFloat64(),
		PointsEarned:   order.PointsEarned,
		EstimatedTime:  order.EstimatedTime,
		PaymentMethod:  order.PaymentMethod,
		PaymentDetails: order.PaymentDetails,
	}

	var resp placeOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", session, body, &resp); err != nil {
		return "", err
	}
	if resp.Order.OrderNumber == "" {
		return "", fmt.Errorf("empty order number in response")
	}
	return resp.Order.OrderNumber, nil
}

type orderLineDTO struct {
	FoodID    int64           `json:"food_id"`
	FoodName  string          `json:"food_name"`
	FoodPrice decimal.Decimal `json:"food_price"`
	Quantity  int             `json:"quantity"`
	HasExtra  bool            `json:"has_extra"`
	ItemTotal decimal.Decimal `json:"item_total"`
}

type orderDTO struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"order_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PointsEarned  int64           `json:"points_earned"`
	EstimatedTime int             `json:"estimated_time"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	OrderTime     string          `json:"order_time"`
	ReadyTime     string          `json:"ready_time"`
	CompletedTime string          `json:"completed_time"`
	OrderItems    []orderLineDTO  `json:"order_items"`
	Items         []orderLineDTO  `json:"items"`
}

type ordersResponse struct {
	Orders []orderDTO `json:"orders"`
}

// GetOrders возвращает заказы текущего пользователя.
func (c *Client) GetOrders(ctx context.Context, session string) ([]model.Order, error) {
	return c.getOrders(ctx, "/api/orders", session)
}

// GetPastOrders возвращает завершённые заказы всех пользователей (для администратора).
func (c *Client) GetPastOrders(ctx context.Context, session string) ([]model.Order, error) {
	return c.getOrders(ctx, "/api/admin/orders/past", session)
}

func (c *Client) getOrders(ctx context.Context, path, session string) ([]model.Order, error) {
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, path, session, nil, &resp); err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orderTime, err := parseTimestamp(o.OrderTime)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", o.OrderNumber, err)
		}

		items := o.OrderItems
		if len(items) == 0 {
			items = o.Items
		}
		lines := make([]model.OrderLine, 0, len(items))
		for _, it := range items {
			lines = append(lines, model.OrderLine(it))
		}

		orders = append(orders, model.Order{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			TotalAmount:   o.TotalAmount,
			TaxAmount:     o.TaxAmount,
			GrandTotal:    o.GrandTotal,
			PointsEarned:  o.PointsEarned,
			EstimatedTime: o.EstimatedTime,
			Status:        model.OrderStatus(o.Status),
			PaymentMethod: o.PaymentMethod,
			OrderTime:     orderTime,
			ReadyTime:     optionalTimestamp(o.ReadyTime),
			CompletedTime: optionalTimestamp(o.CompletedTime),
			Items:         lines,
		})
	}
	return orders, nil
}

type updateStatusResponse struct {
	UpdatedOrderIDs []json.RawMessage `json:"updated_order_ids"`
}

// UpdateOrderStatuses просит удалённый API перевести просроченные заказы
// пользователя в ready/completed. Возвращает число изменённых заказов.
func (c *Client) UpdateOrderStatuses(ctx context.Context, session string) (int, error) {
	var resp updateStatusResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders/update-status", session, nil, &resp); err != nil {
		return 0, err
	}
	return len(resp.UpdatedOrderIDs), nil
}

type menuResponse struct {
	MenuItems []model.CatalogItem `json:"menu_items"`
}

// GetMenu возвращает полное меню для администратора.
func (c *Client) GetMenu(ctx context.Context, session string) ([]model.CatalogItem, error) {
	var resp menuResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/menu", session, nil, &resp); err != nil {
		return nil, err
	}
	return resp.MenuItems, nil
}

// AddMenuItem добавляет позицию в меню.
func (c *Client) AddMenuItem(ctx context.Context, session string, item model.NewMenuItem) error {
	body := struct {
		Name           string  `json:"name"`
		Price          float64 `json:"price"`
		ImagePath      string  `json:"image_path"`
		HasExtraOption bool    `json:"has_extra_option"`
	}{
		Name:           item.Name,
		Price:          item.Price.InexactFloat64(),
		ImagePath:      item.ImagePath,
		HasExtraOption: item.HasExtraOption,
	}
	return c.do(ctx, http.MethodPost, "/api/admin/menu", session, body, nil)
}

// UpdateMenuPrice меняет цену позиции меню.
func (c *Client) UpdateMenuPrice(ctx context.Context, session string, itemID int64, price decimal.Decimal) error {
	body := struct {
		Price float64 `json:"price"`
	}{Price: price.InexactFloat64()}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/menu/%d", itemID), session, body, nil)
}

// DeleteMenuItem удаляет позицию меню.
func (c *Client) DeleteMenuItem(ctx context.Context, session string, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/menu/%d", itemID), session, nil, nil)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp разбирает время в формате ISO 8601. Время без зоны
// считается UTC: так его сохраняет удалённый API.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", s)
}

func optionalTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return nil
	}
	return &t
}
