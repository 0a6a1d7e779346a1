package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/tracking"
)

type checkoutRequest struct {
	PaymentMethod  model.PaymentMethod  `json:"payment_method"`
	PaymentDetails model.PaymentDetails `json:"payment_details"`
}

type checkoutResponse struct {
	OrderNumber      string `json:"order_number"`
	Subtotal         string `json:"subtotal"`
	Tax              string `json:"tax"`
	Total            string `json:"total"`
	PointsEarned     int64  `json:"points_earned"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// Checkout оформляет заказ из корзины текущей сессии.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	receipt, err := h.service.Checkout(r.Context(), id, req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		h.writeServiceError(w, err, "checkout")
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{
		OrderNumber:      receipt.OrderNumber,
		Subtotal:         money(receipt.Subtotal),
		Tax:              money(receipt.Tax),
		Total:            money(receipt.Total),
		PointsEarned:     receipt.PointsEarned,
		EstimatedMinutes: receipt.EstimatedMinutes,
	})
}

type orderLineResponse struct {
	FoodID    int64  `json:"food_id"`
	FoodName  string `json:"food_name"`
	FoodPrice string `json:"food_price"`
	Quantity  int    `json:"quantity"`
	HasExtra  bool   `json:"has_extra"`
	ItemTotal string `json:"item_total"`
}

type orderResponse struct {
	OrderNumber   string              `json:"order_number"`
	Status        model.OrderStatus   `json:"status"`
	Message       string              `json:"message"`
	TotalAmount   string              `json:"total_amount"`
	TaxAmount     string              `json:"tax_amount"`
	GrandTotal    string              `json:"grand_total"`
	PointsEarned  int64               `json:"points_earned"`
	EstimatedTime int                 `json:"estimated_time"`
	PaymentMethod string              `json:"payment_method"`
	OrderTime     string              `json:"order_time"`
	ReadyAt       string              `json:"ready_at"`
	Items         []orderLineResponse `json:"items"`
}

func toOrderResponses(list []tracking.Tracked) []orderResponse {
	resp := make([]orderResponse, 0, len(list))
	for _, t := range list {
		items := make([]orderLineResponse, 0, len(t.Order.Items))
		for _, it := range t.Order.Items {
			items = append(items, orderLineResponse{
				FoodID:    it.FoodID,
				FoodName:  it.FoodName,
				FoodPrice: money(it.FoodPrice),
				Quantity:  it.Quantity,
				HasExtra:  it.HasExtra,
				ItemTotal: money(it.ItemTotal),
			})
		}
		resp = append(resp, orderResponse{
			OrderNumber:   t.Order.OrderNumber,
			Status:        t.Status,
			Message:       t.Message,
			TotalAmount:   money(t.Order.TotalAmount),
			TaxAmount:     money(t.Order.TaxAmount),
			GrandTotal:    money(t.Order.GrandTotal),
			PointsEarned:  t.Order.PointsEarned,
			EstimatedTime: t.Order.EstimatedTime,
			PaymentMethod: t.Order.PaymentMethod,
			OrderTime:     t.Order.OrderTime.Format(time.RFC3339),
			ReadyAt:       t.ReadyAt.Format(time.RFC3339),
			Items:         items,
		})
	}
	return resp
}

type ordersResponse struct {
	Current []orderResponse `json:"current"`
	Past    []orderResponse `json:"past"`
}

// GetOrders возвращает текущие и прошлые заказы пользователя.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Orders(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "get orders")
		return
	}

	writeJSON(w, http.StatusOK, ordersResponse{
		Current: toOrderResponses(view.Current),
		Past:    toOrderResponses(view.Past),
	})
}
