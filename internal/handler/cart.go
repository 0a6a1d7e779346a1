package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/service"
)

type menuItemResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	ImagePath      string `json:"image_path,omitempty"`
	HasExtraOption bool   `json:"has_extra_option"`
	IsAvailable    bool   `json:"is_available"`
}

func toMenuResponse(items []model.CatalogItem) []menuItemResponse {
	resp := make([]menuItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, menuItemResponse{
			ID:             it.ID,
			Name:           it.Name,
			Price:          money(it.Price),
			ImagePath:      it.ImagePath,
			HasExtraOption: it.HasExtraOption,
			IsAvailable:    it.IsAvailable,
		})
	}
	return resp
}

// GetMenu возвращает меню кафетерия.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Menu(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "get menu")
		return
	}

	writeJSON(w, http.StatusOK, toMenuResponse(items))
}

type cartLineResponse struct {
	Key      string `json:"key"`
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	HasExtra bool   `json:"has_extra"`
	Price    string `json:"price"`
	Total    string `json:"total"`
	IsReward bool   `json:"is_reward,omitempty"`
	RewardID string `json:"reward_id,omitempty"`
}

type checkoutStateResponse struct {
	Allowed          bool   `json:"allowed"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Message          string `json:"message,omitempty"`
}

type cartResponse struct {
	Lines        []cartLineResponse    `json:"lines"`
	ItemCount    int                   `json:"item_count"`
	Subtotal     string                `json:"subtotal"`
	Tax          string                `json:"tax"`
	Total        string                `json:"total"`
	PointsEarned int64                 `json:"points_earned"`
	Checkout     checkoutStateResponse `json:"checkout"`
}

func toCartResponse(v *service.CartView) cartResponse {
	lines := make([]cartLineResponse, 0, len(v.Snapshot.Lines))
	for _, l := range v.Snapshot.Lines {
		lines = append(lines, cartLineResponse{
			Key:      l.Key,
			ItemID:   l.ItemID,
			Name:     l.Name,
			Quantity: l.Quantity,
			HasExtra: l.HasExtra,
			Price:    money(l.Price),
			Total:    money(l.Total),
			IsReward: l.IsReward,
			RewardID: l.RewardID,
		})
	}

	return cartResponse{
		Lines:        lines,
		ItemCount:    v.ItemCount,
		Subtotal:     money(v.Snapshot.Subtotal),
		Tax:          money(v.Snapshot.Tax),
		Total:        money(v.Snapshot.Total),
		PointsEarned: v.Snapshot.PointsEarned,
		Checkout: checkoutStateResponse{
			Allowed:          v.Eligibility.CheckoutAllowed,
			EstimatedMinutes: v.Eligibility.EstimatedMinutes,
			Message:          v.Eligibility.Message,
		},
	}
}

// GetCart возвращает корзину текущей сессии.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Cart(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "get cart")
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(view))
}

type addItemRequest struct {
	ItemID   int64 `json:"item_id"`
	HasExtra bool  `json:"has_extra"`
}

// AddCartItem добавляет единицу позиции в корзину.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	view, err := h.service.AddItem(r.Context(), id, req.ItemID, req.HasExtra)
	if err != nil {
		h.writeServiceError(w, err, "add cart item")
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(view))
}

// RemoveCartItem уменьшает количество позиции на единицу.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	view, err := h.service.RemoveItem(r.Context(), id, itemID)
	if err != nil {
		h.writeServiceError(w, err, "remove cart item")
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(view))
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// SetCartLine задаёт количество строки корзины по её ключу.
func (h *Handler) SetCartLine(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	view, err := h.service.SetQuantity(r.Context(), id, chi.URLParam(r, "key"), *req.Quantity)
	if err != nil {
		h.writeServiceError(w, err, "set cart line")
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(view))
}
