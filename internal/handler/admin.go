package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/readytoeat/internal/model"
)

// AdminMenu возвращает полное меню, включая недоступные позиции.
func (h *Handler) AdminMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	items, err := h.service.AdminMenu(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "admin menu")
		return
	}

	writeJSON(w, http.StatusOK, toMenuResponse(items))
}

type addMenuItemRequest struct {
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	ImagePath      string          `json:"image_path"`
	HasExtraOption bool            `json:"has_extra_option"`
}

// AdminAddMenuItem добавляет позицию в меню.
func (h *Handler) AdminAddMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req addMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || !req.Price.IsPositive() {
		writeError(w, http.StatusBadRequest, "name and positive price are required")
		return
	}

	err := h.service.AdminAddItem(r.Context(), id, model.NewMenuItem{
		Name:           req.Name,
		Price:          req.Price,
		ImagePath:      req.ImagePath,
		HasExtraOption: req.HasExtraOption,
	})
	if err != nil {
		h.writeServiceError(w, err, "admin add menu item")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

type updatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// AdminUpdatePrice меняет цену позиции меню.
func (h *Handler) AdminUpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	var req updatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Price.IsPositive() {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	if err := h.service.AdminUpdatePrice(r.Context(), id, itemID, req.Price); err != nil {
		h.writeServiceError(w, err, "admin update price")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminDeleteMenuItem удаляет позицию меню.
func (h *Handler) AdminDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	if err := h.service.AdminDeleteItem(r.Context(), id, itemID); err != nil {
		h.writeServiceError(w, err, "admin delete menu item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminPastOrders возвращает завершённые заказы всех пользователей.
func (h *Handler) AdminPastOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	orders, err := h.service.AdminPastOrders(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "admin past orders")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}
