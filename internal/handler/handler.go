// Package handler содержит HTTP-обработчики API сервиса Ready-to-Eat.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/readytoeat/internal/api"
	"github.com/mmeshcher/readytoeat/internal/checkout"
	"github.com/mmeshcher/readytoeat/internal/middleware"
	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/rewards"
	"github.com/mmeshcher/readytoeat/internal/service"
	"github.com/mmeshcher/readytoeat/internal/tracking"
	"github.com/mmeshcher/readytoeat/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	CreateSession(ctx context.Context, role model.Role, upstream string) (*service.SessionInfo, error)
	Session(ctx context.Context, id string) (*service.SessionInfo, error)
	EndSession(ctx context.Context, id string) error

	Menu(ctx context.Context) ([]model.CatalogItem, error)
	Cart(ctx context.Context, id string) (*service.CartView, error)
	AddItem(ctx context.Context, id string, itemID int64, hasExtra bool) (*service.CartView, error)
	RemoveItem(ctx context.Context, id string, itemID int64) (*service.CartView, error)
	SetQuantity(ctx context.Context, id, key string, quantity int) (*service.CartView, error)

	Rewards(ctx context.Context, id string) (*service.RewardsView, error)
	Redeem(ctx context.Context, id, tierID, rewardID string) (*service.RewardsView, error)
	Unredeem(ctx context.Context, id, rewardID string) (*service.RewardsView, error)

	Checkout(ctx context.Context, id string, method model.PaymentMethod, details model.PaymentDetails) (*service.Receipt, error)
	Orders(ctx context.Context, id string) (*service.OrdersView, error)

	AdminMenu(ctx context.Context, id string) ([]model.CatalogItem, error)
	AdminAddItem(ctx context.Context, id string, item model.NewMenuItem) error
	AdminUpdatePrice(ctx context.Context, id string, itemID int64, price decimal.Decimal) error
	AdminDeleteItem(ctx context.Context, id string, itemID int64) error
	AdminPastOrders(ctx context.Context, id string) ([]tracking.Tracked, error)
}

// Handler реализует HTTP-обработчики API сервиса Ready-to-Eat.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	metrics        *middleware.Metrics
	limiter        *middleware.RateLimiter
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// metrics и limiter необязательны.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, metrics *middleware.Metrics, limiter *middleware.RateLimiter) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		metrics:        metrics,
		limiter:        limiter,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError переводит ошибку бизнес-логики в HTTP-ответ.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	var apiErr *api.Error

	switch {
	case service.IsNotFound(err):
		h.authMiddleware.ClearSessionCookie(w)
		writeError(w, http.StatusUnauthorized, "")
	case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrInvalidLineKey):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrRewardsUnavailable):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, rewards.ErrUnknownReward):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, rewards.ErrInsufficientPoints), errors.Is(err, rewards.ErrRedemptionActive):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCheckoutUnavailable):
		writeError(w, http.StatusConflict, checkout.UnavailableMessage)
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, validation.ErrIncompletePayment),
		errors.Is(err, validation.ErrUnknownPaymentMethod):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &apiErr):
		h.logger.Warn("upstream error", zap.String("op", op), zap.Int("status", apiErr.StatusCode), zap.String("message", apiErr.Message))
		writeError(w, http.StatusBadGateway, apiErr.Message)
	default:
		h.logger.Error(op+" error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "")
	}
}

// sessionID извлекает идентификатор сессии, установленный AuthMiddleware.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.GetSessionIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "")
	}
	return id, ok
}

type createSessionRequest struct {
	Role            model.Role `json:"role"`
	UpstreamSession string     `json:"upstream_session"`
}

type sessionResponse struct {
	ID     string     `json:"id"`
	Role   model.Role `json:"role"`
	Points int64      `json:"points"`
}

// CreateSession открывает клиентскую сессию и устанавливает cookie.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "")
		return
	}

	if req.Role == "" {
		req.Role = model.RoleGuest
	}
	if req.Role != model.RoleGuest && req.UpstreamSession == "" {
		writeError(w, http.StatusBadRequest, "upstream_session is required")
		return
	}

	info, err := h.service.CreateSession(r.Context(), req.Role, req.UpstreamSession)
	if err != nil {
		h.writeServiceError(w, err, "create session")
		return
	}

	h.authMiddleware.SetSessionCookie(w, info.ID)
	writeJSON(w, http.StatusCreated, sessionResponse(*info))
}

// GetSession возвращает роль и баланс текущей сессии.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	info, err := h.service.Session(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "get session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(*info))
}

// EndSession закрывает текущую сессию.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.EndSession(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "end session")
		return
	}

	h.authMiddleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Healthz отвечает 200, пока процесс жив.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
