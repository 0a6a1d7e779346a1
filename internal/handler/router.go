package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/readytoeat/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса Ready-to-Eat.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/healthz", h.Healthz)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", h.CreateSession)
		r.Get("/menu", h.GetMenu)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/session", h.GetSession)
			r.Delete("/session", h.EndSession)

			r.Get("/cart", h.GetCart)
			r.Post("/cart/items", h.AddCartItem)
			r.Delete("/cart/items/{itemID}", h.RemoveCartItem)
			r.Put("/cart/lines/{key}", h.SetCartLine)

			r.Get("/rewards", h.GetRewards)
			r.Post("/rewards/redeem", h.Redeem)
			r.Delete("/rewards/{rewardID}", h.Unredeem)

			r.Group(func(r chi.Router) {
				if h.limiter != nil {
					r.Use(h.limiter.Middleware)
				}
				r.Post("/checkout", h.Checkout)
			})
			r.Get("/orders", h.GetOrders)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/menu", h.AdminMenu)
				r.Post("/menu", h.AdminAddMenuItem)
				r.Put("/menu/{itemID}", h.AdminUpdatePrice)
				r.Delete("/menu/{itemID}", h.AdminDeleteMenuItem)
				r.Get("/orders/past", h.AdminPastOrders)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "")
	})

	return r
}
