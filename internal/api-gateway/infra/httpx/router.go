package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickcart/orderflow/internal/pkg/obs"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(obs.Instrument)
	r.Use(obs.RateLimit(50, 100))

	r.Post("/users", handler.CreateUser)
	r.Post("/users/login", handler.Login)
	r.Get("/users/{id}", handler.GetUserByID)

	r.Post("/orders", handler.PlaceOrder)
	r.Get("/orders/{id}", handler.GetOrderByID)
	r.Patch("/orders/{id}/status", handler.UpdateOrderStatus)

	r.Method(http.MethodGet, "/metrics", obs.Handler())
	return r
}
