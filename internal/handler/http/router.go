package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nikolayk812/orderup-cart/internal/health"
	"github.com/nikolayk812/orderup-cart/internal/metrics"
	"github.com/nikolayk812/orderup-cart/internal/session"
	"github.com/nikolayk812/orderup-cart/internal/tenant"
)

// NewRouter creates a chi router with all cart service routes registered.
func NewRouter(
	sessions *session.Manager,
	tenants *tenant.Resolver,
	healthHandler *health.Handler,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery(logger))
	r.Use(chimw.RealIP)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(RequestLogging(logger))
	r.Use(m.Middleware)

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", m.Handler())

	cartHandler := NewCartHandler(sessions, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(tenants.Middleware)

		r.With(RequestLogger(logger)).Post("/sessions", cartHandler.CreateSession)

		r.Route("/cart", func(r chi.Router) {
			r.Use(SessionFromHeader)
			r.Use(RequestLogger(logger))

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Get("/items/{itemId}", cartHandler.GetItem)
			r.Put("/items/{itemId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{itemId}", cartHandler.RemoveItem)

			r.Put("/lines/{lineKey}", cartHandler.UpdateLine)
			r.Delete("/lines/{lineKey}", cartHandler.RemoveLine)

			r.Post("/checkout", cartHandler.Checkout)
		})
	})

	return r
}
