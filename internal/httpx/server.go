package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(service string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": service})
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "Electronics Store API",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": map[string]string{
				"GET /health":                  "service health",
				"GET /api/products":            "list products (optional ?category=)",
				"GET /api/products/{id}":       "get product by id",
				"POST /api/products":           "add a product",
				"GET /api/categories":          "list categories",
				"GET /api/orders":              "list orders",
				"GET /api/orders/{id}":         "get order by id",
				"POST /api/orders":             "place an order",
				"POST /api/delivery/calculate": "shipping quote",
				"GET /api/delivery/cities":     "delivery city lookup",
				"GET /api/delivery/points":     "pickup points",
				"GET /api/invest/securities":   "securities list",
			},
		})
	})
	return r
}
