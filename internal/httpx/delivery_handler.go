package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xplaxcerx/CVB1/internal/delivery"
)

// DeliveryHandler exposes the shipping integration. Upstream failures are
// converted into success:false payloads, never 5xx responses.
type DeliveryHandler struct {
	Client delivery.Client
}

func (h *DeliveryHandler) Register(r *chi.Mux) {
	r.Post("/api/delivery/calculate", h.calculate)
	r.Get("/api/delivery/cities", h.cities)
	r.Get("/api/delivery/points", h.points)
	r.Post("/api/delivery/orders", h.createOrder)
	r.Get("/api/delivery/orders/{uuid}", h.track)
}

func upstreamTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

func (h *DeliveryHandler) calculate(w http.ResponseWriter, r *http.Request) {
	var req delivery.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DeliveryType != delivery.TypeDoor && req.DeliveryType != delivery.TypePickup {
		writeError(w, http.StatusBadRequest, `deliveryType must be "door" or "pickup"`)
		return
	}
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	writeJSON(w, http.StatusOK, h.Client.Quote(ctx, req))
}

func (h *DeliveryHandler) cities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("city")
	if query == "" {
		writeError(w, http.StatusBadRequest, "city query parameter is required")
		return
	}
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	cities, err := h.Client.Cities(ctx, query)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "cities": cities})
}

func (h *DeliveryHandler) points(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, http.StatusBadRequest, "city query parameter is required")
		return
	}
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	points, err := h.Client.Points(ctx, city)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "points": points, "count": len(points)})
}

func (h *DeliveryHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req delivery.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	res, err := h.Client.CreateOrder(ctx, req)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "delivery": res})
}

func (h *DeliveryHandler) track(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	st, err := h.Client.Track(ctx, chi.URLParam(r, "uuid"))
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tracking": st})
}
