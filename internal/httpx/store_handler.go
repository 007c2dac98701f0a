package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/xplaxcerx/CVB1/internal/kafkax"
	"github.com/xplaxcerx/CVB1/internal/redisx"
	"github.com/xplaxcerx/CVB1/internal/store"
)

type ProductStore interface {
	List(ctx context.Context, category string) ([]store.Product, error)
	Get(ctx context.Context, id int64) (store.Product, error)
	Create(ctx context.Context, in store.NewProductInput) (int64, error)
	Categories(ctx context.Context) ([]string, error)
}

type OrderStore interface {
	Place(ctx context.Context, in store.PlaceOrderInput) (int64, float64, error)
	List(ctx context.Context) ([]store.OrderSummary, error)
	Get(ctx context.Context, id int64) (store.OrderDetail, error)
}

// StoreHandler serves the catalog and order endpoints. Producer and Redis
// are optional; when nil, event publishing and status caching are skipped.
type StoreHandler struct {
	Products ProductStore
	Orders   OrderStore
	Producer *kafkax.Producer
	Redis    *redis.Client
	Service  string
}

func (h *StoreHandler) Register(r *chi.Mux) {
	r.Get("/api/products", h.listProducts)
	r.Get("/api/products/{id}", h.getProduct)
	r.Post("/api/products", h.createProduct)
	r.Get("/api/categories", h.listCategories)
	r.Get("/api/orders", h.listOrders)
	r.Get("/api/orders/{id}", h.getOrder)
	r.Post("/api/orders", h.createOrder)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *StoreHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Products.List(ctx, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *StoreHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Products.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *StoreHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in store.NewProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" || in.Price <= 0 {
		writeError(w, http.StatusBadRequest, "name and price are required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := h.Products.Create(ctx, in)
	if err != nil {
		var ve *store.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Reason)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"productId": id,
		"message":   "product created",
	})
}

func (h *StoreHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cs, err := h.Products.Categories(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *StoreHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	os, err := h.Orders.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *StoreHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d, err := h.Orders.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *StoreHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in store.PlaceOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.ClientName == "" || in.ClientEmail == "" || len(in.Items) == 0 {
		writeError(w, http.StatusBadRequest, "clientName, clientEmail and items are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID, total, err := h.Orders.Place(ctx, in)
	if err != nil {
		h.writePlaceError(w, err)
		return
	}

	h.cacheStatus(ctx, orderID)
	h.publishOrderCreated(r, orderID, total, in)

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"orderId":     orderID,
		"totalAmount": total,
		"message":     "order created",
	})
}

func (h *StoreHandler) writePlaceError(w http.ResponseWriter, err error) {
	var (
		ve  *store.ValidationError
		pnf *store.ProductNotFoundError
		ins *store.InsufficientStockError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Reason)
	case errors.As(err, &pnf):
		writeError(w, http.StatusBadRequest, pnf.Error())
	case errors.As(err, &ins):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":     ins.Error(),
			"productId": ins.ProductID,
			"available": ins.Available,
			"requested": ins.Requested,
		})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// cacheStatus stores the fresh order status in Redis, best effort.
func (h *StoreHandler) cacheStatus(ctx context.Context, orderID int64) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = h.Redis.Set(ctx, key, `{"status":"pending"}`, redisx.TTLStatusCache).Err()
}

// publishOrderCreated is fire-and-forget; placement already succeeded.
func (h *StoreHandler) publishOrderCreated(r *http.Request, orderID int64, total float64, in store.PlaceOrderInput) {
	if h.Producer == nil {
		return
	}
	ev := store.Envelope{
		EventID:      uuid.NewString(),
		EventType:    store.EventOrderCreated,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     h.Service,
		TraceID:      r.Header.Get("X-Request-Id"),
		Payload: kafkax.MustMarshal(store.OrderCreatedPayload{
			OrderID:     orderID,
			ClientName:  in.ClientName,
			ClientEmail: in.ClientEmail,
			Items:       in.Items,
			TotalAmount: total,
		}),
	}
	h.Producer.Publish(store.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(store.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
