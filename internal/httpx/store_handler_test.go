package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xplaxcerx/CVB1/internal/store"
)

type fakeProducts struct {
	products map[int64]store.Product
	nextID   int64
}

func (f *fakeProducts) List(_ context.Context, category string) ([]store.Product, error) {
	out := []store.Product{}
	for _, p := range f.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Get(_ context.Context, id int64) (store.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return store.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) Create(_ context.Context, in store.NewProductInput) (int64, error) {
	f.nextID++
	f.products[f.nextID] = store.Product{
		ID: f.nextID, Name: in.Name, Price: in.Price,
		Category: in.Category, InStock: in.InStock, CreatedAt: time.Now(),
	}
	return f.nextID, nil
}

func (f *fakeProducts) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range f.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

type fakeOrders struct {
	products *fakeProducts
	placed   map[int64]store.OrderDetail
	nextID   int64
}

func (f *fakeOrders) Place(_ context.Context, in store.PlaceOrderInput) (int64, float64, error) {
	if in.ClientName == "" || in.ClientEmail == "" {
		return 0, 0, &store.ValidationError{Reason: "clientName and clientEmail are required"}
	}
	if err := store.ValidateItems(in.Items); err != nil {
		return 0, 0, err
	}
	total := 0.0
	for _, it := range store.AggregateItems(in.Items) {
		p, ok := f.products.products[it.ProductID]
		if !ok {
			return 0, 0, &store.ProductNotFoundError{ProductID: it.ProductID}
		}
		if p.InStock < it.Quantity {
			return 0, 0, &store.InsufficientStockError{
				ProductID: it.ProductID, Requested: it.Quantity, Available: p.InStock,
			}
		}
		total += p.Price * float64(it.Quantity)
	}
	for _, it := range store.AggregateItems(in.Items) {
		p := f.products.products[it.ProductID]
		p.InStock -= it.Quantity
		f.products.products[it.ProductID] = p
	}
	f.nextID++
	f.placed[f.nextID] = store.OrderDetail{
		Order: store.Order{ID: f.nextID, ClientName: in.ClientName, ClientEmail: in.ClientEmail,
			TotalAmount: total, Status: store.StatusPending},
	}
	return f.nextID, total, nil
}

func (f *fakeOrders) List(_ context.Context) ([]store.OrderSummary, error) {
	out := []store.OrderSummary{}
	for _, d := range f.placed {
		out = append(out, store.OrderSummary{Order: d.Order})
	}
	return out, nil
}

func (f *fakeOrders) Get(_ context.Context, id int64) (store.OrderDetail, error) {
	d, ok := f.placed[id]
	if !ok {
		return store.OrderDetail{}, store.ErrNotFound
	}
	return d, nil
}

func newTestServer() (*httptest.Server, *fakeProducts, *fakeOrders) {
	fp := &fakeProducts{products: map[int64]store.Product{
		1: {ID: 1, Name: "phone", Price: 100, Category: "Smartphones", InStock: 5},
	}, nextID: 1}
	fo := &fakeOrders{products: fp, placed: map[int64]store.OrderDetail{}}

	r := NewRouter("test-api")
	h := &StoreHandler{Products: fp, Orders: fo, Service: "test-api"}
	h.Register(r)
	return httptest.NewServer(r), fp, fo
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestCreateOrderOK(t *testing.T) {
	srv, fp, _ := newTestServer()
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/api/orders", map[string]any{
		"clientName":  "Ivan Ivanov",
		"clientEmail": "ivan@example.com",
		"items":       []map[string]any{{"productId": 1, "quantity": 3}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: %d body %v", resp.StatusCode, body)
	}
	if body["success"] != true || body["totalAmount"] != 300.0 {
		t.Errorf("body: %v", body)
	}
	if fp.products[1].InStock != 2 {
		t.Errorf("stock: %d", fp.products[1].InStock)
	}
}

func TestCreateOrderMissingFields(t *testing.T) {
	srv, _, _ := newTestServer()
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/api/orders", map[string]any{
		"clientName": "Ivan",
		"items":      []map[string]any{{"productId": 1, "quantity": 1}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body["error"] == nil {
		t.Errorf("body: %v", body)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	srv, fp, _ := newTestServer()
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/api/orders", map[string]any{
		"clientName":  "Ivan",
		"clientEmail": "ivan@example.com",
		"items":       []map[string]any{{"productId": 1, "quantity": 10}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body["available"] != 5.0 || body["requested"] != 10.0 {
		t.Errorf("counts missing from body: %v", body)
	}
	if fp.products[1].InStock != 5 {
		t.Errorf("stock must be unchanged: %d", fp.products[1].InStock)
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	srv, _, fo := newTestServer()
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/api/orders", map[string]any{
		"clientName":  "Ivan",
		"clientEmail": "ivan@example.com",
		"items":       []map[string]any{{"productId": 42, "quantity": 1}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d body %v", resp.StatusCode, body)
	}
	if len(fo.placed) != 0 {
		t.Error("no order must be recorded")
	}
}

func TestGetProduct(t *testing.T) {
	srv, _, _ := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/products/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var p store.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "phone" {
		t.Errorf("product: %+v", p)
	}

	resp404, err := http.Get(srv.URL + "/api/products/999")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp404.Body.Close()
	if resp404.StatusCode != http.StatusNotFound {
		t.Errorf("status: %d", resp404.StatusCode)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	srv, _, _ := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/orders/123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: %d", resp.StatusCode)
	}
}

func TestCreateProductValidation(t *testing.T) {
	srv, _, _ := newTestServer()
	defer srv.Close()

	resp, _ := postJSON(t, srv.URL+"/api/products", map[string]any{"description": "no name"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	resp, body := postJSON(t, srv.URL+"/api/products", map[string]any{
		"name": "keyboard", "price": 3500, "category": "Accessories", "inStock": 20,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: %d body %v", resp.StatusCode, body)
	}
	if body["productId"] == nil {
		t.Errorf("body: %v", body)
	}
}

func TestHealthAndRoot(t *testing.T) {
	srv, _, _ := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	var h map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&h)
	if h["status"] != "ok" || h["service"] != "test-api" {
		t.Errorf("health: %v", h)
	}

	respRoot, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	defer respRoot.Body.Close()
	var root map[string]any
	_ = json.NewDecoder(respRoot.Body).Decode(&root)
	if root["service"] != "Electronics Store API" {
		t.Errorf("root: %v", root)
	}
	if _, ok := root["endpoints"].(map[string]any); !ok {
		t.Error("endpoint directory missing")
	}
}
