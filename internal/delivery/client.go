// Package delivery wraps the CDEK shipping API. Callers get a Client
// selected once at startup: LiveClient when provider credentials are
// configured, DemoClient otherwise. Upstream failures never propagate as
// errors from Quote; the caller receives a labeled fallback estimate.
package delivery

import (
	"context"
	"fmt"

	"github.com/xplaxcerx/CVB1/internal/config"
)

const (
	TypeDoor   = "door"
	TypePickup = "pickup"
)

// CDEK tariff codes for the two delivery types offered at checkout.
const (
	TariffDoorToDoor           = 136
	TariffWarehouseToWarehouse = 138
	TariffDoorToWarehouse      = 139
)

type QuoteRequest struct {
	City         string      `json:"city"`
	CityCode     int         `json:"cityCode,omitempty"`
	DeliveryType string      `json:"deliveryType"`
	WeightGrams  int         `json:"weight,omitempty"`
	Items        []QuoteItem `json:"items,omitempty"`
}

type QuoteItem struct {
	Quantity int `json:"quantity"`
}

type Tariff struct {
	TariffCode        int     `json:"tariffCode"`
	TariffName        string  `json:"tariffName"`
	TariffDescription string  `json:"tariffDescription,omitempty"`
	DeliveryMode      int     `json:"deliveryMode,omitempty"`
	DeliveryCost      float64 `json:"deliveryCost"`
	DeliveryDays      string  `json:"deliveryDays"`
	Currency          string  `json:"currency"`
}

// Quote is the result of a shipping calculation. Success false means the
// upstream could not serve the request and the cost fields hold the
// fallback estimate instead of a real tariff.
type Quote struct {
	Success           bool     `json:"success"`
	DeliveryCost      float64  `json:"deliveryCost"`
	DeliveryDays      string   `json:"deliveryDays"`
	TariffCode        int      `json:"tariffCode"`
	TariffName        string   `json:"tariffName"`
	TariffDescription string   `json:"tariffDescription,omitempty"`
	Currency          string   `json:"currency"`
	CityCode          int      `json:"cityCode,omitempty"`
	AllTariffs        []Tariff `json:"allTariffs,omitempty"`
	DemoMode          bool     `json:"demoMode,omitempty"`
	Error             string   `json:"error,omitempty"`
	Note              string   `json:"note,omitempty"`
}

type City struct {
	Code    int    `json:"code"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

type Point struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	WorkTime string `json:"workTime"`
	Type     string `json:"type"`
}

type OrderRequest struct {
	OrderID     int64   `json:"orderId"`
	TariffCode  int     `json:"tariffCode,omitempty"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	ClientEmail string  `json:"clientEmail"`
	CityCode    int     `json:"cityCode"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	WeightGrams int     `json:"weight,omitempty"`
	OrderAmount float64 `json:"orderAmount,omitempty"`
}

type OrderResult struct {
	UUID           string `json:"uuid"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	TrackingURL    string `json:"trackingUrl,omitempty"`
}

type TrackingStatus struct {
	Status         string `json:"status"`
	Location       string `json:"location,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	TrackingURL    string `json:"trackingUrl,omitempty"`
}

type Client interface {
	// Quote never fails; degraded results carry Success=false plus a
	// fallback estimate.
	Quote(ctx context.Context, req QuoteRequest) Quote
	Cities(ctx context.Context, query string) ([]City, error)
	Points(ctx context.Context, city string) ([]Point, error)
	CreateOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	Track(ctx context.Context, uuid string) (TrackingStatus, error)
}

// New selects the client implementation from configuration.
func New(cfg config.Config) Client {
	if cfg.CdekDemo() {
		return NewDemoClient()
	}
	return NewLiveClient(cfg.CdekBaseURL, cfg.CdekClientID, cfg.CdekClientSecret)
}

// weightGrams resolves the package weight: explicit wins, otherwise 500 g
// per item unit, otherwise a 1 kg default.
func weightGrams(req QuoteRequest) int {
	if req.WeightGrams > 0 {
		return req.WeightGrams
	}
	total := 0
	for _, it := range req.Items {
		total += 500 * it.Quantity
	}
	if total == 0 {
		return 1000
	}
	return total
}

// fallbackQuote is the degraded answer when the provider cannot be
// reached or returns no tariffs for the route.
func fallbackQuote(deliveryType, cause string) Quote {
	cost := 350.0
	name := "Parcel warehouse-warehouse (approximate)"
	if deliveryType == TypeDoor {
		cost = 500.0
		name = "Parcel door-door (approximate)"
	}
	return Quote{
		Success:      false,
		DeliveryCost: cost,
		DeliveryDays: "3-5",
		TariffName:   name,
		Currency:     "RUB",
		Error:        cause,
		Note:         fmt.Sprintf("CDEK API: %s. Showing an approximate average-tariff estimate.", cause),
	}
}

// pickTariff selects the tariff matching the requested delivery type,
// falling back to the first one offered.
func pickTariff(tariffs []Tariff, deliveryType string) Tariff {
	wantCode, wantMode := TariffWarehouseToWarehouse, 2
	if deliveryType == TypeDoor {
		wantCode, wantMode = TariffDoorToDoor, 1
	}
	for _, t := range tariffs {
		if t.TariffCode == wantCode || t.DeliveryMode == wantMode {
			return t
		}
	}
	return tariffs[0]
}
