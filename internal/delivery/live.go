package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// LiveClient talks to the real CDEK v2 API with the client-credentials
// OAuth flow. The token is cached until one minute before expiry.
type LiveClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client

	// Origin warehouse, Moscow.
	fromCode int

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewLiveClient(baseURL, clientID, clientSecret string) *LiveClient {
	return &LiveClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 15 * time.Second},
		fromCode:     44,
	}
}

func (c *LiveClient) authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("cdek auth: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cdek auth: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("cdek auth: %w", err)
	}
	c.token = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

func (c *LiveClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.authenticate(ctx)
	if err != nil {
		return err
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cdek %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *LiveClient) postJSON(ctx context.Context, path string, in, out any) error {
	token, err := c.authenticate(ctx)
	if err != nil {
		return err
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cdek %s: status %d: %s", path, resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *LiveClient) Cities(ctx context.Context, query string) ([]City, error) {
	var raw []struct {
		Code    int    `json:"code"`
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
	}
	q := url.Values{"city": {query}, "size": {"10"}}
	if err := c.getJSON(ctx, "/location/cities", q, &raw); err != nil {
		return nil, err
	}
	out := make([]City, 0, len(raw))
	for _, r := range raw {
		out = append(out, City{Code: r.Code, City: r.City, Region: r.Region, Country: r.Country})
	}
	return out, nil
}

func (c *LiveClient) Quote(ctx context.Context, req QuoteRequest) Quote {
	cityCode := req.CityCode
	if cityCode == 0 && req.City != "" {
		cities, err := c.Cities(ctx, req.City)
		if err != nil {
			return fallbackQuote(req.DeliveryType, err.Error())
		}
		if len(cities) == 0 {
			return fallbackQuote(req.DeliveryType, fmt.Sprintf("city %q not found", req.City))
		}
		cityCode = cities[0].Code
	}
	if cityCode == 0 {
		return fallbackQuote(req.DeliveryType, "destination city is required")
	}

	body := map[string]any{
		"type":          1,
		"currency":      1,
		"lang":          "rus",
		"from_location": map[string]any{"code": c.fromCode},
		"to_location":   map[string]any{"code": cityCode},
		"packages": []map[string]any{{
			"weight": weightGrams(req),
			"length": 30,
			"width":  20,
			"height": 10,
		}},
	}

	var resp struct {
		TariffCodes []struct {
			TariffCode        int     `json:"tariff_code"`
			TariffName        string  `json:"tariff_name"`
			TariffDescription string  `json:"tariff_description"`
			DeliveryMode      int     `json:"delivery_mode"`
			DeliverySum       float64 `json:"delivery_sum"`
			PeriodMin         int     `json:"period_min"`
			PeriodMax         int     `json:"period_max"`
		} `json:"tariff_codes"`
	}
	if err := c.postJSON(ctx, "/calculator/tarifflist", body, &resp); err != nil {
		return fallbackQuote(req.DeliveryType, err.Error())
	}
	if len(resp.TariffCodes) == 0 {
		return fallbackQuote(req.DeliveryType, "no tariffs available for this route")
	}

	tariffs := make([]Tariff, 0, len(resp.TariffCodes))
	for _, t := range resp.TariffCodes {
		tariffs = append(tariffs, Tariff{
			TariffCode:        t.TariffCode,
			TariffName:        t.TariffName,
			TariffDescription: t.TariffDescription,
			DeliveryMode:      t.DeliveryMode,
			DeliveryCost:      t.DeliverySum,
			DeliveryDays:      fmt.Sprintf("%d-%d", t.PeriodMin, t.PeriodMax),
			Currency:          "RUB",
		})
	}
	sel := pickTariff(tariffs, req.DeliveryType)

	return Quote{
		Success:           true,
		DeliveryCost:      sel.DeliveryCost,
		DeliveryDays:      sel.DeliveryDays,
		TariffCode:        sel.TariffCode,
		TariffName:        sel.TariffName,
		TariffDescription: sel.TariffDescription,
		Currency:          "RUB",
		CityCode:          cityCode,
		AllTariffs:        tariffs,
	}
}

func (c *LiveClient) Points(ctx context.Context, city string) ([]Point, error) {
	var raw []struct {
		Code     string `json:"code"`
		Name     string `json:"name"`
		WorkTime string `json:"work_time"`
		Type     string `json:"type"`
		Location struct {
			AddressFull string `json:"address_full"`
			City        string `json:"city"`
		} `json:"location"`
	}
	q := url.Values{"city": {city}, "type": {"PVZ"}}
	if err := c.getJSON(ctx, "/deliverypoints", q, &raw); err != nil {
		return nil, err
	}
	out := make([]Point, 0, len(raw))
	for _, r := range raw {
		typ := "Parcel locker"
		if r.Type == "PVZ" {
			typ = "Pickup point"
		}
		out = append(out, Point{
			Code:     r.Code,
			Name:     r.Name,
			Address:  r.Location.AddressFull,
			City:     r.Location.City,
			WorkTime: r.WorkTime,
			Type:     typ,
		})
	}
	return out, nil
}

func (c *LiveClient) CreateOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	tariff := req.TariffCode
	if tariff == 0 {
		tariff = TariffDoorToDoor
	}
	weight := req.WeightGrams
	if weight == 0 {
		weight = 1000
	}
	body := map[string]any{
		"type":        1,
		"number":      fmt.Sprintf("ORDER-%d-%d", req.OrderID, time.Now().Unix()),
		"tariff_code": tariff,
		"comment":     "Electronics store order",
		"sender": map[string]any{
			"name":   "Electronics Store",
			"phones": []map[string]string{{"number": "+74951234567"}},
		},
		"recipient": map[string]any{
			"name":   req.ClientName,
			"phones": []map[string]string{{"number": req.ClientPhone}},
			"email":  req.ClientEmail,
		},
		"from_location": map[string]any{"code": c.fromCode},
		"to_location": map[string]any{
			"code":    req.CityCode,
			"city":    req.City,
			"address": req.Address,
		},
		"packages": []map[string]any{{
			"number": fmt.Sprintf("PKG-%d", req.OrderID),
			"weight": weight,
			"length": 30,
			"width":  20,
			"height": 10,
		}},
	}

	var resp struct {
		Entity struct {
			UUID       string `json:"uuid"`
			CdekNumber string `json:"cdek_number"`
		} `json:"entity"`
	}
	if err := c.postJSON(ctx, "/orders", body, &resp); err != nil {
		return OrderResult{}, err
	}
	return OrderResult{
		UUID:           resp.Entity.UUID,
		TrackingNumber: resp.Entity.CdekNumber,
		TrackingURL:    trackingURL(resp.Entity.CdekNumber),
	}, nil
}

func (c *LiveClient) Track(ctx context.Context, uuid string) (TrackingStatus, error) {
	var resp struct {
		Entity struct {
			StatusCode string `json:"status_code"`
			CdekNumber string `json:"cdek_number"`
			Location   struct {
				City string `json:"city"`
			} `json:"location"`
		} `json:"entity"`
	}
	if err := c.getJSON(ctx, "/orders/"+url.PathEscape(uuid), nil, &resp); err != nil {
		return TrackingStatus{}, err
	}
	return TrackingStatus{
		Status:         resp.Entity.StatusCode,
		Location:       resp.Entity.Location.City,
		TrackingNumber: resp.Entity.CdekNumber,
		TrackingURL:    trackingURL(resp.Entity.CdekNumber),
	}, nil
}

func trackingURL(number string) string {
	if number == "" {
		return ""
	}
	return "https://www.cdek.ru/ru/tracking?order_id=" + url.QueryEscape(number)
}
