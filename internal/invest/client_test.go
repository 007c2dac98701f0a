package invest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDemoCalculate(t *testing.T) {
	c := NewDemoClient()
	calc, err := c.Calculate(context.Background(), CalcRequest{
		SecurityID:            1,
		Quantity:              10,
		PurchasePricePerShare: 170.50,
		Commission:            15,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if calc.TotalCost != 1720 {
		t.Errorf("total: want 1720, got %v", calc.TotalCost)
	}

	if _, err := c.Calculate(context.Background(), CalcRequest{Quantity: 0}); err == nil {
		t.Error("zero quantity must be rejected")
	}
}

func TestDemoOperationsRoundTrip(t *testing.T) {
	c := NewDemoClient()
	op, err := c.CreateOperation(context.Background(), OperationRequest{
		CalcRequest: CalcRequest{SecurityID: 2, Quantity: 3, PurchasePricePerShare: 100},
		ClientEmail: "ivan@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if op.ID == 0 || op.TotalCost != 300 {
		t.Errorf("operation: %+v", op)
	}

	ops, err := c.Operations(context.Background())
	if err != nil || len(ops) != 1 || ops[0].ID != op.ID {
		t.Errorf("list: %v err %v", ops, err)
	}

	tr, err := c.CreateTrigger(context.Background(), TriggerRequest{OperationID: op.ID, TargetPrice: 90})
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if tr.TriggerType != "BELOW" {
		t.Errorf("default trigger type: %q", tr.TriggerType)
	}
	res, err := c.CheckTriggers(context.Background())
	if err != nil || res.Checked != 1 {
		t.Errorf("check: %+v err %v", res, err)
	}
}

func TestLiveSecurities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/securities" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode([]Security{
			{ID: 1, Ticker: "AAPL", Name: "Apple Inc.", Price: 170.50, CurrentPrice: 171},
		})
	}))
	defer srv.Close()

	c := NewLiveClient(srv.URL)
	res, err := c.Securities(context.Background())
	if err != nil {
		t.Fatalf("securities: %v", err)
	}
	if res.DemoMode || res.Count != 1 || res.Securities[0].Ticker != "AAPL" {
		t.Errorf("result: %+v", res)
	}
}

func TestLiveSecuritiesHTMLFallsBackToDemo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>Bad Gateway</body></html>"))
	}))
	defer srv.Close()

	c := NewLiveClient(srv.URL)
	res, err := c.Securities(context.Background())
	if err != nil {
		t.Fatalf("securities: %v", err)
	}
	if !res.DemoMode {
		t.Fatal("HTML payload must switch to demo data")
	}
	if res.Count != 5 || res.Securities[0].Ticker != "AAPL" {
		t.Errorf("demo list: %+v", res)
	}
}

func TestLiveSecuritiesWrappedList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"securities": []Security{{ID: 7, Ticker: "TSLA"}},
		})
	}))
	defer srv.Close()

	c := NewLiveClient(srv.URL)
	res, err := c.Securities(context.Background())
	if err != nil {
		t.Fatalf("securities: %v", err)
	}
	if res.Count != 1 || res.Securities[0].Ticker != "TSLA" {
		t.Errorf("wrapped list: %+v", res)
	}
}

func TestLiveCalculatePassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calculate" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req CalcRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(Calculation{
			SecurityID: req.SecurityID,
			Quantity:   req.Quantity,
			TotalCost:  float64(req.Quantity) * req.PurchasePricePerShare,
		})
	}))
	defer srv.Close()

	c := NewLiveClient(srv.URL)
	calc, err := c.Calculate(context.Background(), CalcRequest{SecurityID: 3, Quantity: 2, PurchasePricePerShare: 50})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if calc.TotalCost != 100 {
		t.Errorf("total: %v", calc.TotalCost)
	}
}
