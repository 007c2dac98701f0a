// Package invest is a thin pass-through to a remote securities/operations
// service. LiveClient proxies requests with bounded timeouts; DemoClient
// serves a fixed instrument list when no remote is configured. A remote
// that answers with HTML instead of JSON also degrades to the demo list.
package invest

import (
	"context"

	"github.com/xplaxcerx/CVB1/internal/config"
)

type Security struct {
	ID           int64   `json:"id"`
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	CurrentPrice float64 `json:"currentPrice"`
}

type SecuritiesResult struct {
	Securities []Security `json:"securities"`
	Count      int        `json:"count"`
	DemoMode   bool       `json:"demoMode,omitempty"`
	Note       string     `json:"note,omitempty"`
}

type CalcRequest struct {
	SecurityID            int64   `json:"securityId"`
	Quantity              int     `json:"quantity"`
	PurchasePricePerShare float64 `json:"purchasePricePerShare"`
	Commission            float64 `json:"commission"`
}

type OperationRequest struct {
	CalcRequest
	ClientEmail string `json:"clientEmail"`
}

type Operation struct {
	ID int64 `json:"id"`
	OperationRequest
	TotalCost float64 `json:"totalCost"`
}

type Calculation struct {
	SecurityID int64   `json:"securityId"`
	Quantity   int     `json:"quantity"`
	ShareCost  float64 `json:"shareCost"`
	Commission float64 `json:"commission"`
	TotalCost  float64 `json:"totalCost"`
}

type TriggerRequest struct {
	OperationID int64   `json:"operationId"`
	TargetPrice float64 `json:"targetPrice"`
	TriggerType string  `json:"triggerType"`
}

type Trigger struct {
	ID int64 `json:"id"`
	TriggerRequest
	Fired bool `json:"fired"`
}

type CheckResult struct {
	Checked int `json:"checked"`
	Fired   int `json:"fired"`
}

type Client interface {
	Securities(ctx context.Context) (SecuritiesResult, error)
	Calculate(ctx context.Context, req CalcRequest) (Calculation, error)
	CreateOperation(ctx context.Context, req OperationRequest) (Operation, error)
	Operations(ctx context.Context) ([]Operation, error)
	CreateTrigger(ctx context.Context, req TriggerRequest) (Trigger, error)
	Triggers(ctx context.Context) ([]Trigger, error)
	CheckTriggers(ctx context.Context) (CheckResult, error)
}

// New selects the client implementation from configuration.
func New(cfg config.Config) Client {
	if cfg.InvestDemo() {
		return NewDemoClient()
	}
	return NewLiveClient(cfg.InvestBaseURL)
}

// demoSecurities is the fallback instrument list served when the remote
// is unavailable or not configured.
var demoSecurities = []Security{
	{ID: 1, Ticker: "AAPL", Name: "Apple Inc.", Price: 170.50, CurrentPrice: 170.50},
	{ID: 2, Ticker: "GOOGL", Name: "Alphabet Inc.", Price: 140.20, CurrentPrice: 140.20},
	{ID: 3, Ticker: "MSFT", Name: "Microsoft Corp.", Price: 380.75, CurrentPrice: 380.75},
	{ID: 4, Ticker: "TSLA", Name: "Tesla Inc.", Price: 245.30, CurrentPrice: 245.30},
	{ID: 5, Ticker: "AMZN", Name: "Amazon.com Inc.", Price: 155.90, CurrentPrice: 155.90},
}
