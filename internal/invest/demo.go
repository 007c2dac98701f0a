package invest

import (
	"context"
	"fmt"
	"sync"
)

// DemoClient serves the canned instrument list and keeps operations and
// triggers in memory, so the endpoints behave end to end without a remote.
type DemoClient struct {
	mu         sync.Mutex
	operations []Operation
	triggers   []Trigger
	nextID     int64
}

func NewDemoClient() *DemoClient { return &DemoClient{nextID: 1} }

func (c *DemoClient) Securities(_ context.Context) (SecuritiesResult, error) {
	return SecuritiesResult{
		Securities: demoSecurities,
		Count:      len(demoSecurities),
		DemoMode:   true,
		Note:       "Demo data. Configure INVEST_BASE_URL for the live service.",
	}, nil
}

func (c *DemoClient) Calculate(_ context.Context, req CalcRequest) (Calculation, error) {
	if req.Quantity < 1 {
		return Calculation{}, fmt.Errorf("quantity must be at least 1")
	}
	shareCost := req.PurchasePricePerShare * float64(req.Quantity)
	return Calculation{
		SecurityID: req.SecurityID,
		Quantity:   req.Quantity,
		ShareCost:  shareCost,
		Commission: req.Commission,
		TotalCost:  shareCost + req.Commission,
	}, nil
}

func (c *DemoClient) CreateOperation(ctx context.Context, req OperationRequest) (Operation, error) {
	calc, err := c.Calculate(ctx, req.CalcRequest)
	if err != nil {
		return Operation{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	op := Operation{ID: c.nextID, OperationRequest: req, TotalCost: calc.TotalCost}
	c.nextID++
	c.operations = append(c.operations, op)
	return op, nil
}

func (c *DemoClient) Operations(_ context.Context) ([]Operation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Operation, len(c.operations))
	copy(out, c.operations)
	return out, nil
}

func (c *DemoClient) CreateTrigger(_ context.Context, req TriggerRequest) (Trigger, error) {
	if req.TriggerType == "" {
		req.TriggerType = "BELOW"
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	tr := Trigger{ID: c.nextID, TriggerRequest: req}
	c.nextID++
	c.triggers = append(c.triggers, tr)
	return tr, nil
}

func (c *DemoClient) Triggers(_ context.Context) ([]Trigger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Trigger, len(c.triggers))
	copy(out, c.triggers)
	return out, nil
}

func (c *DemoClient) CheckTriggers(_ context.Context) (CheckResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CheckResult{Checked: len(c.triggers)}, nil
}
