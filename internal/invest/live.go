package invest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type LiveClient struct {
	baseURL string
	http    *http.Client
}

func NewLiveClient(baseURL string) *LiveClient {
	return &LiveClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *LiveClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("invest %s: status %d: %s", path, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Securities lists the remote instruments. An HTML (non-JSON) payload
// means the remote is down behind a web server error page; the fixed demo
// list is returned instead of an error so the caller still renders.
func (c *LiveClient) Securities(ctx context.Context) (SecuritiesResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/securities", nil)
	if err != nil {
		return SecuritiesResult{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SecuritiesResult{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SecuritiesResult{}, err
	}
	if looksLikeHTML(raw) {
		return SecuritiesResult{
			Securities: demoSecurities,
			Count:      len(demoSecurities),
			DemoMode:   true,
			Note:       "Securities API is unavailable, showing demo data.",
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return SecuritiesResult{}, fmt.Errorf("invest /securities: status %d", resp.StatusCode)
	}

	var securities []Security
	if err := json.Unmarshal(raw, &securities); err != nil {
		// Some deployments wrap the list in an object.
		var wrapped struct {
			Securities []Security `json:"securities"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil || wrapped.Securities == nil {
			return SecuritiesResult{}, fmt.Errorf("invest /securities: %w", err)
		}
		securities = wrapped.Securities
	}
	return SecuritiesResult{Securities: securities, Count: len(securities)}, nil
}

func looksLikeHTML(b []byte) bool {
	s := strings.TrimSpace(string(b))
	return strings.HasPrefix(s, "<") || strings.Contains(s, "<!DOCTYPE html>")
}

func (c *LiveClient) Calculate(ctx context.Context, req CalcRequest) (Calculation, error) {
	var out Calculation
	err := c.do(ctx, http.MethodPost, "/calculate", req, &out)
	return out, err
}

func (c *LiveClient) CreateOperation(ctx context.Context, req OperationRequest) (Operation, error) {
	var out Operation
	err := c.do(ctx, http.MethodPost, "/operations", req, &out)
	return out, err
}

func (c *LiveClient) Operations(ctx context.Context) ([]Operation, error) {
	var out []Operation
	err := c.do(ctx, http.MethodGet, "/operations", nil, &out)
	return out, err
}

func (c *LiveClient) CreateTrigger(ctx context.Context, req TriggerRequest) (Trigger, error) {
	if req.TriggerType == "" {
		req.TriggerType = "BELOW"
	}
	var out Trigger
	err := c.do(ctx, http.MethodPost, "/triggers", req, &out)
	return out, err
}

func (c *LiveClient) Triggers(ctx context.Context) ([]Trigger, error) {
	var out []Trigger
	err := c.do(ctx, http.MethodGet, "/triggers", nil, &out)
	return out, err
}

func (c *LiveClient) CheckTriggers(ctx context.Context) (CheckResult, error) {
	var out CheckResult
	err := c.do(ctx, http.MethodPost, "/triggers/check", struct{}{}, &out)
	return out, err
}
