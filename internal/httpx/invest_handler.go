package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xplaxcerx/CVB1/internal/invest"
)

// InvestHandler proxies the securities service. Like the delivery
// endpoints, upstream failures surface as success:false payloads.
type InvestHandler struct {
	Client invest.Client
}

func (h *InvestHandler) Register(r *chi.Mux) {
	r.Get("/api/invest/securities", h.securities)
	r.Post("/api/invest/calculate", h.calculate)
	r.Get("/api/invest/operations", h.operations)
	r.Post("/api/invest/operations", h.createOperation)
	r.Get("/api/invest/triggers", h.triggers)
	r.Post("/api/invest/triggers", h.createTrigger)
	r.Post("/api/invest/triggers/check", h.checkTriggers)
}

func writeUpstream(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": v})
}

func (h *InvestHandler) securities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	res, err := h.Client.Securities(ctx)
	writeUpstream(w, res, err)
}

func (h *InvestHandler) calculate(w http.ResponseWriter, r *http.Request) {
	var req invest.CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	res, err := h.Client.Calculate(ctx, req)
	writeUpstream(w, res, err)
}

func (h *InvestHandler) createOperation(w http.ResponseWriter, r *http.Request) {
	var req invest.OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	res, err := h.Client.CreateOperation(ctx, req)
	writeUpstream(w, res, err)
}

func (h *InvestHandler) operations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	res, err := h.Client.Operations(ctx)
	writeUpstream(w, res, err)
}

func (h *InvestHandler) createTrigger(w http.ResponseWriter, r *http.Request) {
	var req invest.TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	res, err := h.Client.CreateTrigger(ctx, req)
	writeUpstream(w, res, err)
}

func (h *InvestHandler) triggers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	res, err := h.Client.Triggers(ctx)
	writeUpstream(w, res, err)
}

func (h *InvestHandler) checkTriggers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := upstreamTimeout(r)
	defer cancel()

	res, err := h.Client.CheckTriggers(ctx)
	writeUpstream(w, res, err)
}
