// Package server exposes the pricing engine over HTTP for callers that
// prefer a process boundary to a Go API.
//
// Endpoints:
//   - POST /price          -> call/put prices and d1/d2 for one option
//   - POST /greeks         -> the seven Greeks for one option
//   - POST /strategy/value -> aggregate value/delta/Greeks for a spec
//   - GET  /health         -> liveness probe
//
// Handlers build per-request models and strategies, so concurrent
// requests share no mutable state.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/contactkeval/optistrat/internal/logger"
	"github.com/contactkeval/optistrat/internal/pricing"
	"github.com/contactkeval/optistrat/internal/strategy"
)

// ModelRequest carries the five Black-Scholes inputs.
type ModelRequest struct {
	Strike     float64 `json:"strike"`
	Volatility float64 `json:"volatility"`
	Rate       float64 `json:"rate"`
	Maturity   float64 `json:"maturity"`
	Spot       float64 `json:"spot"`
}

// PriceResponse is the body returned by POST /price.
type PriceResponse struct {
	Call float64 `json:"call"`
	Put  float64 `json:"put"`
	D1   float64 `json:"d1"`
	D2   float64 `json:"d2"`
}

// GreeksResponse is the body returned by POST /greeks.
type GreeksResponse struct {
	CallDelta float64 `json:"call_delta"`
	PutDelta  float64 `json:"put_delta"`
	Gamma     float64 `json:"gamma"`
	Vega      float64 `json:"vega"`
	CallTheta float64 `json:"call_theta"`
	PutTheta  float64 `json:"put_theta"`
	CallRho   float64 `json:"call_rho"`
	PutRho    float64 `json:"put_rho"`
}

// StrategyResponse is the body returned by POST /strategy/value.
type StrategyResponse struct {
	Name       string               `json:"name"`
	TotalValue float64              `json:"total_value"`
	TotalDelta float64              `json:"total_delta"`
	Greeks     strategy.GreekTotals `json:"greeks"`
	Positions  []strategy.Position  `json:"positions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the HTTP routing table.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/price", handlePrice).Methods(http.MethodPost)
	r.HandleFunc("/greeks", handleGreeks).Methods(http.MethodPost)
	r.HandleFunc("/strategy/value", handleStrategyValue).Methods(http.MethodPost)
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handlePrice(w http.ResponseWriter, r *http.Request) {
	var req ModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := pricing.New(req.Strike, req.Volatility, req.Rate, req.Maturity, req.Spot)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var resp PriceResponse
	err = fill([]field{
		{&resp.D1, m.D1},
		{&resp.D2, m.D2},
		{&resp.Call, m.CallPrice},
		{&resp.Put, m.PutPrice},
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// field pairs a response slot with the query that produces it.
type field struct {
	dst *float64
	get func() (float64, error)
}

// fill evaluates queries in order, stopping at the first failure.
func fill(fields []field) error {
	for _, f := range fields {
		v, err := f.get()
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func handleGreeks(w http.ResponseWriter, r *http.Request) {
	var req ModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := pricing.New(req.Strike, req.Volatility, req.Rate, req.Maturity, req.Spot)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	g := pricing.NewGreeks(m)

	var resp GreeksResponse
	err = fill([]field{
		{&resp.CallDelta, g.CallDelta},
		{&resp.PutDelta, g.PutDelta},
		{&resp.Gamma, g.Gamma},
		{&resp.Vega, g.Vega},
		{&resp.CallTheta, g.CallTheta},
		{&resp.PutTheta, g.PutTheta},
		{&resp.CallRho, g.CallRho},
		{&resp.PutRho, g.PutRho},
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleStrategyValue(w http.ResponseWriter, r *http.Request) {
	var spec strategy.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s, err := spec.Build()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := StrategyResponse{Name: s.Name(), Positions: s.Positions()}
	err = fill([]field{
		{&resp.TotalValue, s.TotalValue},
		{&resp.TotalDelta, s.TotalDelta},
	})
	if err == nil {
		resp.Greeks, err = s.TotalGreeks()
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeDomainError maps typed pricing and strategy failures onto 422,
// everything else onto 500.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	for _, kind := range []error{
		pricing.ErrInvalidParameter,
		pricing.ErrDegenerateInput,
		pricing.ErrNumerical,
		strategy.ErrStrategyConstraint,
		strategy.ErrInvalidPosition,
		strategy.ErrInvalidStrikeExpression,
		strategy.ErrLegIndexOutOfRange,
	} {
		if errors.Is(err, kind) {
			status = http.StatusUnprocessableEntity
			break
		}
	}
	writeError(w, status, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger.Debugf("request failed status=%d err=%v", status, err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
