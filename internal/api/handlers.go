package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"opening_ai/internal/opening"
)

// Server exposes the simulator over HTTP. Each request gets its own
// Simulator so traces never mix.
type Server struct {
	Rules       opening.Rules
	Chain       opening.ChainOptions
	VerifyTicks int
}

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/simulate", s.Simulate)
		r.Post("/search", s.Search)
		r.Post("/optimize", s.Optimize)
	})
	return r
}

type SimulateRequest struct {
	Attacks   opening.Opening `json:"attacks"`
	MaxTicks  int             `json:"max_ticks"`
	Verbosity int             `json:"verbosity"`
}

type SimulateResponse struct {
	Result opening.Result `json:"result"`
	Log    []string       `json:"log,omitempty"`
}

func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.MaxTicks == 0 {
		req.MaxTicks = s.VerifyTicks
	}
	rec := &opening.Recorder{}
	sim := opening.NewSimulator(s.Rules, opening.WithTrace(rec.Emit, req.Verbosity))
	res, err := sim.Run(req.Attacks.Sorted(), req.MaxTicks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SimulateResponse{Result: res, Log: rec.Lines()})
}

type SearchRequest struct {
	Opening opening.Opening `json:"opening"`
	Tick    int             `json:"tick"`
	Horizon int             `json:"horizon"`
}

type SearchResponse struct {
	Feasible bool    `json:"feasible"`
	Step     int     `json:"step,omitempty"`
	Percent  float64 `json:"percent,omitempty"`
}

func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decode(w, r, &req) {
		return
	}
	sim := opening.NewSimulator(s.Rules)
	step, ok, err := sim.FindMinAttack(req.Opening.Sorted(), req.Tick, req.Horizon)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := SearchResponse{Feasible: ok}
	if ok {
		resp.Step = step
		resp.Percent = opening.StepPercent(step, s.Rules.SearchResolution)
	}
	writeJSON(w, http.StatusOK, resp)
}

type OptimizeRequest struct {
	Base          opening.Opening `json:"base"`
	DecisionTicks []int           `json:"decision_ticks"`
	VerifyTicks   int             `json:"verify_ticks"`
}

type OptimizeResponse struct {
	Chain  opening.ChainResult `json:"chain"`
	Verify *opening.Result     `json:"verify,omitempty"`
	Log    []string            `json:"log,omitempty"`
}

// Optimize runs the chain and, when it succeeds, replays the optimized
// opening to the verification horizon with an attack-level trace.
func (s *Server) Optimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.VerifyTicks == 0 {
		req.VerifyTicks = s.VerifyTicks
	}
	chain, err := opening.NewSimulator(s.Rules).OptimizeChain(req.Base, req.DecisionTicks, s.Chain)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := OptimizeResponse{Chain: chain}
	if chain.OK {
		rec := &opening.Recorder{}
		res, err := opening.NewSimulator(s.Rules, opening.WithTrace(rec.Emit, 1)).Run(chain.Opening, req.VerifyTicks)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Verify = &res
		resp.Log = rec.Lines()
	}
	writeJSON(w, http.StatusOK, resp)
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, opening.ErrBadAttack),
		errors.Is(err, opening.ErrUnsorted),
		errors.Is(err, opening.ErrBadHorizon),
		errors.Is(err, opening.ErrNoDecisionTicks):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(opening.MarshalPretty(v))
}
