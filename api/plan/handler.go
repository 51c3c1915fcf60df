// Package plan exposes plan generation, readiness and history over HTTP.
package plan

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/depotplan/core/logger"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/planlog"
	"github.com/kilianp07/depotplan/core/planner"
	"github.com/kilianp07/depotplan/core/readiness"
	infralog "github.com/kilianp07/depotplan/infra/logger"
	"github.com/kilianp07/depotplan/pkg/export"
)

// Planner is the subset of *planner.Planner used by the handlers.
type Planner interface {
	GeneratePlan(ctx context.Context, date time.Time) (planner.Plan, error)
	LastPlan() (planner.Plan, bool)
	RefreshReadiness(ctx context.Context) ([]model.ReadinessRecord, error)
	ReadinessStore() readiness.Store
	JobCards(ctx context.Context, vehicleID string) ([]model.JobCard, error)
	Location() *time.Location
}

// Options configures the router.
type Options struct {
	// Token, when set, is required as "Bearer <token>" on every request.
	Token   string
	History planlog.LogStore
	Logger  logger.Logger
}

type handler struct {
	p       Planner
	history planlog.LogStore
	log     logger.Logger
}

// NewRouter mounts the API routes under /api.
func NewRouter(p Planner, opts Options) chi.Router {
	h := &handler{p: p, history: opts.History, log: infralog.OrNop(opts.Logger)}
	if h.history == nil {
		h.history = planlog.NopStore{}
	}
	r := chi.NewRouter()
	r.Use(requireToken(opts.Token))
	r.Route("/api", func(r chi.Router) {
		r.Post("/plan", h.generate)
		r.Get("/plan", h.lastPlan)
		r.Get("/plan/trips.csv", h.tripsCSV)
		r.Get("/readiness", h.readiness)
		r.Post("/readiness/refresh", h.refresh)
		r.Get("/vehicles/{id}/jobcards", h.jobCards)
		r.Get("/history", h.historyQuery)
	})
	return r
}

func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("Authorization"))
			if subtle.ConstantTimeCompare(got, []byte("Bearer "+token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	date, err := planner.ParseDate(r.URL.Query().Get("date"), h.p.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	plan, err := h.p.GeneratePlan(r.Context(), date)
	switch {
	case errors.Is(err, planner.ErrPlanInProgress):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.log.Errorf("generate plan: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *handler) lastPlan(w http.ResponseWriter, _ *http.Request) {
	plan, ok := h.p.LastPlan()
	if !ok {
		writeError(w, http.StatusNotFound, "no plan generated yet")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *handler) tripsCSV(w http.ResponseWriter, _ *http.Request) {
	plan, ok := h.p.LastPlan()
	if !ok {
		writeError(w, http.StatusNotFound, "no plan generated yet")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trips-`+plan.Date+`.csv"`)
	if err := export.WriteCSV(w, plan.Trips); err != nil {
		h.log.Errorf("write csv: %v", err)
	}
}

func (h *handler) readiness(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f readiness.Filter
	if s := q.Get("status"); s != "" {
		st, ok := model.ParseStatus(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown status "+strconv.Quote(s))
			return
		}
		f.Status = st
	}
	var err error
	if f.Ready, err = boolParam(q.Get("ready")); err != nil {
		writeError(w, http.StatusBadRequest, "ready: "+err.Error())
		return
	}
	if f.Scheduled, err = boolParam(q.Get("scheduled")); err != nil {
		writeError(w, http.StatusBadRequest, "scheduled: "+err.Error())
		return
	}
	store := h.p.ReadinessStore()
	writeJSON(w, http.StatusOK, readinessResponse(store.List(f), store.UpdatedAt()))
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	recs, err := h.p.RefreshReadiness(r.Context())
	if err != nil {
		h.log.Errorf("refresh readiness: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, readinessResponse(recs, h.p.ReadinessStore().UpdatedAt()))
}

func (h *handler) jobCards(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cards, err := h.p.JobCards(r.Context(), id)
	switch {
	case errors.Is(err, planner.ErrNoJobCardSource):
		writeError(w, http.StatusNotImplemented, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *handler) historyQuery(w http.ResponseWriter, r *http.Request) {
	q := planlog.LogQuery{
		VehicleID: r.URL.Query().Get("vehicle_id"),
		Date:      r.URL.Query().Get("date"),
	}
	if s := r.URL.Query().Get("start"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.Start = t
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.End = t
		}
	}
	recs, err := h.history.Query(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []planlog.LogRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

type readinessBody struct {
	UpdatedAt time.Time               `json:"updated_at"`
	Counts    readiness.Counts        `json:"counts"`
	Vehicles  []model.ReadinessRecord `json:"vehicles"`
}

func readinessResponse(recs []model.ReadinessRecord, at time.Time) readinessBody {
	if recs == nil {
		recs = []model.ReadinessRecord{}
	}
	return readinessBody{UpdatedAt: at, Counts: readiness.Count(recs), Vehicles: recs}
}

func boolParam(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
