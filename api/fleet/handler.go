// Package fleet exposes fleet reports over HTTP.
package fleet

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	corefleet "github.com/kilianp07/motofleet/core/fleet"
	"github.com/kilianp07/motofleet/core/history"
	"github.com/kilianp07/motofleet/core/logger"
	"github.com/kilianp07/motofleet/core/model"
	"github.com/kilianp07/motofleet/core/report"
)

// Handler serves the latest report and recomputes period-scoped views from
// the latest collection.
type Handler struct {
	reports report.Store
	builder *report.Builder
	history history.Store
	log     logger.Logger
}

// NewHandler creates the handler. hist may be nil.
func NewHandler(reports report.Store, builder *report.Builder, hist history.Store, log logger.Logger) *Handler {
	return &Handler{reports: reports, builder: builder, history: hist, log: logger.OrNop(log)}
}

// Router returns a router with every route registered.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.Register(r)
	return r
}

// Register adds the routes to r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", h.health).Methods("GET")
	r.HandleFunc("/api/report", h.section(func(rep report.Report) any { return rep })).Methods("GET")
	r.HandleFunc("/api/summary", h.section(func(rep report.Report) any { return rep.Summary() })).Methods("GET")
	r.HandleFunc("/api/franchisees", h.section(func(rep report.Report) any { return rep.Franchisees })).Methods("GET")
	r.HandleFunc("/api/goals", h.section(func(rep report.Report) any { return rep.Goals })).Methods("GET")
	r.HandleFunc("/api/kpis", h.section(func(rep report.Report) any { return rep.KPI })).Methods("GET")
	r.HandleFunc("/api/monthly", h.section(func(rep report.Report) any { return rep.Monthly })).Methods("GET")
	r.HandleFunc("/api/models", h.section(func(rep report.Report) any { return rep.ModelStats })).Methods("GET")
	r.HandleFunc("/api/assets/{plate}/periods", h.assetPeriods).Methods("GET")
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	_, ok := h.reports.Latest()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "ready": ok})
}

// section renders pick(report) for the requested period.
func (h *Handler) section(pick func(report.Report) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, status, err := h.reportFor(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, http.StatusOK, pick(rep))
	}
}

func (h *Handler) assetPeriods(w http.ResponseWriter, r *http.Request) {
	plate := model.NormalizePlate(mux.Vars(r)["plate"])
	rep, ok := h.reports.Latest()
	if !ok {
		http.Error(w, "no report available yet", http.StatusServiceUnavailable)
		return
	}
	a, ok := rep.Analysis(plate)
	if !ok {
		http.Error(w, fmt.Sprintf("no rental periods for %s", plate), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// reportFor returns the latest report, or a fresh one when the request names
// a different period.
func (h *Handler) reportFor(r *http.Request) (report.Report, int, error) {
	latest, ok := h.reports.Latest()
	if !ok {
		return report.Report{}, http.StatusServiceUnavailable, fmt.Errorf("no report available yet")
	}
	p, explicit, err := parsePeriod(r)
	if err != nil {
		return report.Report{}, http.StatusBadRequest, err
	}
	if !explicit || p == latest.Period {
		return latest, http.StatusOK, nil
	}
	c, ok := h.reports.Collection()
	if !ok || h.builder == nil {
		return report.Report{}, http.StatusServiceUnavailable, fmt.Errorf("no collection available yet")
	}
	prev, err := history.Previous(r.Context(), h.history, p)
	if err != nil {
		h.log.Warnf("history lookup for %s failed: %v", p, err)
		prev = nil
	}
	return h.builder.BuildWithPrevious(c, p, prev), http.StatusOK, nil
}

// parsePeriod reads ?period=2024-03 or ?year=2024&month=3. period=all
// selects the unscoped view.
func parsePeriod(r *http.Request) (corefleet.Period, bool, error) {
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("period")); raw != "" {
		p, err := corefleet.ParsePeriod(raw)
		return p, true, err
	}
	ys, ms := q.Get("year"), q.Get("month")
	if ys == "" && ms == "" {
		return corefleet.AllTime, false, nil
	}
	if ys == "" {
		return corefleet.AllTime, false, fmt.Errorf("month requires year")
	}
	y, err := strconv.Atoi(ys)
	if err != nil || y < 1 {
		return corefleet.AllTime, false, fmt.Errorf("invalid year %q", ys)
	}
	p := corefleet.Year(y)
	if ms != "" {
		m, err := strconv.Atoi(ms)
		if err != nil || m < 1 {
			return corefleet.AllTime, false, fmt.Errorf("invalid month %q", ms)
		}
		p = corefleet.Month(y, m)
	}
	return p, true, p.Validate()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
