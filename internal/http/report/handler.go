package report

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Handler struct {
	transactions *transaction.Service
	categories   *category.Service
	tax          report.TaxConfig
	now          func() time.Time
}

// NewHandler serves dashboard and DRE reports. tax holds the defaults a request
// may override through query parameters.
func NewHandler(transactions *transaction.Service, categories *category.Service, tax report.TaxConfig) *Handler {
	return &Handler{transactions: transactions, categories: categories, tax: tax, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/dre", h.dre)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	rng, err := respond.Range(r, now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g := report.Daily
	if s := r.URL.Query().Get("granularity"); s != "" {
		g = report.Granularity(s)
		if !g.Valid() {
			http.Error(w, "granularity must be daily or monthly", http.StatusBadRequest)
			return
		}
	}

	if err := report.CheckSpan(rng, g); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Unfiltered: notifications look past the selected range.
	txs, err := h.transactions.List(r.Context(), transaction.ListFilter{})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	cats, err := h.categories.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	d := report.BuildDashboard(txs, cats, rng, g, now)

	respond.JSON(w, http.StatusOK, toDashboardResponse(d))
}

func (h *Handler) dre(w http.ResponseWriter, r *http.Request) {
	rng, err := respond.Range(r, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := taxOverrides(r, h.tax)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.transactions.List(r.Context(), transaction.ListFilter{StartDate: &rng.Start, EndDate: &rng.End})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDREResponse(rng, report.ComputeDRE(txs, rng, cfg)))
}

// taxOverrides applies query parameters on top of the configured tax defaults.
func taxOverrides(r *http.Request, cfg report.TaxConfig) (report.TaxConfig, error) {
	q := r.URL.Query()

	if s := q.Get("regime"); s != "" {
		cfg.Regime = report.Regime(s)
	}

	rates := map[string]*decimal.Decimal{
		"simplified_rate": &cfg.SimplifiedRate,
		"pis_cofins":      &cfg.PISCOFINS,
		"iss":             &cfg.ISS,
		"presumed_base":   &cfg.PresumedBase,
		"irpj":            &cfg.IRPJ,
		"csll":            &cfg.CSLL,
	}

	for name, dst := range rates {
		s := q.Get(name)
		if s == "" {
			continue
		}

		v, err := decimal.NewFromString(s)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %q", name, s)
		}

		*dst = v
	}

	if s := q.Get("transition"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return cfg, fmt.Errorf("invalid transition: %q", s)
		}

		cfg.Transition = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
