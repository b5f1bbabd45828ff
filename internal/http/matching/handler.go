package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type ruleResponse struct {
	ID         uuid.UUID `json:"id"`
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"category_id"`
	Category   string    `json:"category"`
}

type suggestResponse struct {
	Description string        `json:"description"`
	Rule        *ruleResponse `json:"rule"`
}

func toResponse(r *matching.Rule) *ruleResponse {
	if r == nil {
		return nil
	}

	return &ruleResponse{ID: r.ID, Pattern: r.Pattern, CategoryID: r.CategoryID, Category: r.Category}
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		http.Error(w, "description query parameter is required", http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Suggest(r.Context(), desc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Description: desc, Rule: toResponse(rule)})
}

type learnRequest struct {
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"category_id"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if req.CategoryID == uuid.Nil {
		http.Error(w, "category_id is required", http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Learn(r.Context(), req.Pattern, req.CategoryID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(rule))
}
