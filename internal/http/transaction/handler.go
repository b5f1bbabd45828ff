package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
	now func() time.Time
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/ledger", h.ledger)
	r.Post("/batch-delete", h.deleteBatch)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	DueDate     string             `json:"due_date"`
	Type        transaction.Type   `json:"type"`
	Status      transaction.Status `json:"status"`
	CategoryID  *uuid.UUID         `json:"category_id"`
	Attachment  string             `json:"attachment_url"`
	Recurring   bool               `json:"recurring"`
	Count       *int               `json:"count"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	due, err := respond.Date(req.DueDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.CreateParams{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Status:      req.Status,
		CategoryID:  req.CategoryID,
		Attachment:  req.Attachment,
	}

	if due != nil {
		params.DueDate = *due
	}

	if !req.Recurring {
		tx, err := h.svc.Create(r.Context(), params)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusCreated, ToResponse(tx))

		return
	}

	count := transaction.MinOccurrences
	if req.Count != nil {
		count = *req.Count
	}

	txs, err := h.svc.CreateRecurring(r.Context(), transaction.RecurringParams{CreateParams: params, Count: count})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, ToResponseList(txs))
}

func listFilter(r *http.Request) (transaction.ListFilter, error) {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := q.Get("series_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, err
		}

		filter.SeriesID = &id
	}

	start, err := respond.Date(q.Get("start_date"))
	if err != nil {
		return filter, err
	}

	end, err := respond.Date(q.Get("end_date"))
	if err != nil {
		return filter, err
	}

	filter.StartDate, filter.EndDate = start, end

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponseList(txs))
}

// ledger lists company expenses with partner withdrawals folded into monthly
// summary rows.
func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	rng, err := respond.Range(r, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), transaction.ListFilter{StartDate: &rng.Start, EndDate: &rng.End})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toLedgerResponse(report.CompanyLedger(txs)))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type deleteBatchRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type deleteBatchResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *Handler) deleteBatch(w http.ResponseWriter, r *http.Request) {
	var req deleteBatchRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	n, err := h.svc.DeleteBatch(r.Context(), req.IDs)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, deleteBatchResponse{Deleted: n})
}

type updateTransactionRequest struct {
	Description   *string           `json:"description,omitempty"`
	Amount        *decimal.Decimal  `json:"amount,omitempty"`
	Type          *transaction.Type `json:"type,omitempty"`
	CategoryID    *uuid.UUID        `json:"category_id,omitempty"`
	ClearCategory bool              `json:"clear_category,omitempty"`
	DueDate       *string           `json:"due_date,omitempty"`
	ApplyToAll    bool              `json:"apply_to_all,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := transaction.UpdateParams{
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		ApplyToAll:    req.ApplyToAll,
	}

	if req.DueDate != nil {
		due, err := respond.Date(*req.DueDate)
		if err != nil || due == nil {
			http.Error(w, "invalid due_date", http.StatusBadRequest)
			return
		}

		params.DueDate = due
	}

	res, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, updateResponse{Transaction: ToResponse(res.Transaction), Affected: res.Affected})
}

type updateStatusRequest struct {
	Status transaction.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
