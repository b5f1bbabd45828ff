package importer

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/category"
	txHandler "github.com/MrJamesThe3rd/caixa/internal/http/transaction"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Handler struct {
	importSvc   *importer.Service
	txSvc       *transaction.Service
	categorySvc *category.Service
	matchSvc    *matching.Service
	maxUpload   int64
}

func NewHandler(
	importSvc *importer.Service,
	txSvc *transaction.Service,
	categorySvc *category.Service,
	matchSvc *matching.Service,
	maxUpload int64,
) *Handler {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}

	return &Handler{
		importSvc:   importSvc,
		txSvc:       txSvc,
		categorySvc: categorySvc,
		matchSvc:    matchSvc,
		maxUpload:   maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/preview", h.preview)
	r.Post("/", h.importFile)
	r.Post("/confirm", h.confirmImport)
}

type previewResponse struct {
	Header    []string         `json:"header"`
	Rows      [][]string       `json:"rows"`
	Total     int              `json:"total"`
	Suggested importer.Mapping `json:"suggested_mapping"`
	Encoding  string           `json:"encoding"`
}

type paramsDTO struct {
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	DueDate     string             `json:"due_date"`
	Type        transaction.Type   `json:"type"`
	Status      transaction.Status `json:"status"`
	CategoryID  *uuid.UUID         `json:"category_id,omitempty"`
	Category    string             `json:"category,omitempty"`
}

type conflictDTO struct {
	Incoming paramsDTO          `json:"incoming"`
	Existing txHandler.Response `json:"existing"`
}

type importConflictResponse struct {
	New       []paramsDTO   `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type importSuccessResponse struct {
	Imported     int                  `json:"imported"`
	Matched      int                  `json:"matched"`
	Transactions []txHandler.Response `json:"transactions"`
}

type confirmRequest struct {
	Params []paramsDTO `json:"params"`
}

// upload opens the multipart "file" field and works out its format from the
// file name.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) (*uploaded, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, false
	}

	format, err := importer.FormatOf(fh.Filename)
	if err != nil {
		file.Close()
		http.Error(w, err.Error(), http.StatusBadRequest)

		return nil, false
	}

	return &uploaded{File: file, Format: format, Sheet: r.FormValue("sheet")}, true
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	up, ok := h.upload(w, r)
	if !ok {
		return
	}
	defer up.File.Close()

	p, err := h.importSvc.Preview(up.Format, up.File, up.Sheet)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, previewResponse{
		Header:    p.Header,
		Rows:      p.Rows,
		Total:     p.Total,
		Suggested: p.Suggested,
		Encoding:  string(p.Encoding),
	})
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	up, ok := h.upload(w, r)
	if !ok {
		return
	}
	defer up.File.Close()

	typ := transaction.Type(r.FormValue("type"))
	if !typ.Valid() {
		http.Error(w, "type must be company_revenue, company_expense or partner_expense", http.StatusBadRequest)
		return
	}

	var mapping importer.Mapping
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			http.Error(w, "invalid mapping: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	params, err := h.importSvc.Parse(up.Format, up.File, importer.Options{Mapping: mapping, Type: typ, Sheet: up.Sheet})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.resolveCategories(r, params); err != nil {
		respond.Error(w, r, err)
		return
	}

	matched, err := h.matchSvc.Apply(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]paramsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: txHandler.ToResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported:     len(result.Imported),
		Matched:      matched,
		Transactions: txHandler.ToResponseList(result.Imported),
	})
}

// resolveCategories links rows whose category label names an existing
// category. Unknown labels are kept as plain text.
func (h *Handler) resolveCategories(r *http.Request, params []transaction.CreateParams) error {
	var labelled bool

	for _, p := range params {
		if p.Category != "" {
			labelled = true
			break
		}
	}

	if !labelled {
		return nil
	}

	cats, err := h.categorySvc.List(r.Context())
	if err != nil {
		return err
	}

	byName := make(map[string]*category.Category, len(cats))
	for _, c := range cats {
		byName[strings.ToLower(c.Name)] = c
	}

	for i := range params {
		c, ok := byName[strings.ToLower(strings.TrimSpace(params[i].Category))]
		if !ok {
			continue
		}

		params[i].CategoryID = &c.ID
		params[i].Category = c.Name
	}

	return nil
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if len(req.Params) == 0 {
		http.Error(w, "params must not be empty", http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		due, err := respond.Date(p.DueDate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		cp := transaction.CreateParams{
			Description: p.Description,
			Amount:      p.Amount,
			Type:        p.Type,
			Status:      p.Status,
			CategoryID:  p.CategoryID,
			Category:    p.Category,
		}

		if due != nil {
			cp.DueDate = *due
		}

		params = append(params, cp)
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported:     len(txs),
		Transactions: txHandler.ToResponseList(txs),
	})
}
