package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Response struct {
	ID          uuid.UUID          `json:"id"`
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	DueDate     string             `json:"due_date"`
	Type        transaction.Type   `json:"type"`
	Status      transaction.Status `json:"status"`
	CategoryID  *uuid.UUID         `json:"category_id,omitempty"`
	Category    string             `json:"category,omitempty"`
	SeriesID    *uuid.UUID         `json:"series_id,omitempty"`
	Attachment  string             `json:"attachment_url,omitempty"`
	PaidAt      *string            `json:"paid_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
}

func ToResponse(tx *transaction.Transaction) Response {
	resp := Response{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		DueDate:     tx.DueDate.Format(time.DateOnly),
		Type:        tx.Type,
		Status:      tx.Status,
		CategoryID:  tx.CategoryID,
		Category:    tx.Category,
		SeriesID:    tx.SeriesID,
		Attachment:  tx.Attachment,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}

	if tx.PaidAt != nil {
		resp.PaidAt = new(tx.PaidAt.Format(time.DateOnly))
	}

	return resp
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}

type updateResponse struct {
	Transaction Response `json:"transaction"`
	Affected    int      `json:"affected"`
}

type ledgerRowResponse struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	DueDate     string             `json:"due_date"`
	Status      transaction.Status `json:"status"`
	Category    string             `json:"category,omitempty"`
	Summary     bool               `json:"summary"`
	Count       int                `json:"count"`
}

func toLedgerResponse(rows []report.LedgerRow) []ledgerRowResponse {
	resp := make([]ledgerRowResponse, len(rows))
	for i, row := range rows {
		resp[i] = ledgerRowResponse{
			ID:          row.ID,
			Description: row.Description,
			Amount:      row.Amount,
			DueDate:     row.DueDate.Format(time.DateOnly),
			Status:      row.Status,
			Category:    row.Category,
			Summary:     row.Summary,
			Count:       row.Count,
		}
	}

	return resp
}
