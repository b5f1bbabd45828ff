package importer

import (
	"mime/multipart"
	"time"

	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type uploaded struct {
	File   multipart.File
	Format importer.Format
	Sheet  string
}

func toParamsDTO(p transaction.CreateParams) paramsDTO {
	return paramsDTO{
		Description: p.Description,
		Amount:      p.Amount,
		DueDate:     p.DueDate.Format(time.DateOnly),
		Type:        p.Type,
		Status:      p.Status,
		CategoryID:  p.CategoryID,
		Category:    p.Category,
	}
}
