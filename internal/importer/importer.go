package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnknownFormat = errors.New("unsupported file format")
	ErrNoHeader      = errors.New("file has no header row")
	ErrEmptyFile     = errors.New("file has no data rows")
)

// FormatOf guesses the format from a file name.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filename)
}

// Mapping names the header of the column holding each field. Category and
// Status are optional.
type Mapping struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

func (m Mapping) validate() error {
	var missing []string

	if m.Description == "" {
		missing = append(missing, "description")
	}

	if m.Amount == "" {
		missing = append(missing, "amount")
	}

	if m.DueDate == "" {
		missing = append(missing, "due_date")
	}

	if len(missing) > 0 {
		return &MappingError{Missing: missing}
	}

	return nil
}

// MappingError lists required fields that are not bound to any column.
type MappingError struct {
	Missing []string
}

func (e *MappingError) Error() string {
	return "mapping is missing required columns: " + strings.Join(e.Missing, ", ")
}

// RowError points at a cell that could not be read.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %q: cannot read %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Options controls how parsed rows become transactions.
type Options struct {
	Mapping Mapping
	// Type is applied to every row; spreadsheets carry no direction of their own.
	Type transaction.Type
	// Sheet selects an XLSX worksheet; empty means the first one.
	Sheet string
}
