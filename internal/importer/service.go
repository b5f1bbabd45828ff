package importer

import (
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/caixa/internal/encoding"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const (
	noDescription = "No description"
	previewRows   = 5
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// read returns every row of the file along with the charset it was decoded from.
func (s *Service) read(format Format, r io.Reader, sheet string) ([][]string, enc.Charset, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		rows, err := readXLSX(r, sheet)
		return rows, enc.UTF8, err
	}

	return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Preview is what a client needs to build a mapping: the header row, a few
// sample rows, and a suggested mapping. Encoding is the detected source charset.
type Preview struct {
	Header    []string
	Rows      [][]string
	Total     int
	Suggested Mapping
	Encoding  enc.Charset
}

func (s *Service) Preview(format Format, r io.Reader, sheet string) (*Preview, error) {
	rows, charset, err := s.read(format, r, sheet)
	if err != nil {
		return nil, err
	}

	header, body, err := split(rows)
	if err != nil {
		return nil, err
	}

	return &Preview{
		Header:    header,
		Rows:      body[:min(previewRows, len(body))],
		Total:     len(body),
		Suggested: SuggestMapping(header),
		Encoding:  charset,
	}, nil
}

// Parse turns a spreadsheet into transaction params using the column mapping.
// Blank rows are skipped; a cell that cannot be read fails the whole file with a
// *RowError naming its position.
func (s *Service) Parse(format Format, r io.Reader, opts Options) ([]transaction.CreateParams, error) {
	if err := opts.Mapping.validate(); err != nil {
		return nil, err
	}

	if !opts.Type.Valid() {
		return nil, fmt.Errorf("unknown transaction type %q", opts.Type)
	}

	rows, _, err := s.read(format, r, opts.Sheet)
	if err != nil {
		return nil, err
	}

	header, body, err := split(rows)
	if err != nil {
		return nil, err
	}

	b, err := bind(indexHeader(header), opts.Mapping)
	if err != nil {
		return nil, err
	}

	var out []transaction.CreateParams

	for i, row := range body {
		if blank(row) {
			continue
		}

		p, err := b.row(row, i+2, opts.Type)
		if err != nil {
			return nil, err
		}

		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, ErrEmptyFile
	}

	return out, nil
}

// split returns the first non-blank row as header and everything after it.
func split(rows [][]string) ([]string, [][]string, error) {
	for i, row := range rows {
		if !blank(row) {
			return row, rows[i+1:], nil
		}
	}

	return nil, nil, ErrNoHeader
}

// binding holds the column index of each mapped field; -1 marks an unbound optional field.
type binding struct {
	mapping Mapping

	desc     int
	amount   int
	dueDate  int
	category int
	status   int
}

func bind(cols columns, m Mapping) (*binding, error) {
	b := &binding{mapping: m}

	fields := []struct {
		header string
		idx    *int
	}{
		{m.Description, &b.desc},
		{m.Amount, &b.amount},
		{m.DueDate, &b.dueDate},
		{m.Category, &b.category},
		{m.Status, &b.status},
	}

	for _, f := range fields {
		i, ok := cols.lookup(f.header)
		if !ok {
			return nil, fmt.Errorf("column %q not found in header", f.header)
		}

		*f.idx = i
	}

	return b, nil
}

func (b *binding) row(row []string, rowNum int, typ transaction.Type) (transaction.CreateParams, error) {
	desc := cell(row, b.desc)
	if desc == "" {
		desc = noDescription
	}

	rawAmount := cell(row, b.amount)

	amount, err := parseAmount(rawAmount)
	if err != nil {
		return transaction.CreateParams{}, &RowError{Row: rowNum, Column: b.mapping.Amount, Value: rawAmount, Err: err}
	}

	rawDate := cell(row, b.dueDate)

	due, err := parseDate(rawDate)
	if err != nil {
		return transaction.CreateParams{}, &RowError{Row: rowNum, Column: b.mapping.DueDate, Value: rawDate, Err: err}
	}

	p := transaction.CreateParams{
		Description: desc,
		Amount:      amount,
		DueDate:     due,
		Type:        typ,
		Status:      transaction.StatusOpen,
		Category:    cell(row, b.category),
	}

	if b.status >= 0 {
		p.Status = parseStatus(cell(row, b.status))
	}

	return p, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
