package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	enc "github.com/MrJamesThe3rd/caixa/internal/encoding"
)

// readCSV decodes the file to UTF-8, sniffs the delimiter and returns every
// record with the charset it was written in.
func readCSV(r io.Reader) ([][]string, enc.Charset, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	sample, err := br.Peek(1024)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek csv: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = enc.DetectDelimiter(sample)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("read csv: %w", err)
	}

	return rows, charset, nil
}

// readXLSX returns the raw cell values of one worksheet, so dates come back as
// serial numbers and amounts without display formatting.
func readXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}

		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return rows, nil
}
