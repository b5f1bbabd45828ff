package importer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/caixa/internal/encoding"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

var brMapping = importer.Mapping{
	Description: "Descrição",
	Amount:      "Valor",
	DueDate:     "Vencimento",
	Category:    "Categoria",
	Status:      "Situação",
}

func TestService_Parse_CSV(t *testing.T) {
	csv := `Descrição;Valor;Vencimento;Categoria;Situação

Aluguel escritório;R$ 1.200,00;05/03/2024;Aluguel;Pago
Contador;350,5;2024-03-10;;em aberto
;-80,00;7/3/2024;Taxas;OK
`

	svc := importer.NewService()
	txs, err := svc.Parse(importer.FormatCSV, strings.NewReader(csv), importer.Options{
		Mapping: brMapping,
		Type:    transaction.TypeCompanyExpense,
	})
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, "Aluguel escritório", txs[0].Description)
	assert.Equal(t, "1200.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, date(2024, 3, 5), txs[0].DueDate)
	assert.Equal(t, "Aluguel", txs[0].Category)
	assert.Equal(t, transaction.StatusPaid, txs[0].Status)
	assert.Equal(t, transaction.TypeCompanyExpense, txs[0].Type)

	assert.Equal(t, "350.50", txs[1].Amount.StringFixed(2))
	assert.Equal(t, date(2024, 3, 10), txs[1].DueDate)
	assert.Equal(t, transaction.StatusOpen, txs[1].Status)
	assert.Empty(t, txs[1].Category)

	assert.Equal(t, "No description", txs[2].Description)
	assert.Equal(t, "80.00", txs[2].Amount.StringFixed(2))
	assert.Equal(t, date(2024, 3, 7), txs[2].DueDate)
	assert.Equal(t, transaction.StatusPaid, txs[2].Status)
}

func TestService_Parse_CommaCSV(t *testing.T) {
	csv := "description,amount,due_date\nHosting,49.90,2024-04-01\n\"Domain, yearly\",12,2024-04-15\n"

	txs, err := importer.NewService().Parse(importer.FormatCSV, strings.NewReader(csv), importer.Options{
		Mapping: importer.Mapping{Description: "description", Amount: "amount", DueDate: "due_date"},
		Type:    transaction.TypeCompanyRevenue,
	})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "49.90", txs[0].Amount.StringFixed(2))
	assert.Equal(t, "Domain, yearly", txs[1].Description)
	assert.Equal(t, transaction.StatusOpen, txs[1].Status)
}

func TestService_Parse_Windows1252(t *testing.T) {
	utf8CSV := "Descrição;Valor;Vencimento\nManutenção;100,00;01/02/2024\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(utf8CSV)
	require.NoError(t, err)

	txs, err := importer.NewService().Parse(importer.FormatCSV, strings.NewReader(encoded), importer.Options{
		Mapping: importer.Mapping{Description: "Descrição", Amount: "Valor", DueDate: "Vencimento"},
		Type:    transaction.TypeCompanyExpense,
	})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Manutenção", txs[0].Description)
}

func TestService_Preview_CSVEncoding(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("Descrição;Valor\nManutenção;100,00\n")
	require.NoError(t, err)

	p, err := importer.NewService().Preview(importer.FormatCSV, strings.NewReader(encoded), "")
	require.NoError(t, err)
	assert.NotEqual(t, encoding.UTF8, p.Encoding)
	assert.Equal(t, []string{"Descrição", "Valor"}, p.Header)

	p, err = importer.NewService().Preview(importer.FormatCSV, strings.NewReader("Descrição;Valor\nManutenção;100,00\n"), "")
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, p.Encoding)
}

func TestService_Parse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		opts    importer.Options
		checkFn func(t *testing.T, err error)
	}{
		{
			name: "MappingMissingAmount",
			csv:  "Descrição;Valor;Vencimento\nx;1;01/01/2024\n",
			opts: importer.Options{Mapping: importer.Mapping{Description: "Descrição", DueDate: "Vencimento"}, Type: transaction.TypeCompanyExpense},
			checkFn: func(t *testing.T, err error) {
				var me *importer.MappingError
				require.ErrorAs(t, err, &me)
				assert.Equal(t, []string{"amount"}, me.Missing)
			},
		},
		{
			name: "ColumnNotInHeader",
			csv:  "Descrição;Valor;Data\nx;1;01/01/2024\n",
			opts: importer.Options{Mapping: brMapping, Type: transaction.TypeCompanyExpense},
			checkFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "Vencimento")
			},
		},
		{
			name: "BadAmount",
			csv:  "Descrição;Valor;Vencimento\nx;abc;01/01/2024\n",
			opts: importer.Options{Mapping: importer.Mapping{Description: "Descrição", Amount: "Valor", DueDate: "Vencimento"}, Type: transaction.TypeCompanyExpense},
			checkFn: func(t *testing.T, err error) {
				var re *importer.RowError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, 2, re.Row)
				assert.Equal(t, "Valor", re.Column)
			},
		},
		{
			name: "BadDate",
			csv:  "Descrição;Valor;Vencimento\nx;1,00;amanhã\n",
			opts: importer.Options{Mapping: importer.Mapping{Description: "Descrição", Amount: "Valor", DueDate: "Vencimento"}, Type: transaction.TypeCompanyExpense},
			checkFn: func(t *testing.T, err error) {
				var re *importer.RowError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, "Vencimento", re.Column)
			},
		},
		{
			name: "HeaderOnly",
			csv:  "Descrição;Valor;Vencimento\n",
			opts: importer.Options{Mapping: importer.Mapping{Description: "Descrição", Amount: "Valor", DueDate: "Vencimento"}, Type: transaction.TypeCompanyExpense},
			checkFn: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, importer.ErrEmptyFile)
			},
		},
		{
			name: "UnknownType",
			csv:  "Descrição;Valor;Vencimento\nx;1;01/01/2024\n",
			opts: importer.Options{Mapping: importer.Mapping{Description: "Descrição", Amount: "Valor", DueDate: "Vencimento"}, Type: "income"},
			checkFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.NewService().Parse(importer.FormatCSV, strings.NewReader(tt.csv), tt.opts)
			tt.checkFn(t, err)
		})
	}
}

func buildWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"Descrição", "Valor", "Vencimento", "Situação"},
		{"Consultoria", 10000, date(2024, 3, 15), "Pago"},
		{"Treinamento", 2500.5, "20/03/2024", ""},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf
}

func TestService_Parse_XLSX(t *testing.T) {
	txs, err := importer.NewService().Parse(importer.FormatXLSX, buildWorkbook(t), importer.Options{
		Mapping: importer.Mapping{Description: "Descrição", Amount: "Valor", DueDate: "Vencimento", Status: "Situação"},
		Type:    transaction.TypeCompanyRevenue,
	})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "Consultoria", txs[0].Description)
	assert.Equal(t, "10000.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, date(2024, 3, 15), txs[0].DueDate)
	assert.Equal(t, transaction.StatusPaid, txs[0].Status)

	assert.Equal(t, "2500.50", txs[1].Amount.StringFixed(2))
	assert.Equal(t, date(2024, 3, 20), txs[1].DueDate)
	assert.Equal(t, transaction.StatusOpen, txs[1].Status)
}

func TestService_Preview(t *testing.T) {
	p, err := importer.NewService().Preview(importer.FormatXLSX, buildWorkbook(t), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Descrição", "Valor", "Vencimento", "Situação"}, p.Header)
	assert.Equal(t, 2, p.Total)
	assert.Len(t, p.Rows, 2)
	assert.Equal(t, importer.Mapping{
		Description: "Descrição",
		Amount:      "Valor",
		DueDate:     "Vencimento",
		Status:      "Situação",
	}, p.Suggested)
	assert.Equal(t, encoding.UTF8, p.Encoding)
}

func TestFormatOf(t *testing.T) {
	f, err := importer.FormatOf("extrato.CSV")
	require.NoError(t, err)
	assert.Equal(t, importer.FormatCSV, f)

	f, err = importer.FormatOf("contas.xlsx")
	require.NoError(t, err)
	assert.Equal(t, importer.FormatXLSX, f)

	_, err = importer.FormatOf("contas.pdf")
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)
}
