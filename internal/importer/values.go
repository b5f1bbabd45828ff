package importer

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

var (
	errAmount = errors.New("not an amount")
	errDate   = errors.New("not a date")
)

// excelEpoch is day zero of the 1900 date system, shifted for Excel's fake 1900-02-29.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// parseAmount reads Brazilian ("R$ 1.234,56") and plain ("1234.56") amounts and
// returns the absolute value. A comma marks the Brazilian format; several dots
// without a comma are thousand separators.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("R$", "", " ", "", "\u00a0", "", "(", "", ")", "").Replace(strings.TrimSpace(s))

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, errAmount
	}

	return d.Abs(), nil
}

var dateLayouts = []string{
	"2/1/2006",
	time.DateOnly,
	"2-1-2006",
	"2/1/06",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseDate accepts dd/mm/yyyy, ISO dates and Excel serial day numbers.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return transaction.DateOnly(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		return excelEpoch.AddDate(0, 0, int(serial)), nil
	}

	return time.Time{}, errDate
}

// parseStatus marks a row paid when its status cell mentions payment.
func parseStatus(s string) transaction.Status {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, word := range []string{"pago", "paid", "ok"} {
		if strings.Contains(s, word) {
			return transaction.StatusPaid
		}
	}

	return transaction.StatusOpen
}
