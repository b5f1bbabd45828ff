package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dbTimeout = 5 * time.Second

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatAmount renders an amount as Brazilian reais, e.g. "R$ 1.234,56".
func FormatAmount(d decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(d decimal.Decimal) string {
	return printer.Sprintf("%.1f%%", d.Round(1).InexactFloat64())
}

// FormatDate formats a time.Time into DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
