package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Regime string

const (
	RegimeSimplified     Regime = "simplified"
	RegimePresumedProfit Regime = "presumed_profit"
	RegimeRealProfit     Regime = "real_profit"
)

func (r Regime) Valid() bool {
	switch r {
	case RegimeSimplified, RegimePresumedProfit, RegimeRealProfit:
		return true
	}

	return false
}

// transitionRate is the flat surcharge added to sales taxes during the tax reform transition.
var transitionRate = decimal.NewFromInt(1)

// TaxConfig holds rates as percentages, e.g. 6 means 6%.
type TaxConfig struct {
	Regime         Regime
	SimplifiedRate decimal.Decimal
	PISCOFINS      decimal.Decimal
	ISS            decimal.Decimal
	PresumedBase   decimal.Decimal
	IRPJ           decimal.Decimal
	CSLL           decimal.Decimal
	Transition     bool
}

func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		Regime:         RegimeSimplified,
		SimplifiedRate: decimal.NewFromInt(6),
		PISCOFINS:      decimal.RequireFromString("3.65"),
		ISS:            decimal.NewFromInt(5),
		PresumedBase:   decimal.NewFromInt(32),
		IRPJ:           decimal.NewFromInt(15),
		CSLL:           decimal.NewFromInt(9),
	}
}

func (c TaxConfig) Validate() error {
	if !c.Regime.Valid() {
		return fmt.Errorf("unknown tax regime %q", c.Regime)
	}

	rates := map[string]decimal.Decimal{
		"simplified_rate": c.SimplifiedRate,
		"pis_cofins":      c.PISCOFINS,
		"iss":             c.ISS,
		"presumed_base":   c.PresumedBase,
		"irpj":            c.IRPJ,
		"csll":            c.CSLL,
	}

	for name, rate := range rates {
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return fmt.Errorf("%s must be between 0 and 100, got %s", name, rate)
		}
	}

	return nil
}

// SalesTaxRate is the effective rate deducted from gross revenue.
func (c TaxConfig) SalesTaxRate() decimal.Decimal {
	rate := c.PISCOFINS.Add(c.ISS)
	if c.Regime == RegimeSimplified {
		rate = c.SimplifiedRate
	}

	if c.Transition {
		rate = rate.Add(transitionRate)
	}

	return rate
}

// Line is a DRE figure with its vertical analysis against gross revenue.
type Line struct {
	Value   decimal.Decimal
	Percent decimal.Decimal
}

// DRE is the income statement for a period.
type DRE struct {
	Regime       Regime
	SalesTaxRate decimal.Decimal

	GrossRevenue       Line
	TaxDeduction       Line
	NetRevenue         Line
	OperatingExpenses  Line
	OperatingResult    Line
	IncomeTax          Line
	NetResult          Line
	PartnerWithdrawals Line
}

// ComputeDRE builds the income statement for the transactions in r. Amounts are
// rounded to cents.
func ComputeDRE(txs []*transaction.Transaction, r Range, cfg TaxConfig) DRE {
	var gross, opex, partner decimal.Decimal

	for _, tx := range Filter(txs, r) {
		switch tx.Type {
		case transaction.TypeCompanyRevenue:
			gross = gross.Add(tx.Amount)
		case transaction.TypeCompanyExpense:
			opex = opex.Add(tx.Amount)
		case transaction.TypePartnerExpense:
			partner = partner.Add(tx.Amount)
		}
	}

	rate := cfg.SalesTaxRate()
	deduction := gross.Mul(rate).Div(hundred)
	net := gross.Sub(deduction)
	operating := net.Sub(opex)

	incomeTax := decimal.Zero

	switch cfg.Regime {
	case RegimePresumedProfit:
		base := gross.Mul(cfg.PresumedBase).Div(hundred)
		incomeTax = base.Mul(cfg.IRPJ.Add(cfg.CSLL)).Div(hundred)
	case RegimeRealProfit:
		if operating.IsPositive() {
			incomeTax = operating.Mul(cfg.IRPJ.Add(cfg.CSLL)).Div(hundred)
		}
	}

	result := operating.Sub(incomeTax)

	line := func(v decimal.Decimal) Line {
		v = v.Round(2)
		return Line{Value: v, Percent: percentOf(v, gross.Round(2))}
	}

	return DRE{
		Regime:             cfg.Regime,
		SalesTaxRate:       rate,
		GrossRevenue:       line(gross),
		TaxDeduction:       line(deduction),
		NetRevenue:         line(net),
		OperatingExpenses:  line(opex),
		OperatingResult:    line(operating),
		IncomeTax:          line(incomeTax),
		NetResult:          line(result),
		PartnerWithdrawals: line(partner),
	}
}
