package report_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/caixa/internal/report"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

func TestComputeDRE(t *testing.T) {
	march := report.NewRange(day(2024, 3, 1), day(2024, 3, 31))

	revenueOnly := []*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "10000", day(2024, 3, 10), transaction.StatusPaid, ""),
	}

	mixed := []*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "10000", day(2024, 3, 10), transaction.StatusPaid, ""),
		tx(transaction.TypeCompanyExpense, "4000", day(2024, 3, 15), transaction.StatusPaid, ""),
		tx(transaction.TypePartnerExpense, "1000", day(2024, 3, 20), transaction.StatusPaid, ""),
		tx(transaction.TypeCompanyRevenue, "5000", day(2024, 4, 1), transaction.StatusOpen, ""),
	}

	type want struct {
		deduction string
		net       string
		operating string
		incomeTax string
		result    string
	}

	type testCase struct {
		name string
		txs  []*transaction.Transaction
		cfg  func(c *report.TaxConfig)
		want want
	}

	tests := []testCase{
		{
			name: "SimplifiedRevenueOnly",
			txs:  revenueOnly,
			want: want{deduction: "600.00", net: "9400.00", operating: "9400.00", incomeTax: "0.00", result: "9400.00"},
		},
		{
			name: "SimplifiedWithTransition",
			txs:  revenueOnly,
			cfg:  func(c *report.TaxConfig) { c.Transition = true },
			want: want{deduction: "700.00", net: "9300.00", operating: "9300.00", incomeTax: "0.00", result: "9300.00"},
		},
		{
			name: "PresumedProfit",
			txs:  mixed,
			cfg:  func(c *report.TaxConfig) { c.Regime = report.RegimePresumedProfit },
			// 10000 * 8.65% = 865; base 3200 * 24% = 768
			want: want{deduction: "865.00", net: "9135.00", operating: "5135.00", incomeTax: "768.00", result: "4367.00"},
		},
		{
			name: "RealProfit",
			txs:  mixed,
			cfg:  func(c *report.TaxConfig) { c.Regime = report.RegimeRealProfit },
			// 5135 * 24% = 1232.40
			want: want{deduction: "865.00", net: "9135.00", operating: "5135.00", incomeTax: "1232.40", result: "3902.60"},
		},
		{
			name: "RealProfitWithLoss",
			txs: []*transaction.Transaction{
				tx(transaction.TypeCompanyRevenue, "1000", day(2024, 3, 1), transaction.StatusPaid, ""),
				tx(transaction.TypeCompanyExpense, "2000", day(2024, 3, 1), transaction.StatusPaid, ""),
			},
			cfg:  func(c *report.TaxConfig) { c.Regime = report.RegimeRealProfit },
			want: want{deduction: "86.50", net: "913.50", operating: "-1086.50", incomeTax: "0.00", result: "-1086.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := report.DefaultTaxConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			got := report.ComputeDRE(tt.txs, march, cfg)

			assert.Equal(t, tt.want.deduction, got.TaxDeduction.Value.StringFixed(2))
			assert.Equal(t, tt.want.net, got.NetRevenue.Value.StringFixed(2))
			assert.Equal(t, tt.want.operating, got.OperatingResult.Value.StringFixed(2))
			assert.Equal(t, tt.want.incomeTax, got.IncomeTax.Value.StringFixed(2))
			assert.Equal(t, tt.want.result, got.NetResult.Value.StringFixed(2))
		})
	}
}

func TestComputeDRE_IgnoresExpensesForDeduction(t *testing.T) {
	march := report.NewRange(day(2024, 3, 1), day(2024, 3, 31))
	cfg := report.DefaultTaxConfig()

	base := report.ComputeDRE([]*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "10000", day(2024, 3, 1), transaction.StatusPaid, ""),
	}, march, cfg)

	withExpenses := report.ComputeDRE([]*transaction.Transaction{
		tx(transaction.TypeCompanyRevenue, "10000", day(2024, 3, 1), transaction.StatusPaid, ""),
		tx(transaction.TypeCompanyExpense, "7000", day(2024, 3, 2), transaction.StatusPaid, ""),
		tx(transaction.TypePartnerExpense, "500", day(2024, 3, 3), transaction.StatusPaid, ""),
	}, march, cfg)

	assert.True(t, base.TaxDeduction.Value.Equal(withExpenses.TaxDeduction.Value))
	assert.True(t, base.NetRevenue.Value.Equal(withExpenses.NetRevenue.Value))
	assert.Equal(t, "500.00", withExpenses.PartnerWithdrawals.Value.StringFixed(2))
	assert.Equal(t, "70.00", withExpenses.OperatingExpenses.Percent.StringFixed(2))
}

func TestComputeDRE_NoRevenue(t *testing.T) {
	got := report.ComputeDRE([]*transaction.Transaction{
		tx(transaction.TypeCompanyExpense, "100", day(2024, 3, 1), transaction.StatusPaid, ""),
	}, report.NewRange(day(2024, 3, 1), day(2024, 3, 31)), report.DefaultTaxConfig())

	assert.True(t, got.GrossRevenue.Value.IsZero())
	assert.True(t, got.OperatingExpenses.Percent.IsZero())
	assert.Equal(t, "-100.00", got.NetResult.Value.StringFixed(2))
}

func TestTaxConfig_Validate(t *testing.T) {
	cfg := report.DefaultTaxConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Regime = "lucro"
	assert.Error(t, cfg.Validate())

	cfg = report.DefaultTaxConfig()
	cfg.ISS = decimal.NewFromInt(-1)
	assert.Error(t, cfg.Validate())
}
