package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/report"
)

type rangeResponse struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

func toRange(r report.Range) rangeResponse {
	return rangeResponse{Start: r.Start.Format(time.DateOnly), End: r.End.Format(time.DateOnly)}
}

type summaryResponse struct {
	Revenue            decimal.Decimal `json:"revenue"`
	Expenses           decimal.Decimal `json:"expenses"`
	PartnerWithdrawals decimal.Decimal `json:"partner_withdrawals"`
	Balance            decimal.Decimal `json:"balance"`
	Received           decimal.Decimal `json:"received"`
	Receivable         decimal.Decimal `json:"receivable"`
	Paid               decimal.Decimal `json:"paid"`
	Payable            decimal.Decimal `json:"payable"`
	Overdue            decimal.Decimal `json:"overdue"`
}

type sliceResponse struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

type pointResponse struct {
	Date    string          `json:"date"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

type budgetResponse struct {
	Category   string          `json:"category"`
	Color      string          `json:"color"`
	Budget     decimal.Decimal `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Percent    decimal.Decimal `json:"percent"`
	Over       decimal.Decimal `json:"over"`
	OverBudget bool            `json:"over_budget"`
}

type noticeResponse struct {
	TransactionID string          `json:"transaction_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date"`
	Urgency       report.Urgency  `json:"urgency"`
	Days          int             `json:"days"`
}

type marginResponse struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Result   decimal.Decimal `json:"result"`
	Percent  decimal.Decimal `json:"percent"`
}

type dashboardResponse struct {
	Range         rangeResponse    `json:"range"`
	Summary       summaryResponse  `json:"summary"`
	Categories    []sliceResponse  `json:"categories"`
	CashFlow      []pointResponse  `json:"cash_flow"`
	Budgets       []budgetResponse `json:"budgets"`
	Notifications []noticeResponse `json:"notifications"`
	Margin        marginResponse   `json:"margin"`
}

func toDashboardResponse(d report.Dashboard) dashboardResponse {
	s := d.Summary

	resp := dashboardResponse{
		Range: toRange(d.Range),
		Summary: summaryResponse{
			Revenue:            s.Revenue,
			Expenses:           s.Expenses,
			PartnerWithdrawals: s.PartnerWithdrawals,
			Balance:            s.Balance,
			Received:           s.Received,
			Receivable:         s.Receivable,
			Paid:               s.Paid,
			Payable:            s.Payable,
			Overdue:            s.Overdue,
		},
		Categories:    make([]sliceResponse, len(d.Categories)),
		CashFlow:      make([]pointResponse, len(d.CashFlow)),
		Budgets:       make([]budgetResponse, len(d.Budgets)),
		Notifications: make([]noticeResponse, len(d.Notifications)),
		Margin: marginResponse{
			Revenue:  d.Margin.Revenue,
			Expenses: d.Margin.Expenses,
			Result:   d.Margin.Result,
			Percent:  d.Margin.Percent,
		},
	}

	for i, c := range d.Categories {
		resp.Categories[i] = sliceResponse{Name: c.Name, Value: c.Value, Color: c.Color}
	}

	for i, p := range d.CashFlow {
		resp.CashFlow[i] = pointResponse{
			Date:    p.Date.Format(time.DateOnly),
			Label:   p.Label,
			Revenue: p.Revenue,
			Expense: p.Expense,
		}
	}

	for i, b := range d.Budgets {
		resp.Budgets[i] = budgetResponse{
			Category:   b.Category,
			Color:      b.Color,
			Budget:     b.Budget,
			Spent:      b.Spent,
			Percent:    b.Percent,
			Over:       b.Over,
			OverBudget: b.OverBudget(),
		}
	}

	for i, n := range d.Notifications {
		resp.Notifications[i] = noticeResponse{
			TransactionID: n.TransactionID,
			Description:   n.Description,
			Amount:        n.Amount,
			DueDate:       n.DueDate.Format(time.DateOnly),
			Urgency:       n.Urgency,
			Days:          n.Days,
		}
	}

	return resp
}

type lineResponse struct {
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

func toLine(l report.Line) lineResponse {
	return lineResponse{Value: l.Value, Percent: l.Percent}
}

type dreResponse struct {
	Range              rangeResponse   `json:"range"`
	Regime             report.Regime   `json:"regime"`
	SalesTaxRate       decimal.Decimal `json:"sales_tax_rate"`
	GrossRevenue       lineResponse    `json:"gross_revenue"`
	TaxDeduction       lineResponse    `json:"tax_deduction"`
	NetRevenue         lineResponse    `json:"net_revenue"`
	OperatingExpenses  lineResponse    `json:"operating_expenses"`
	OperatingResult    lineResponse    `json:"operating_result"`
	IncomeTax          lineResponse    `json:"income_tax"`
	NetResult          lineResponse    `json:"net_result"`
	PartnerWithdrawals lineResponse    `json:"partner_withdrawals"`
}

func toDREResponse(r report.Range, d report.DRE) dreResponse {
	return dreResponse{
		Range:              toRange(r),
		Regime:             d.Regime,
		SalesTaxRate:       d.SalesTaxRate,
		GrossRevenue:       toLine(d.GrossRevenue),
		TaxDeduction:       toLine(d.TaxDeduction),
		NetRevenue:         toLine(d.NetRevenue),
		OperatingExpenses:  toLine(d.OperatingExpenses),
		OperatingResult:    toLine(d.OperatingResult),
		IncomeTax:          toLine(d.IncomeTax),
		NetResult:          toLine(d.NetResult),
		PartnerWithdrawals: toLine(d.PartnerWithdrawals),
	}
}
