// Package report shapes derived statistics into the figures the external
// reporting collaborator consumes. It produces no document format itself.
package report

import (
	"github.com/shopspring/decimal"

	"budgetflow/internal/core"
)

type ExpenseLine struct {
	Desc     string          `json:"desc"`
	Val      decimal.Decimal `json:"val"`
	Category core.Category   `json:"category"`
	Date     core.Date       `json:"date"`
}

type MonthReport struct {
	Name        string          `json:"name"`
	Budget      decimal.Decimal `json:"budget"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed float64         `json:"percentUsed"`
	Expenses    []ExpenseLine   `json:"expenses"`
}

// Overview carries the global triple shown at the top of every report.
type Overview struct {
	NetWorth    decimal.Decimal `json:"netWorth"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	SavingsRate float64         `json:"savingsRate"`
}

// ForMonth builds the per-month report figures.
func ForMonth(m core.Month) MonthReport {
	stats := m.Stats()
	lines := make([]ExpenseLine, 0, len(m.Expenses))
	for _, e := range m.Expenses {
		lines = append(lines, ExpenseLine{
			Desc:     e.Desc,
			Val:      e.Val,
			Category: e.Category,
			Date:     e.Date,
		})
	}
	return MonthReport{
		Name:        m.Name,
		Budget:      m.Budget,
		TotalSpent:  stats.TotalSpent,
		Remaining:   stats.Remaining,
		PercentUsed: stats.PercentUsed,
		Expenses:    lines,
	}
}

// ForMonths builds every month's report in store order.
func ForMonths(months []core.Month) []MonthReport {
	reports := make([]MonthReport, 0, len(months))
	for _, m := range months {
		reports = append(reports, ForMonth(m))
	}
	return reports
}

// GlobalOverview builds the net worth / total spent / savings rate triple.
// Net worth is the running balance across all months in creation order.
func GlobalOverview(months []core.Month) Overview {
	global := core.Summarize(months)
	return Overview{
		NetWorth:    core.RunningBalance(months, 0),
		TotalSpent:  global.TotalSpent,
		SavingsRate: global.SavingsRate,
	}
}
