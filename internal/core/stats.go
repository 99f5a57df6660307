package core

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// MonthStats are the derived figures for a single month. They are recomputed
// on demand and never cached, so Remaining always reconciles with the ledger:
// Remaining + TotalSpent == Budget.
type MonthStats struct {
	TotalSpent  decimal.Decimal
	Remaining   decimal.Decimal
	PercentUsed float64 // 0 when the budget is zero
}

// Stats computes the derived figures for the month.
func (m Month) Stats() MonthStats {
	total := decimal.Zero
	for _, e := range m.Expenses {
		total = total.Add(e.Val)
	}
	st := MonthStats{
		TotalSpent: total,
		Remaining:  m.Budget.Sub(total),
	}
	if m.Budget.IsPositive() {
		st.PercentUsed, _ = total.Div(m.Budget).Mul(decimal.NewFromInt(100)).Float64()
	}
	return st
}

// GlobalStats aggregates every month in the store.
type GlobalStats struct {
	TotalBudget    decimal.Decimal
	TotalSpent     decimal.Decimal
	TotalSaved     decimal.Decimal
	AvgSaved       decimal.Decimal
	SavingsRate    float64 // percent, 0 when total budget is zero
	CategoryTotals map[Category]decimal.Decimal
}

// Summarize computes cross-month totals and the per-category breakdown.
// Expenses with no category count toward Other.
func Summarize(months []Month) GlobalStats {
	g := GlobalStats{
		TotalBudget:    decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalSaved:     decimal.Zero,
		AvgSaved:       decimal.Zero,
		CategoryTotals: make(map[Category]decimal.Decimal),
	}
	for _, m := range months {
		g.TotalBudget = g.TotalBudget.Add(m.Budget)
		for _, e := range m.Expenses {
			g.TotalSpent = g.TotalSpent.Add(e.Val)
			cat := e.Category
			if cat == "" {
				cat = Other
			}
			g.CategoryTotals[cat] = g.CategoryTotals[cat].Add(e.Val)
		}
	}
	g.TotalSaved = g.TotalBudget.Sub(g.TotalSpent)
	if len(months) > 0 {
		g.AvgSaved = g.TotalSaved.Div(decimal.NewFromInt(int64(len(months))))
	}
	if g.TotalBudget.IsPositive() {
		g.SavingsRate, _ = g.TotalSaved.Div(g.TotalBudget).Mul(decimal.NewFromInt(100)).Float64()
	}
	return g
}

// RunningBalance accumulates each month's remaining budget in creation (id)
// order, not calendar order: a month created out of chronological sequence
// accumulates in the order it was created. Reported to the user as net worth.
// When upTo is non-zero, accumulation stops after including that month.
func RunningBalance(months []Month, upTo int64) decimal.Decimal {
	sorted := slices.Clone(months)
	slices.SortFunc(sorted, func(a, b Month) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	running := decimal.Zero
	for _, m := range sorted {
		running = running.Add(m.Stats().Remaining)
		if upTo != 0 && m.ID == upTo {
			break
		}
	}
	return running
}

// WorkHours expresses an amount as hours of work at the given wage.
// Returns 0 when the wage is not positive.
func WorkHours(amount, hourlyWage decimal.Decimal) float64 {
	if !hourlyWage.IsPositive() {
		return 0
	}
	hours, _ := amount.Div(hourlyWage).Float64()
	return hours
}

// AvailableMonthNames returns the month labels for fromYear and the year
// after that are not yet used by an existing month, in calendar order.
func AvailableMonthNames(months []Month, fromYear int) []string {
	used := make(map[string]bool, len(months))
	for _, m := range months {
		used[m.Name] = true
	}
	var names []string
	for year := fromYear; year <= fromYear+1; year++ {
		for mo := time.January; mo <= time.December; mo++ {
			name := fmt.Sprintf("%s %d", mo, year)
			if !used[name] {
				names = append(names, name)
			}
		}
	}
	return names
}
