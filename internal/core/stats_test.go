package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMonthStats(t *testing.T) {
	m := Month{
		ID:     1,
		Name:   "March 2026",
		Budget: decimal.NewFromInt(5000),
		Expenses: []Expense{
			{ID: 2, Desc: "Rent", Val: decimal.NewFromInt(1500), Category: Housing},
			{ID: 3, Desc: "Netflix", Val: decimal.NewFromInt(45), Category: Subscriptions},
		},
	}

	st := m.Stats()
	if !st.TotalSpent.Equal(decimal.NewFromInt(1545)) {
		t.Fatalf("expected total 1545, got %s", st.TotalSpent)
	}
	if !st.Remaining.Equal(decimal.NewFromInt(3455)) {
		t.Fatalf("expected remaining 3455, got %s", st.Remaining)
	}
	if st.PercentUsed < 30.89 || st.PercentUsed > 30.91 {
		t.Fatalf("expected percent used ~30.9, got %v", st.PercentUsed)
	}
}

func TestMonthStatsReconcile(t *testing.T) {
	// Remaining + TotalSpent must always equal the budget.
	m := Month{
		Budget: dec("1234.56"),
		Expenses: []Expense{
			{Val: dec("0.01")},
			{Val: dec("99.99")},
			{Val: dec("400.40")},
		},
	}
	st := m.Stats()
	if !st.Remaining.Add(st.TotalSpent).Equal(m.Budget) {
		t.Fatalf("remaining %s + spent %s != budget %s", st.Remaining, st.TotalSpent, m.Budget)
	}
}

func TestMonthStatsZeroBudget(t *testing.T) {
	m := Month{Expenses: []Expense{{Val: decimal.NewFromInt(100)}}}
	st := m.Stats()
	if st.PercentUsed != 0 {
		t.Fatalf("expected percent 0 with no budget, got %v", st.PercentUsed)
	}
	if !st.Remaining.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("expected remaining -100, got %s", st.Remaining)
	}
}

func TestSummarize(t *testing.T) {
	months := []Month{
		{
			Budget: decimal.NewFromInt(1000),
			Expenses: []Expense{
				{Val: decimal.NewFromInt(200), Category: Food},
				{Val: decimal.NewFromInt(100)}, // no category counts as Other
			},
		},
		{
			Budget: decimal.NewFromInt(500),
			Expenses: []Expense{
				{Val: decimal.NewFromInt(300), Category: Food},
			},
		},
	}

	g := Summarize(months)
	if !g.TotalBudget.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected total budget 1500, got %s", g.TotalBudget)
	}
	if !g.TotalSpent.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected total spent 600, got %s", g.TotalSpent)
	}
	if !g.TotalSaved.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("expected total saved 900, got %s", g.TotalSaved)
	}
	if !g.AvgSaved.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("expected avg saved 450, got %s", g.AvgSaved)
	}
	if g.SavingsRate != 60 {
		t.Fatalf("expected savings rate 60, got %v", g.SavingsRate)
	}
	if !g.CategoryTotals[Food].Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected food 500, got %s", g.CategoryTotals[Food])
	}
	if !g.CategoryTotals[Other].Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected other 100, got %s", g.CategoryTotals[Other])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	g := Summarize(nil)
	if !g.TotalBudget.IsZero() || !g.TotalSpent.IsZero() || !g.AvgSaved.IsZero() {
		t.Fatal("expected zero stats for no months")
	}
	if g.SavingsRate != 0 {
		t.Fatalf("expected rate 0, got %v", g.SavingsRate)
	}
}

func TestRunningBalance(t *testing.T) {
	months := []Month{
		{ID: 1, Budget: decimal.NewFromInt(1000), Expenses: []Expense{{Val: decimal.NewFromInt(500)}}},
		{ID: 2, Budget: decimal.NewFromInt(800), Expenses: []Expense{{Val: decimal.NewFromInt(1000)}}},
	}

	// 500 + (-200) = 300
	if got := RunningBalance(months, 0); !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected 300, got %s", got)
	}
	// stop after the first month
	if got := RunningBalance(months, 1); !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected 500 up to month 1, got %s", got)
	}
}

func TestRunningBalanceCreationOrder(t *testing.T) {
	// Months accumulate in id order regardless of slice order.
	months := []Month{
		{ID: 7, Budget: decimal.NewFromInt(100)},
		{ID: 3, Budget: decimal.NewFromInt(50)},
	}
	if got := RunningBalance(months, 3); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50 up to month 3, got %s", got)
	}
}

func TestWorkHours(t *testing.T) {
	if got := WorkHours(decimal.NewFromInt(100), decimal.NewFromInt(50)); got != 2 {
		t.Fatalf("expected 2 hours, got %v", got)
	}
	if got := WorkHours(decimal.NewFromInt(100), decimal.Zero); got != 0 {
		t.Fatalf("expected 0 hours for zero wage, got %v", got)
	}
}

func TestAvailableMonthNames(t *testing.T) {
	months := []Month{
		{Name: "January 2026"},
		{Name: "March 2026"},
	}
	names := AvailableMonthNames(months, 2026)
	if len(names) != 22 {
		t.Fatalf("expected 22 names (24 minus 2 used), got %d", len(names))
	}
	if names[0] != "February 2026" {
		t.Fatalf("expected first free month February 2026, got %s", names[0])
	}
	for _, n := range names {
		if n == "January 2026" || n == "March 2026" {
			t.Fatalf("used month %s should not be offered", n)
		}
	}
	if names[len(names)-1] != "December 2027" {
		t.Fatalf("expected window to end at December 2027, got %s", names[len(names)-1])
	}
}
