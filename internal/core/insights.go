package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// InsightWeekendSpending fires when weekend expenses exceed 40% of the
	// month's total spend.
	InsightWeekendSpending InsightKind = "weekend_spending"
	// InsightFoodSpending fires when food expenses exceed 30% of the month's
	// budget.
	InsightFoodSpending InsightKind = "food_spending"
)

type InsightKind string

// Insight is a derived spending observation about the most recent month.
// The engine carries the kind and the amount that triggered it; display
// wording is the UI collaborator's concern.
type Insight struct {
	Kind   InsightKind     `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Insights inspects the last month in the list (the most recently created
// one) and returns the spending patterns that cross their thresholds.
// Expenses without a date do not count as weekend spending.
func Insights(months []Month) []Insight {
	if len(months) == 0 {
		return nil
	}
	m := months[len(months)-1]
	total := m.Stats().TotalSpent

	var found []Insight

	weekend := decimal.Zero
	for _, e := range m.Expenses {
		if e.Date.IsZero() {
			continue
		}
		switch e.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekend = weekend.Add(e.Val)
		}
	}
	if weekend.GreaterThan(total.Mul(decimal.New(4, -1))) {
		found = append(found, Insight{Kind: InsightWeekendSpending, Amount: weekend})
	}

	food := decimal.Zero
	for _, e := range m.Expenses {
		if e.Category == Food {
			food = food.Add(e.Val)
		}
	}
	if food.GreaterThan(m.Budget.Mul(decimal.New(3, -1))) {
		found = append(found, Insight{Kind: InsightFoodSpending, Amount: food})
	}

	return found
}
