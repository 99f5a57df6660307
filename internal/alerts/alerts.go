// Package alerts derives budget-threshold alerts from months and settings.
// The alert list is a pure function of its inputs; it is recomputed from
// scratch on every relevant state change and never stored durably.
package alerts

import (
	"fmt"
	"math"
	"slices"

	"budgetflow/internal/core"
)

// ID returns the derived alert id for a month. The id is keyed only by month
// id, so a dismissal suppresses that month's alert for the rest of the
// session regardless of how the percentage moves afterwards.
func ID(monthID int64) string {
	return fmt.Sprintf("limit-%d", monthID)
}

// Compute builds the active alert list. A month alerts once its spend reaches
// limit percent of its budget: warning below 100 percent, danger at or above
// it. Alerts whose id is in dismissed are filtered out.
func Compute(months []core.Month, limit float64, dismissed map[string]bool) []core.Alert {
	var active []core.Alert
	for _, m := range months {
		percent := m.Stats().PercentUsed
		if percent < limit {
			continue
		}
		id := ID(m.ID)
		if dismissed[id] {
			continue
		}
		a := core.Alert{ID: id}
		if percent >= 100 {
			a.Type = core.AlertDanger
			a.Title = "Budget exceeded"
			a.Message = fmt.Sprintf("You went over the budget for %s.", m.Name)
		} else {
			a.Type = core.AlertWarning
			a.Title = "Budget threshold reached"
			a.Message = fmt.Sprintf("You spent %d%% of the budget for %s.", int(math.Round(percent)), m.Name)
		}
		active = append(active, a)
	}
	return active
}

// Equal reports whether two alert lists are the same by value. Consumers
// replace their alert mapping only when this is false, so an unchanged
// recomputation causes no downstream notification.
func Equal(a, b []core.Alert) bool {
	return slices.Equal(a, b)
}
