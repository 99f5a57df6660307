package ledger

import (
	"slices"
	"time"

	"budgetflow/internal/core"
)

// syncTags mark expenses synthesized by the recurring synchronizer.
var syncTags = []string{"fixed", "synced"}

// MissingTemplates returns the templates with no matching expense in the
// month. A template matches an expense when both desc and val are equal. The
// UI uses this same test read-only to decide whether to offer a sync, so the
// detection lives here once.
func MissingTemplates(m core.Month, templates []core.ExpenseTemplate) []core.ExpenseTemplate {
	var missing []core.ExpenseTemplate
	for _, t := range templates {
		found := false
		for _, e := range m.Expenses {
			if e.Desc == t.Desc && e.Val.Equal(t.Val) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, t)
		}
	}
	return missing
}

// SyncRecurring reconciles a month's expense list with the current template
// list, appending one expense per missing template. Synthesized expenses land
// on day 2 of the month implied by the name: day 1 can roll over to the
// previous month when the date is later serialized across a timezone
// boundary. Applying the command twice in a row changes nothing.
type SyncRecurring struct {
	MonthID int64
}

func (c SyncRecurring) apply(s State, now time.Time) (State, []core.Slice) {
	i := s.monthIndex(c.MonthID)
	if i < 0 {
		return s, nil
	}
	missing := MissingTemplates(s.Months[i], s.Templates)
	if len(missing) == 0 {
		return s, nil
	}

	target := core.DateOf(now)
	if year, mo, ok := core.ParseMonthName(s.Months[i].Name); ok {
		target = core.NewDate(year, mo, 2)
	}

	months := slices.Clone(s.Months)
	m := months[i]
	m.Expenses = slices.Clone(m.Expenses)
	for _, t := range missing {
		m.Expenses = append(m.Expenses, core.Expense{
			ID:       s.nextID(),
			Desc:     t.Desc,
			Val:      t.Val,
			Category: t.Category,
			Date:     target,
			Time:     syncTimeOfDay,
			Tags:     slices.Clone(syncTags),
			Note:     core.RecurringNote,
			IsFixed:  true,
		})
	}
	months[i] = m
	s.Months = months
	return s, []core.Slice{core.SliceMonths}
}

// syncTimeOfDay is the fixed clock time stamped on synchronized expenses.
const syncTimeOfDay = "09:00"
