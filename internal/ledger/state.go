// Package ledger implements the command-driven state engine: the entity
// store holding every collection of a single user session, and the pure
// command processor that produces the next state from the current one.
package ledger

import (
	"time"

	"budgetflow/internal/core"
)

// State is the entity store: the single source of truth for one session.
// It is treated as an immutable value; Apply returns a new State and never
// mutates its input's collections.
type State struct {
	Months    []core.Month
	Templates []core.ExpenseTemplate
	Goals     []core.Goal
	Debts     []core.Debt
	Savings   []core.SavingAsset
	Settings  core.Settings

	lastID int64
}

// NewState returns an empty store with default settings.
func NewState() State {
	return State{Settings: core.DefaultSettings()}
}

// Command is a single mutation of the entity store. Commands are applied one
// at a time in submission order; there is no parallel mutation path.
type Command interface {
	// apply returns the next state and the slices it changed. A command that
	// violates its constraints is a no-op: it returns the state unchanged
	// with no changed slices. It never panics and never performs I/O.
	apply(s State, now time.Time) (State, []core.Slice)
}

// Apply runs cmd against s at the given time and returns the next state plus
// the slices the command changed. Apply is total: input validation is the
// caller's responsibility, and invalid commands are ignored rather than
// raised.
func Apply(s State, cmd Command, now time.Time) (State, []core.Slice) {
	if cmd == nil {
		return s, nil
	}
	return cmd.apply(s, now)
}

// nextID hands out session-unique, monotonically increasing entity ids.
func (s *State) nextID() int64 {
	if s.lastID < s.maxID() {
		s.lastID = s.maxID()
	}
	s.lastID++
	return s.lastID
}

// maxID scans every collection for the highest id in use. Needed after an
// import, where ids arrive from outside the counter.
func (s *State) maxID() int64 {
	var top int64
	bump := func(id int64) {
		if id > top {
			top = id
		}
	}
	for _, m := range s.Months {
		bump(m.ID)
		for _, e := range m.Expenses {
			bump(e.ID)
		}
	}
	for _, g := range s.Goals {
		bump(g.ID)
	}
	for _, d := range s.Debts {
		bump(d.ID)
	}
	for _, a := range s.Savings {
		bump(a.ID)
	}
	return top
}

func (s State) monthIndex(id int64) int {
	for i, m := range s.Months {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// MonthByID returns the month with the given id, or false when absent.
func (s State) MonthByID(id int64) (core.Month, bool) {
	i := s.monthIndex(id)
	if i < 0 {
		return core.Month{}, false
	}
	return s.Months[i], true
}
