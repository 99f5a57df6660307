package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"budgetflow/internal/core"
)

// CreateMonth adds a month with the given unique name. The color comes from
// the rotating palette, and the expense list is seeded from every template.
// Seeded expenses carry day 1 of the month implied by the name, falling back
// to today when the name is not a "{Month} {Year}" label.
type CreateMonth struct {
	Name   string
	Budget decimal.Decimal
}

func (c CreateMonth) apply(s State, now time.Time) (State, []core.Slice) {
	if c.Name == "" || c.Budget.IsNegative() {
		return s, nil
	}
	for _, m := range s.Months {
		if m.Name == c.Name {
			return s, nil
		}
	}

	seedDate := core.DateOf(now)
	if year, mo, ok := core.ParseMonthName(c.Name); ok {
		seedDate = core.NewDate(year, mo, 1)
	}

	month := core.Month{
		ID:            s.nextID(),
		Name:          c.Name,
		Budget:        c.Budget,
		Color:         core.MonthColors[len(s.Months)%len(core.MonthColors)],
		Expenses:      make([]core.Expense, 0, len(s.Templates)),
		BudgetHistory: []core.BudgetChange{},
	}
	for _, t := range s.Templates {
		month.Expenses = append(month.Expenses, core.Expense{
			ID:       s.nextID(),
			Desc:     t.Desc,
			Val:      t.Val,
			Category: t.Category,
			Date:     seedDate,
			Time:     now.Format(core.TimeLayout),
			Tags:     []string{},
			Note:     core.RecurringNote,
			IsFixed:  true,
		})
	}

	s.Months = append(slices.Clone(s.Months), month)
	return s, []core.Slice{core.SliceMonths}
}

// DeleteMonth removes a month and, with it, all its expenses. Other
// collections are not cascaded.
type DeleteMonth struct {
	MonthID int64
}

func (c DeleteMonth) apply(s State, _ time.Time) (State, []core.Slice) {
	if s.monthIndex(c.MonthID) < 0 {
		return s, nil
	}
	kept := make([]core.Month, 0, len(s.Months)-1)
	for _, m := range s.Months {
		if m.ID != c.MonthID {
			kept = append(kept, m)
		}
	}
	s.Months = kept
	return s, []core.Slice{core.SliceMonths}
}

// UpdateBudget sets a month's budget and records the revision in the month's
// budget history.
type UpdateBudget struct {
	MonthID   int64
	NewBudget decimal.Decimal
	Reason    string
}

func (c UpdateBudget) apply(s State, now time.Time) (State, []core.Slice) {
	i := s.monthIndex(c.MonthID)
	if i < 0 || c.NewBudget.IsNegative() {
		return s, nil
	}
	months := slices.Clone(s.Months)
	m := months[i]
	m.BudgetHistory = append(slices.Clone(m.BudgetHistory), core.BudgetChange{
		OldBudget: m.Budget,
		NewBudget: c.NewBudget,
		Date:      core.DateOf(now),
		Reason:    c.Reason,
	})
	m.Budget = c.NewBudget
	months[i] = m
	s.Months = months
	return s, []core.Slice{core.SliceMonths}
}

// AddExpense appends an expense to the month's list. Date and time default to
// now when absent. Insertion order is the canonical order; it is not sorted
// by date.
type AddExpense struct {
	MonthID int64
	Expense core.Expense
}

func (c AddExpense) apply(s State, now time.Time) (State, []core.Slice) {
	i := s.monthIndex(c.MonthID)
	if i < 0 {
		return s, nil
	}
	e := c.Expense
	if e.Category == "" {
		e.Category = core.Other
	}
	if err := e.Validate(); err != nil {
		return s, nil
	}
	e.ID = s.nextID()
	if e.Date.IsZero() {
		e.Date = core.DateOf(now)
	}
	if e.Time == "" {
		e.Time = now.Format(core.TimeLayout)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	} else {
		e.Tags = slices.Clone(e.Tags)
	}

	months := slices.Clone(s.Months)
	m := months[i]
	m.Expenses = append(slices.Clone(m.Expenses), e)
	months[i] = m
	s.Months = months
	return s, []core.Slice{core.SliceMonths}
}

// ExpensePatch carries the fields an UpdateExpense replaces; nil fields are
// left untouched. IsFixed is deliberately not patchable: an expense edited to
// match a template does not retroactively become recurring.
type ExpensePatch struct {
	Desc     *string
	Val      *decimal.Decimal
	Category *core.Category
	Date     *core.Date
	Time     *string
	Tags     *[]string
	Note     *string
}

func (p ExpensePatch) merge(e core.Expense) (core.Expense, bool) {
	if p.Desc != nil {
		if *p.Desc == "" {
			return e, false
		}
		e.Desc = *p.Desc
	}
	if p.Val != nil {
		if !p.Val.IsPositive() {
			return e, false
		}
		e.Val = *p.Val
	}
	if p.Category != nil {
		if !p.Category.IsValid() {
			return e, false
		}
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Tags != nil {
		e.Tags = slices.Clone(*p.Tags)
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	return e, true
}

// UpdateExpense merges a patch into the expense with the given id. Expenses
// are addressed by id, not position, so a re-sorted display order can never
// make the patch land on the wrong expense.
type UpdateExpense struct {
	MonthID   int64
	ExpenseID int64
	Patch     ExpensePatch
}

func (c UpdateExpense) apply(s State, _ time.Time) (State, []core.Slice) {
	mi := s.monthIndex(c.MonthID)
	if mi < 0 {
		return s, nil
	}
	ei := slices.IndexFunc(s.Months[mi].Expenses, func(e core.Expense) bool {
		return e.ID == c.ExpenseID
	})
	if ei < 0 {
		return s, nil
	}
	patched, ok := c.Patch.merge(s.Months[mi].Expenses[ei])
	if !ok {
		return s, nil
	}
	months := slices.Clone(s.Months)
	m := months[mi]
	m.Expenses = slices.Clone(m.Expenses)
	m.Expenses[ei] = patched
	months[mi] = m
	s.Months = months
	return s, []core.Slice{core.SliceMonths}
}

// DeleteExpense removes the expense with the given id from the month.
type DeleteExpense struct {
	MonthID   int64
	ExpenseID int64
}

func (c DeleteExpense) apply(s State, _ time.Time) (State, []core.Slice) {
	mi := s.monthIndex(c.MonthID)
	if mi < 0 {
		return s, nil
	}
	ei := slices.IndexFunc(s.Months[mi].Expenses, func(e core.Expense) bool {
		return e.ID == c.ExpenseID
	})
	if ei < 0 {
		return s, nil
	}
	months := slices.Clone(s.Months)
	m := months[mi]
	m.Expenses = slices.Delete(slices.Clone(m.Expenses), ei, ei+1)
	months[mi] = m
	s.Months = months
	return s, []core.Slice{core.SliceMonths}
}

// AddTemplate appends a recurring-expense template.
type AddTemplate struct {
	Template core.ExpenseTemplate
}

func (c AddTemplate) apply(s State, _ time.Time) (State, []core.Slice) {
	if err := c.Template.Validate(); err != nil {
		return s, nil
	}
	t := c.Template
	if t.Category == "" {
		t.Category = core.Other
	}
	s.Templates = append(slices.Clone(s.Templates), t)
	return s, []core.Slice{core.SliceTemplates}
}

// DeleteTemplate removes the template at the given position. Templates have
// no ids; the template list is short and reordered only by deletion.
type DeleteTemplate struct {
	Index int
}

func (c DeleteTemplate) apply(s State, _ time.Time) (State, []core.Slice) {
	if c.Index < 0 || c.Index >= len(s.Templates) {
		return s, nil
	}
	s.Templates = slices.Delete(slices.Clone(s.Templates), c.Index, c.Index+1)
	return s, []core.Slice{core.SliceTemplates}
}

// AddGoal creates a savings goal.
type AddGoal struct {
	Goal core.Goal
}

func (c AddGoal) apply(s State, _ time.Time) (State, []core.Slice) {
	if err := c.Goal.Validate(); err != nil {
		return s, nil
	}
	g := c.Goal
	g.ID = s.nextID()
	s.Goals = append(slices.Clone(s.Goals), g)
	return s, []core.Slice{core.SliceGoals}
}

// AddToGoal increments a goal's current amount. The amount may carry any
// sign, and the result is not clamped at the target.
type AddToGoal struct {
	GoalID int64
	Amount decimal.Decimal
}

func (c AddToGoal) apply(s State, _ time.Time) (State, []core.Slice) {
	i := slices.IndexFunc(s.Goals, func(g core.Goal) bool { return g.ID == c.GoalID })
	if i < 0 {
		return s, nil
	}
	goals := slices.Clone(s.Goals)
	goals[i].Current = goals[i].Current.Add(c.Amount)
	s.Goals = goals
	return s, []core.Slice{core.SliceGoals}
}

// DeleteGoal removes the goal with the given id.
type DeleteGoal struct {
	GoalID int64
}

func (c DeleteGoal) apply(s State, _ time.Time) (State, []core.Slice) {
	i := slices.IndexFunc(s.Goals, func(g core.Goal) bool { return g.ID == c.GoalID })
	if i < 0 {
		return s, nil
	}
	s.Goals = slices.Delete(slices.Clone(s.Goals), i, i+1)
	return s, []core.Slice{core.SliceGoals}
}

// AddDebt records a debt owed to or by the user. The date defaults to today.
type AddDebt struct {
	Debt core.Debt
}

func (c AddDebt) apply(s State, now time.Time) (State, []core.Slice) {
	if err := c.Debt.Validate(); err != nil {
		return s, nil
	}
	d := c.Debt
	d.ID = s.nextID()
	d.Settled = false
	if d.Date.IsZero() {
		d.Date = core.DateOf(now)
	}
	s.Debts = append(slices.Clone(s.Debts), d)
	return s, []core.Slice{core.SliceDebts}
}

// SettleDebt marks a debt as settled. There is no un-settle operation;
// settling an already settled debt is a no-op.
type SettleDebt struct {
	DebtID int64
}

func (c SettleDebt) apply(s State, _ time.Time) (State, []core.Slice) {
	i := slices.IndexFunc(s.Debts, func(d core.Debt) bool { return d.ID == c.DebtID })
	if i < 0 || s.Debts[i].Settled {
		return s, nil
	}
	debts := slices.Clone(s.Debts)
	debts[i].Settled = true
	s.Debts = debts
	return s, []core.Slice{core.SliceDebts}
}

// DeleteDebt removes the debt with the given id.
type DeleteDebt struct {
	DebtID int64
}

func (c DeleteDebt) apply(s State, _ time.Time) (State, []core.Slice) {
	i := slices.IndexFunc(s.Debts, func(d core.Debt) bool { return d.ID == c.DebtID })
	if i < 0 {
		return s, nil
	}
	s.Debts = slices.Delete(slices.Clone(s.Debts), i, i+1)
	return s, []core.Slice{core.SliceDebts}
}

// AddSaving records a holding in the flat asset ledger.
type AddSaving struct {
	Asset core.SavingAsset
}

func (c AddSaving) apply(s State, _ time.Time) (State, []core.Slice) {
	if err := c.Asset.Validate(); err != nil {
		return s, nil
	}
	a := c.Asset
	a.ID = s.nextID()
	s.Savings = append(slices.Clone(s.Savings), a)
	return s, []core.Slice{core.SliceSavings}
}

// SavingPatch carries the fields an UpdateSaving replaces; nil fields are
// left untouched.
type SavingPatch struct {
	Name   *string
	Amount *decimal.Decimal
	Type   *core.SavingType
	Note   *string
}

func (p SavingPatch) merge(a core.SavingAsset) (core.SavingAsset, bool) {
	if p.Name != nil {
		if *p.Name == "" {
			return a, false
		}
		a.Name = *p.Name
	}
	if p.Amount != nil {
		a.Amount = *p.Amount
	}
	if p.Type != nil {
		if !p.Type.IsValid() {
			return a, false
		}
		a.Type = *p.Type
	}
	if p.Note != nil {
		a.Note = *p.Note
	}
	return a, true
}

// UpdateSaving merges a patch into the holding with the given id.
type UpdateSaving struct {
	SavingID int64
	Patch    SavingPatch
}

func (c UpdateSaving) apply(s State, _ time.Time) (State, []core.Slice) {
	i := slices.IndexFunc(s.Savings, func(a core.SavingAsset) bool { return a.ID == c.SavingID })
	if i < 0 {
		return s, nil
	}
	patched, ok := c.Patch.merge(s.Savings[i])
	if !ok {
		return s, nil
	}
	savings := slices.Clone(s.Savings)
	savings[i] = patched
	s.Savings = savings
	return s, []core.Slice{core.SliceSavings}
}

// DeleteSaving removes the holding with the given id.
type DeleteSaving struct {
	SavingID int64
}

func (c DeleteSaving) apply(s State, _ time.Time) (State, []core.Slice) {
	i := slices.IndexFunc(s.Savings, func(a core.SavingAsset) bool { return a.ID == c.SavingID })
	if i < 0 {
		return s, nil
	}
	s.Savings = slices.Delete(slices.Clone(s.Savings), i, i+1)
	return s, []core.Slice{core.SliceSavings}
}

// UpdateSettings replaces the process-wide settings.
type UpdateSettings struct {
	Settings core.Settings
}

func (c UpdateSettings) apply(s State, _ time.Time) (State, []core.Slice) {
	if err := c.Settings.Validate(); err != nil {
		return s, nil
	}
	s.Settings = c.Settings
	return s, []core.Slice{core.SliceSettings}
}

// ImportSnapshot shallow-replaces the collections present in the snapshot;
// absent fields leave the current collections untouched. Ids arriving with
// the snapshot are folded into the id counter so later commands cannot
// collide with them.
type ImportSnapshot struct {
	Months    *[]core.Month
	Templates *[]core.ExpenseTemplate
	Goals     *[]core.Goal
	Debts     *[]core.Debt
	Savings   *[]core.SavingAsset
	Settings  *core.Settings
}

func (c ImportSnapshot) apply(s State, _ time.Time) (State, []core.Slice) {
	var changed []core.Slice
	if c.Months != nil {
		s.Months = slices.Clone(*c.Months)
		changed = append(changed, core.SliceMonths)
	}
	if c.Templates != nil {
		s.Templates = slices.Clone(*c.Templates)
		changed = append(changed, core.SliceTemplates)
	}
	if c.Goals != nil {
		s.Goals = slices.Clone(*c.Goals)
		changed = append(changed, core.SliceGoals)
	}
	if c.Debts != nil {
		s.Debts = slices.Clone(*c.Debts)
		changed = append(changed, core.SliceDebts)
	}
	if c.Savings != nil {
		s.Savings = slices.Clone(*c.Savings)
		changed = append(changed, core.SliceSavings)
	}
	if c.Settings != nil {
		s.Settings = *c.Settings
		changed = append(changed, core.SliceSettings)
	}
	if len(changed) == 0 {
		return s, nil
	}
	if top := s.maxID(); top > s.lastID {
		s.lastID = top
	}
	return s, changed
}
