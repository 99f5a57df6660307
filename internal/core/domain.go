package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	Housing       Category = "housing"
	Utilities     Category = "utilities"
	Subscriptions Category = "subscriptions"
	Transport     Category = "transport"
	Food          Category = "food"
	Entertainment Category = "entertainment"
	Shopping      Category = "shopping"
	Health        Category = "health"
	Other         Category = "other"
)

const (
	OwedToMe DebtType = "owed_to_me"
	IOwe     DebtType = "i_owe"
)

const (
	Cash     SavingType = "cash"
	Invest   SavingType = "invest"
	Assets   SavingType = "assets"
	Windfall SavingType = "windfall"
)

// RecurringNote marks expenses instantiated from a template.
const RecurringNote = "Recurring expense"

type (
	Category   string
	DebtType   string
	SavingType string

	Expense struct {
		ID       int64           `json:"id"`
		Desc     string          `json:"desc"`
		Val      decimal.Decimal `json:"val"`
		Category Category        `json:"category"`
		Date     Date            `json:"date"`
		Time     string          `json:"time"` // clock time, "15:04"
		Tags     []string        `json:"tags"`
		Note     string          `json:"note"`
		IsFixed  bool            `json:"isFixed"`
	}

	// BudgetChange records one revision of a month's budget.
	BudgetChange struct {
		OldBudget decimal.Decimal `json:"oldBudget"`
		NewBudget decimal.Decimal `json:"newBudget"`
		Date      Date            `json:"date"`
		Reason    string          `json:"reason"`
	}

	Month struct {
		ID            int64           `json:"id"`
		Name          string          `json:"name"` // human label, e.g. "March 2026"
		Budget        decimal.Decimal `json:"budget"`
		Color         string          `json:"color"`
		Expenses      []Expense       `json:"expenses"`
		BudgetHistory []BudgetChange  `json:"budgetHistory"`
	}

	// ExpenseTemplate is a reusable (desc, val, category) triple copied into
	// months as a recurring expense. A template and an expense refer to the
	// same outflow when desc and val match.
	ExpenseTemplate struct {
		Desc     string          `json:"desc"`
		Val      decimal.Decimal `json:"val"`
		Category Category        `json:"category"`
	}

	Goal struct {
		ID       int64           `json:"id"`
		Name     string          `json:"name"`
		Target   decimal.Decimal `json:"target"`
		Current  decimal.Decimal `json:"current"` // unclamped, may exceed Target
		Deadline *Date           `json:"deadline,omitempty"`
		Emoji    string          `json:"emoji"`
		Color    string          `json:"color"`
	}

	Debt struct {
		ID      int64           `json:"id"`
		Person  string          `json:"person"`
		Amount  decimal.Decimal `json:"amount"`
		Type    DebtType        `json:"type"`
		Reason  string          `json:"reason"`
		Date    Date            `json:"date"`
		Settled bool            `json:"settled"` // terminal once true
	}

	SavingAsset struct {
		ID     int64           `json:"id"`
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
		Type   SavingType      `json:"type"`
		Note   string          `json:"note"`
	}

	Settings struct {
		HourlyWage   decimal.Decimal `json:"hourlyWage"`
		MonthlyLimit float64         `json:"monthlyLimit"` // percent of budget, 0-100
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyPerson      = errors.New("empty person")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidType      = errors.New("invalid type")
	ErrInvalidLimit     = errors.New("invalid monthly limit")
	ErrInvalidWage      = errors.New("invalid hourly wage")
)

// MonthColors is the rotating palette assigned to new months.
var MonthColors = []string{
	"#10b981",
	"#3b82f6",
	"#8b5cf6",
	"#f59e0b",
	"#ef4444",
	"#ec4899",
	"#06b6d4",
	"#84cc16",
}

// Categories lists every valid expense category.
var Categories = []Category{
	Housing, Utilities, Subscriptions, Transport,
	Food, Entertainment, Shopping, Health, Other,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (t DebtType) IsValid() bool {
	return t == OwedToMe || t == IOwe
}

func (t SavingType) IsValid() bool {
	switch t {
	case Cash, Invest, Assets, Windfall:
		return true
	default:
		return false
	}
}

func (e Expense) Validate() error {
	if e.Desc == "" {
		return ErrEmptyDescription
	}
	if !e.Val.IsPositive() {
		return ErrInvalidAmount
	}
	if e.Category != "" && !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

func (t ExpenseTemplate) Validate() error {
	if t.Desc == "" {
		return ErrEmptyDescription
	}
	if !t.Val.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Category != "" && !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

func (g Goal) Validate() error {
	if g.Name == "" {
		return ErrEmptyName
	}
	if !g.Target.IsPositive() {
		return ErrInvalidAmount
	}
	if g.Current.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if d.Person == "" {
		return ErrEmptyPerson
	}
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !d.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (a SavingAsset) Validate() error {
	if a.Name == "" {
		return ErrEmptyName
	}
	if !a.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (s Settings) Validate() error {
	if !s.HourlyWage.IsPositive() {
		return ErrInvalidWage
	}
	if s.MonthlyLimit < 0 || s.MonthlyLimit > 100 {
		return ErrInvalidLimit
	}
	return nil
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		HourlyWage:   decimal.NewFromInt(50),
		MonthlyLimit: 80,
	}
}
