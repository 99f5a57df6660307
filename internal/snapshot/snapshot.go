// Package snapshot moves whole-session state in and out of the engine as a
// single structured document. Import merges by presence: collections absent
// from the document leave the store untouched.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"budgetflow/internal/core"
	"budgetflow/internal/ledger"
)

// Snapshot mirrors the persisted slice names at the top level. ActiveTab and
// CurrentView are view-state written by the UI; the engine carries them
// opaquely and never interprets them.
type Snapshot struct {
	Months          *[]core.Month           `json:"months,omitempty"`
	DefaultExpenses *[]core.ExpenseTemplate `json:"defaultExpenses,omitempty"`
	Goals           *[]core.Goal            `json:"goals,omitempty"`
	Debts           *[]core.Debt            `json:"debts,omitempty"`
	Savings         *[]core.SavingAsset     `json:"savings,omitempty"`
	Settings        *core.Settings          `json:"settings,omitempty"`
	ActiveTab       string                  `json:"activeTab,omitempty"`
	CurrentView     string                  `json:"currentView,omitempty"`
}

// DecodeError reports a corrupt or malformed snapshot document. A failed
// decode never changes engine state; the caller keeps what it had.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode snapshot: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Export captures the full current state, every collection present.
func Export(s ledger.State) Snapshot {
	months := notNil(s.Months)
	templates := notNil(s.Templates)
	goals := notNil(s.Goals)
	debts := notNil(s.Debts)
	savings := notNil(s.Savings)
	settings := s.Settings
	return Snapshot{
		Months:          &months,
		DefaultExpenses: &templates,
		Goals:           &goals,
		Debts:           &debts,
		Savings:         &savings,
		Settings:        &settings,
	}
}

// Decode reads a snapshot document.
func Decode(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, &DecodeError{Err: err}
	}
	return snap, nil
}

// Encode writes the snapshot as an indented document, one field per slice.
func Encode(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Command converts the snapshot into the import command the ledger applies.
func (snap Snapshot) Command() ledger.ImportSnapshot {
	return ledger.ImportSnapshot{
		Months:    snap.Months,
		Templates: snap.DefaultExpenses,
		Goals:     snap.Goals,
		Debts:     snap.Debts,
		Savings:   snap.Savings,
		Settings:  snap.Settings,
	}
}

func notNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
