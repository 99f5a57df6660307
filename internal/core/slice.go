package core

// Slice identifies one of the independently persisted top-level collections.
// Each slice is serialized and saved on its own; there is no cross-slice
// transaction.
type Slice string

const (
	SliceMonths    Slice = "months"
	SliceTemplates Slice = "defaultExpenses"
	SliceGoals     Slice = "goals"
	SliceDebts     Slice = "debts"
	SliceSavings   Slice = "savings"
	SliceSettings  Slice = "settings"
)

// AllSlices lists every persisted slice in canonical order.
var AllSlices = []Slice{
	SliceMonths,
	SliceTemplates,
	SliceGoals,
	SliceDebts,
	SliceSavings,
	SliceSettings,
}

func (s Slice) IsValid() bool {
	for _, known := range AllSlices {
		if s == known {
			return true
		}
	}
	return false
}
