package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldBackend   = "backend"
	FieldSlice     = "slice"
	FieldSlices    = "slices"
	FieldMonthID   = "month_id"
	FieldMonthName = "month_name"
	FieldExpenseID = "expense_id"
	FieldAmount    = "amount"
	FieldPercent   = "percent_used"
	FieldAlertID   = "alert_id"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentSession  = "session"
	ComponentLedger   = "ledger"
	ComponentStore    = "store"
	ComponentEvents   = "events"
	ComponentSync     = "sync"
	ComponentAlerts   = "alerts"
	ComponentSnapshot = "snapshot"
)
