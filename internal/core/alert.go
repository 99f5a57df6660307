package core

const (
	AlertWarning AlertType = "warning"
	AlertDanger  AlertType = "danger"
)

type AlertType string

// Alert is a derived budget-threshold notice. Alerts are never created or
// edited directly; they are recomputed from months and settings, and the only
// user interaction is dismissal by id.
type Alert struct {
	ID      string    `json:"id"`
	Type    AlertType `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}
