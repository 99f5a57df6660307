package store

import (
	"context"
	"fmt"

	"budgetflow/internal/store/memory"
	"budgetflow/internal/store/sheets"
	"budgetflow/internal/store/sqlite"
)

const (
	MemoryBackend Backend = "memory"
	SQLiteBackend Backend = "sqlite"
	SheetsBackend Backend = "sheets"
)

// Backend selects the slice store implementation.
type Backend string

func (b Backend) IsValid() bool {
	switch b {
	case MemoryBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}

// Config holds what each backend needs to come up.
type Config struct {
	Type Backend

	// SQLite
	SQLitePath string

	// Google Sheets
	SpreadsheetID string
	SheetName     string

	// Memory seed directory (optional)
	DataDirectory string
}

// Compile-time checks that every backend satisfies the port.
var (
	_ SliceStore = (*memory.Store)(nil)
	_ SliceStore = (*sqlite.Store)(nil)
	_ SliceStore = (*sheets.Store)(nil)
)

// New builds the configured slice store.
func New(ctx context.Context, cfg Config) (SliceStore, error) {
	switch cfg.Type {
	case MemoryBackend:
		if cfg.DataDirectory != "" {
			return memory.NewFromDir(cfg.DataDirectory), nil
		}
		return memory.New(), nil
	case SQLiteBackend:
		return sqlite.New(cfg.SQLitePath)
	case SheetsBackend:
		return sheets.New(ctx, cfg.SpreadsheetID, cfg.SheetName)
	default:
		return nil, fmt.Errorf("invalid backend type: %q", cfg.Type)
	}
}
