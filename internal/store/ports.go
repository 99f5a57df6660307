// Package store defines the durable key-value contract the engine persists
// through. Each top-level slice is written under its own key, independently
// of the others; a crash between two writes can leave storage with one slice
// newer than another, and the engine tolerates that on restore.
package store

import (
	"context"

	"budgetflow/internal/core"
)

// SliceStore is the outbound port for durable storage. Implementations hold
// one encoded value per slice key.
type SliceStore interface {
	// Read returns the stored bytes for the slice, or (nil, nil) when the
	// slice has never been written.
	Read(ctx context.Context, slice core.Slice) ([]byte, error)

	// Write replaces the stored bytes for the slice.
	Write(ctx context.Context, slice core.Slice, data []byte) error

	Close() error
}
