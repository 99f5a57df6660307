// Package session orchestrates one user session: it owns the entity store,
// runs commands through the ledger, keeps the derived alert list current, and
// persists changed slices to durable storage in the background.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetflow/internal/alerts"
	"budgetflow/internal/core"
	"budgetflow/internal/events"
	"budgetflow/internal/ledger"
	"budgetflow/internal/snapshot"
	"budgetflow/internal/store"
)

// Service applies commands one at a time in submission order; it is the only
// mutator of its state. Persistence writes are fire-and-forget per slice:
// a failed write is logged and never touches the in-memory state. Writes to
// the same slice are version-stamped and serialized, so a slower older write
// can never land over a newer one.
type Service struct {
	store  store.SliceStore
	events *events.Client // optional, nil disables publishing
	clock  func() time.Time

	mu        sync.Mutex
	state     ledger.State
	alerts    []core.Alert
	dismissed map[string]bool
	versions  map[core.Slice]uint64

	saveLocks map[core.Slice]*sync.Mutex
	written   map[core.Slice]uint64 // guarded by the matching saveLocks entry

	saves sync.WaitGroup
}

// payload is one encoded slice value stamped with the version it was encoded
// at. A write is skipped when a higher version has already been written.
type payload struct {
	data    []byte
	version uint64
}

// New builds a session over the given store. The defaults settings are used
// until Restore finds a persisted settings slice; pass core.DefaultSettings()
// when no configuration applies. ev may be nil to disable event publishing.
func New(st store.SliceStore, ev *events.Client, defaults core.Settings) *Service {
	state := ledger.NewState()
	if defaults.Validate() == nil {
		state.Settings = defaults
	}
	saveLocks := make(map[core.Slice]*sync.Mutex, len(core.AllSlices))
	for _, slice := range core.AllSlices {
		saveLocks[slice] = &sync.Mutex{}
	}
	return &Service{
		store:     st,
		events:    ev,
		clock:     time.Now,
		state:     state,
		dismissed: make(map[string]bool),
		versions:  make(map[core.Slice]uint64),
		saveLocks: saveLocks,
		written:   make(map[core.Slice]uint64),
	}
}

// Restore loads every persisted slice into a fresh state. On any decode
// failure the prior state is left untouched and the error is returned as a
// *snapshot.DecodeError.
func (s *Service) Restore(ctx context.Context) error {
	var snap snapshot.Snapshot
	read := func(slice core.Slice, into any) error {
		data, err := s.store.Read(ctx, slice)
		if err != nil {
			return fmt.Errorf("read slice %q: %w", slice, err)
		}
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, into); err != nil {
			return &snapshot.DecodeError{Err: fmt.Errorf("slice %q: %w", slice, err)}
		}
		return nil
	}

	if err := read(core.SliceMonths, &snap.Months); err != nil {
		return err
	}
	if err := read(core.SliceTemplates, &snap.DefaultExpenses); err != nil {
		return err
	}
	if err := read(core.SliceGoals, &snap.Goals); err != nil {
		return err
	}
	if err := read(core.SliceDebts, &snap.Debts); err != nil {
		return err
	}
	if err := read(core.SliceSavings, &snap.Savings); err != nil {
		return err
	}
	if err := read(core.SliceSettings, &snap.Settings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, _ = ledger.Apply(s.state, snap.Command(), s.clock())
	s.recomputeAlertsLocked()
	return nil
}

// Dispatch applies one command and returns the slices it changed. Changed
// slices are saved in the background; alert recomputation happens before
// Dispatch returns.
func (s *Service) Dispatch(ctx context.Context, cmd ledger.Command) []core.Slice {
	s.mu.Lock()
	next, changed := ledger.Apply(s.state, cmd, s.clock())
	if len(changed) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.state = next
	s.recomputeAlertsLocked()
	payloads, err := s.encodeSlicesLocked(changed)
	s.mu.Unlock()

	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode changed slices", "error", err)
		return changed
	}

	background := context.WithoutCancel(ctx)
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		s.save(background, payloads)
		s.publish(background, changed)
	}()

	return changed
}

// Flush synchronously writes every slice to the store. Used at shutdown and
// by tools that need the store current before exiting.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	payloads, err := s.encodeSlicesLocked(core.AllSlices)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for slice, p := range payloads {
		g.Go(func() error {
			return s.writeLatest(ctx, slice, p)
		})
	}
	return g.Wait()
}

// Close waits for in-flight background saves and closes the store.
func (s *Service) Close() error {
	s.saves.Wait()
	return s.store.Close()
}

// State returns the current entity store value.
func (s *Service) State() ledger.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Alerts returns the active alert list.
func (s *Service) Alerts() []core.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// DismissAlert suppresses the alert with the given id for the rest of the
// session. Dismissals are not persisted; a restart brings the alert back if
// its condition still holds.
func (s *Service) DismissAlert(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dismissed[id] {
		return
	}
	s.dismissed[id] = true
	s.recomputeAlertsLocked()
}

// Export captures the full current state as a snapshot document.
func (s *Service) Export() snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.Export(s.state)
}

// recomputeAlertsLocked rebuilds the alert list from scratch and replaces the
// current one only when it differs by value.
func (s *Service) recomputeAlertsLocked() {
	next := alerts.Compute(s.state.Months, s.state.Settings.MonthlyLimit, s.dismissed)
	if !alerts.Equal(s.alerts, next) {
		s.alerts = next
	}
}

// encodeSlicesLocked serializes the named slices and stamps each with the
// next version for that slice. Versions advance under the state lock, in the
// same order the state changes committed.
func (s *Service) encodeSlicesLocked(slices []core.Slice) (map[core.Slice]payload, error) {
	payloads := make(map[core.Slice]payload, len(slices))
	for _, slice := range slices {
		var (
			data []byte
			err  error
		)
		switch slice {
		case core.SliceMonths:
			data, err = json.Marshal(s.state.Months)
		case core.SliceTemplates:
			data, err = json.Marshal(s.state.Templates)
		case core.SliceGoals:
			data, err = json.Marshal(s.state.Goals)
		case core.SliceDebts:
			data, err = json.Marshal(s.state.Debts)
		case core.SliceSavings:
			data, err = json.Marshal(s.state.Savings)
		case core.SliceSettings:
			data, err = json.Marshal(s.state.Settings)
		default:
			err = fmt.Errorf("unknown slice %q", slice)
		}
		if err != nil {
			return nil, fmt.Errorf("encode slice %q: %w", slice, err)
		}
		s.versions[slice]++
		payloads[slice] = payload{data: data, version: s.versions[slice]}
	}
	return payloads, nil
}

// save writes the encoded slices in parallel, one write per slice. There is
// no cross-slice transaction.
func (s *Service) save(ctx context.Context, payloads map[core.Slice]payload) {
	g, ctx := errgroup.WithContext(ctx)
	for slice, p := range payloads {
		g.Go(func() error {
			return s.writeLatest(ctx, slice, p)
		})
	}
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Background save failed", "error", err)
	}
}

// writeLatest holds the slice's write lock for the duration of the store
// write, so two writes to the same slice never interleave, and drops the
// payload when a newer version already landed.
func (s *Service) writeLatest(ctx context.Context, slice core.Slice, p payload) error {
	lock := s.saveLocks[slice]
	lock.Lock()
	defer lock.Unlock()
	if s.written[slice] >= p.version {
		return nil
	}
	if err := s.store.Write(ctx, slice, p.data); err != nil {
		return fmt.Errorf("save slice %q: %w", slice, err)
	}
	s.written[slice] = p.version
	return nil
}

func (s *Service) publish(ctx context.Context, changed []core.Slice) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSliceChanged(ctx, changed); err != nil {
		slog.ErrorContext(ctx, "Failed to publish slice change", "error", err)
	}
}
