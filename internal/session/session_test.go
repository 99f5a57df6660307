package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgetflow/internal/core"
	"budgetflow/internal/ledger"
	"budgetflow/internal/snapshot"
	"budgetflow/internal/store/memory"
)

var testNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func newTestService(st *memory.Store) *Service {
	s := New(st, nil, core.DefaultSettings())
	s.clock = func() time.Time { return testNow }
	return s
}

func TestDispatchSavesOnlyChangedSlices(t *testing.T) {
	st := memory.New()
	s := newTestService(st)
	ctx := context.Background()

	changed := s.Dispatch(ctx, ledger.CreateMonth{Name: "March 2026", Budget: decimal.NewFromInt(5000)})
	if len(changed) != 1 || changed[0] != core.SliceMonths {
		t.Fatalf("expected months changed, got %v", changed)
	}
	s.saves.Wait()

	data, err := st.Read(ctx, core.SliceMonths)
	if err != nil || data == nil {
		t.Fatalf("months slice not persisted: data=%v err=%v", data, err)
	}
	var months []core.Month
	if err := json.Unmarshal(data, &months); err != nil {
		t.Fatalf("persisted months unreadable: %v", err)
	}
	if len(months) != 1 || months[0].Name != "March 2026" {
		t.Fatalf("persisted months wrong: %+v", months)
	}

	// untouched slices were never written
	for _, slice := range []core.Slice{core.SliceGoals, core.SliceDebts, core.SliceSavings, core.SliceSettings} {
		if data, _ := st.Read(ctx, slice); data != nil {
			t.Fatalf("slice %q written without a change", slice)
		}
	}
}

func TestDispatchNoopWritesNothing(t *testing.T) {
	st := memory.New()
	s := newTestService(st)
	ctx := context.Background()

	if changed := s.Dispatch(ctx, ledger.DeleteMonth{MonthID: 42}); changed != nil {
		t.Fatalf("expected no-op, got %v", changed)
	}
	s.saves.Wait()
	if data, _ := st.Read(ctx, core.SliceMonths); data != nil {
		t.Fatal("no-op command must not write")
	}
}

func TestFailedSaveLeavesStateIntact(t *testing.T) {
	st := &failingStore{}
	s := New(st, nil, core.DefaultSettings())
	s.clock = func() time.Time { return testNow }
	ctx := context.Background()

	changed := s.Dispatch(ctx, ledger.CreateMonth{Name: "March 2026", Budget: decimal.NewFromInt(100)})
	if len(changed) != 1 {
		t.Fatalf("expected command applied despite store failure, got %v", changed)
	}
	s.saves.Wait()

	if len(s.State().Months) != 1 {
		t.Fatal("in-memory state lost after failed save")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	first := newTestService(st)
	first.Dispatch(ctx, ledger.AddTemplate{Template: core.ExpenseTemplate{Desc: "Rent", Val: decimal.NewFromInt(1500), Category: core.Housing}})
	first.Dispatch(ctx, ledger.CreateMonth{Name: "March 2026", Budget: decimal.NewFromInt(5000)})
	first.Dispatch(ctx, ledger.AddGoal{Goal: core.Goal{Name: "Vacation", Target: decimal.NewFromInt(2000)}})
	if err := first.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := newTestService(st)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	state := second.State()
	if len(state.Months) != 1 || state.Months[0].Name != "March 2026" {
		t.Fatalf("months not restored: %+v", state.Months)
	}
	if len(state.Templates) != 1 || len(state.Goals) != 1 {
		t.Fatal("templates or goals not restored")
	}
	if !state.Months[0].Expenses[0].Val.Equal(decimal.NewFromInt(1500)) {
		t.Fatal("seeded expense not restored")
	}

	// ids keep growing after restore
	second.Dispatch(ctx, ledger.AddGoal{Goal: core.Goal{Name: "Bike", Target: decimal.NewFromInt(800)}})
	goals := second.State().Goals
	if goals[1].ID <= goals[0].ID {
		t.Fatalf("restored ids not absorbed: %d <= %d", goals[1].ID, goals[0].ID)
	}
}

func TestRestoreEmptyStoreKeepsDefaults(t *testing.T) {
	s := newTestService(memory.New())
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("restore empty store: %v", err)
	}
	if s.State().Settings.MonthlyLimit != 80 {
		t.Fatalf("expected default limit 80, got %v", s.State().Settings.MonthlyLimit)
	}
}

func TestRestoreDecodeFailure(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	if err := st.Write(ctx, core.SliceMonths, []byte(`{broken`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := newTestService(st)
	s.Dispatch(ctx, ledger.AddGoal{Goal: core.Goal{Name: "Keep", Target: decimal.NewFromInt(1)}})
	s.saves.Wait()

	err := s.Restore(ctx)
	if err == nil {
		t.Fatal("expected decode error")
	}
	var derr *snapshot.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *snapshot.DecodeError, got %T", err)
	}
	// prior state untouched
	if len(s.State().Goals) != 1 {
		t.Fatal("failed restore corrupted prior state")
	}
}

func TestAlertsRecomputedOnDispatch(t *testing.T) {
	s := newTestService(memory.New())
	ctx := context.Background()

	s.Dispatch(ctx, ledger.CreateMonth{Name: "March 2026", Budget: decimal.NewFromInt(1000)})
	mid := s.State().Months[0].ID
	if got := s.Alerts(); len(got) != 0 {
		t.Fatalf("expected no alerts yet, got %v", got)
	}

	s.Dispatch(ctx, ledger.AddExpense{MonthID: mid, Expense: core.Expense{Desc: "Big", Val: decimal.NewFromInt(900)}})
	got := s.Alerts()
	if len(got) != 1 || got[0].Type != core.AlertWarning {
		t.Fatalf("expected warning at 90%%, got %+v", got)
	}

	s.Dispatch(ctx, ledger.AddExpense{MonthID: mid, Expense: core.Expense{Desc: "More", Val: decimal.NewFromInt(200)}})
	got = s.Alerts()
	if len(got) != 1 || got[0].Type != core.AlertDanger {
		t.Fatalf("expected danger past 100%%, got %+v", got)
	}
}

func TestDismissalLastsForSession(t *testing.T) {
	s := newTestService(memory.New())
	ctx := context.Background()

	s.Dispatch(ctx, ledger.CreateMonth{Name: "March 2026", Budget: decimal.NewFromInt(1000)})
	mid := s.State().Months[0].ID
	s.Dispatch(ctx, ledger.AddExpense{MonthID: mid, Expense: core.Expense{Desc: "Big", Val: decimal.NewFromInt(900)}})

	id := s.Alerts()[0].ID
	s.DismissAlert(id)
	if got := s.Alerts(); len(got) != 0 {
		t.Fatalf("expected alert gone after dismissal, got %v", got)
	}

	// escalating past 100 does not resurrect it
	s.Dispatch(ctx, ledger.AddExpense{MonthID: mid, Expense: core.Expense{Desc: "More", Val: decimal.NewFromInt(300)}})
	if got := s.Alerts(); len(got) != 0 {
		t.Fatalf("dismissed alert resurrected: %v", got)
	}
}

func TestDismissalNotPersisted(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	first := newTestService(st)
	first.Dispatch(ctx, ledger.CreateMonth{Name: "March 2026", Budget: decimal.NewFromInt(1000)})
	mid := first.State().Months[0].ID
	first.Dispatch(ctx, ledger.AddExpense{MonthID: mid, Expense: core.Expense{Desc: "Big", Val: decimal.NewFromInt(900)}})
	first.DismissAlert(first.Alerts()[0].ID)
	if err := first.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	second := newTestService(st)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := second.Alerts(); len(got) != 1 {
		t.Fatalf("alert should return after restart, got %v", got)
	}
}

func TestExportSnapshot(t *testing.T) {
	s := newTestService(memory.New())
	ctx := context.Background()
	s.Dispatch(ctx, ledger.CreateMonth{Name: "March 2026", Budget: decimal.NewFromInt(5000)})

	snap := s.Export()
	if snap.Months == nil || len(*snap.Months) != 1 {
		t.Fatalf("export missing months: %+v", snap)
	}
	if snap.Settings == nil {
		t.Fatal("export missing settings")
	}
}

func TestFlushWritesAllSlices(t *testing.T) {
	st := memory.New()
	s := newTestService(st)
	ctx := context.Background()

	if err := s.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	for _, slice := range core.AllSlices {
		data, err := st.Read(ctx, slice)
		if err != nil || data == nil {
			t.Fatalf("slice %q not flushed", slice)
		}
	}
}

func TestStaleSaveNeverOverwritesNewer(t *testing.T) {
	gs := &gatedStore{
		inner:   memory.New(),
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}
	s := New(gs, nil, core.DefaultSettings())
	s.clock = func() time.Time { return testNow }
	ctx := context.Background()

	// first months write is held open at the store while a second commit
	// lands behind it
	s.Dispatch(ctx, ledger.CreateMonth{Name: "March 2026", Budget: decimal.NewFromInt(1000)})
	<-gs.started
	s.Dispatch(ctx, ledger.CreateMonth{Name: "April 2026", Budget: decimal.NewFromInt(2000)})
	close(gs.gate)
	s.saves.Wait()

	data, err := gs.inner.Read(ctx, core.SliceMonths)
	if err != nil || data == nil {
		t.Fatalf("months slice not persisted: %v", err)
	}
	var months []core.Month
	if err := json.Unmarshal(data, &months); err != nil {
		t.Fatalf("persisted months unreadable: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("durable store holds %d months, in-memory has 2: older payload overwrote newer", len(months))
	}
}

// gatedStore holds the first months write open until gate is closed, so the
// test controls which of two concurrent saves reaches the store first.
type gatedStore struct {
	inner   *memory.Store
	gate    chan struct{}
	started chan struct{}
	once    sync.Once
}

func (g *gatedStore) Read(ctx context.Context, slice core.Slice) ([]byte, error) {
	return g.inner.Read(ctx, slice)
}

func (g *gatedStore) Write(ctx context.Context, slice core.Slice, data []byte) error {
	if slice == core.SliceMonths {
		first := false
		g.once.Do(func() {
			close(g.started)
			first = true
		})
		if first {
			<-g.gate
		}
	}
	return g.inner.Write(ctx, slice, data)
}

func (g *gatedStore) Close() error { return g.inner.Close() }

// failingStore rejects every write.
type failingStore struct{}

func (f *failingStore) Read(context.Context, core.Slice) ([]byte, error) { return nil, nil }
func (f *failingStore) Write(context.Context, core.Slice, []byte) error {
	return errors.New("disk full")
}
func (f *failingStore) Close() error { return nil }
