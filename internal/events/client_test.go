package events

import (
	"context"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"

	"budgetflow/internal/core"
)

func delivery(t *testing.T, slices []core.Slice) amqp091.Delivery {
	t.Helper()
	body, err := NewSliceChangedMessage(slices).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return amqp091.Delivery{Body: body}
}

func TestConsumeLoopDeliversMessages(t *testing.T) {
	msgs := make(chan amqp091.Delivery, 1)
	msgs <- delivery(t, []core.Slice{core.SliceMonths, core.SliceGoals})

	ctx, cancel := context.WithCancel(context.Background())
	var got []*SliceChangedMessage
	err := consumeLoop(ctx, msgs, func(m *SliceChangedMessage) error {
		got = append(got, m)
		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 handled message, got %d", len(got))
	}
	if len(got[0].Slices) != 2 || got[0].Slices[0] != core.SliceMonths {
		t.Fatalf("unexpected slices %v", got[0].Slices)
	}
}

func TestConsumeLoopSkipsUndecodable(t *testing.T) {
	msgs := make(chan amqp091.Delivery, 2)
	msgs <- amqp091.Delivery{Body: []byte("not json")}
	msgs <- delivery(t, []core.Slice{core.SliceDebts})

	ctx, cancel := context.WithCancel(context.Background())
	var handled int
	err := consumeLoop(ctx, msgs, func(m *SliceChangedMessage) error {
		handled++
		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if handled != 1 {
		t.Fatalf("garbage delivery should be dropped, handler ran %d times", handled)
	}
}

func TestConsumeLoopHandlerErrorContinues(t *testing.T) {
	msgs := make(chan amqp091.Delivery, 2)
	msgs <- delivery(t, []core.Slice{core.SliceMonths})
	msgs <- delivery(t, []core.Slice{core.SliceGoals})

	ctx, cancel := context.WithCancel(context.Background())
	var handled int
	err := consumeLoop(ctx, msgs, func(m *SliceChangedMessage) error {
		handled++
		if handled == 1 {
			return errors.New("transient")
		}
		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if handled != 2 {
		t.Fatalf("loop should continue past a handler error, handled %d", handled)
	}
}

func TestConsumeLoopClosedChannel(t *testing.T) {
	msgs := make(chan amqp091.Delivery)
	close(msgs)

	err := consumeLoop(context.Background(), msgs, func(*SliceChangedMessage) error {
		t.Fatal("handler should never run")
		return nil
	})
	if err == nil {
		t.Fatal("expected error when the delivery channel closes")
	}
}
