package queue

import (
	"testing"

	"vaultwatch/internal/model"
)

func TestShiftEmpty(t *testing.T) {
	q := New()
	if _, ok := q.Shift(); ok {
		t.Fatalf("expected empty queue")
	}
	if q.Len() != 0 {
		t.Fatalf("len mismatch: %d", q.Len())
	}
}

func TestFIFOOrder(t *testing.T) {
	q := New()
	names := []string{"Deposit", "Withdraw", "SetCap"}
	for _, name := range names {
		q.Push(model.QueuedEvent{EventName: name})
	}

	if q.Len() != 3 {
		t.Fatalf("len mismatch: %d", q.Len())
	}

	for _, want := range names {
		ev, ok := q.Shift()
		if !ok {
			t.Fatalf("queue drained early, wanted %s", want)
		}
		if ev.EventName != want {
			t.Fatalf("order mismatch: got %s, want %s", ev.EventName, want)
		}
	}

	if _, ok := q.Shift(); ok {
		t.Fatalf("expected queue to be empty after draining")
	}
}
