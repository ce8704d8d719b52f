package pagination

import "testing"

func TestEventBusEmitStartInvokesHandlersInOrder(t *testing.T) {
	b := newEventBus()
	var order []int
	b.OnReflowStart(func(ReflowStartEvent) { order = append(order, 1) })
	b.OnReflowStart(func(ReflowStartEvent) { order = append(order, 2) })

	b.emitStart(ReflowStartEvent{})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestEventBusUnregisterStopsFutureCalls(t *testing.T) {
	b := newEventBus()
	calls := 0
	unregister := b.OnReflowStart(func(ReflowStartEvent) { calls++ })

	b.emitStart(ReflowStartEvent{})
	unregister()
	b.emitStart(ReflowStartEvent{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (unregistered handler fired again)", calls)
	}
}

func TestEventBusOnReflowEndCarriesModel(t *testing.T) {
	b := newEventBus()
	model := &PaginationModel{TotalContentHeight: 42}
	var got *PaginationModel
	b.OnReflowEnd(func(ev ReflowEndEvent) { got = ev.Model })

	b.emitEnd(ReflowEndEvent{Model: model})

	if got != model {
		t.Errorf("handler received %v, want %v", got, model)
	}
}

func TestEventBusOnPagesChanged(t *testing.T) {
	b := newEventBus()
	calls := 0
	b.OnPagesChanged(func(PagesChangedEvent) { calls++ })

	b.emitPagesChanged(PagesChangedEvent{})
	b.emitPagesChanged(PagesChangedEvent{})

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestEventBusEmitWithNoHandlersDoesNotPanic(t *testing.T) {
	b := newEventBus()
	b.emitStart(ReflowStartEvent{})
	b.emitEnd(ReflowEndEvent{})
	b.emitPagesChanged(PagesChangedEvent{})
}

func TestEventBusUnregisterIsIdempotent(t *testing.T) {
	b := newEventBus()
	calls := 0
	unregister := b.OnReflowStart(func(ReflowStartEvent) { calls++ })

	unregister()
	unregister() // must not panic or double-remove anything else

	b.emitStart(ReflowStartEvent{})
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}
