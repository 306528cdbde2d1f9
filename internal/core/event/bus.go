package event

import "reflect"

// Bus is a double-buffered event bus. Events emitted in tick N are readable
// in tick N+1. SwapBuffers() is called at tick start by the input system and
// DispatchAll() later in the same tick by the effect system.
//
// A Bus is owned by the tick goroutine: Subscribe, Emit and dispatch must all
// be called from it. Other goroutines reach the simulation through the input
// command channel instead.
type Bus struct {
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
	order    []reflect.Type // first-seen order, keeps dispatch deterministic
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer (will be readable next tick).
func Emit[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.track(t)
	b.back[t] = append(b.back[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.track(t)
	b.handlers[t] = append(b.handlers[t], fn)
}

func (b *Bus) track(t reflect.Type) {
	if _, seen := b.handlers[t]; seen {
		return
	}
	if _, seen := b.back[t]; seen {
		return
	}
	if _, seen := b.front[t]; seen {
		return
	}
	b.order = append(b.order, t)
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// Pending reports how many events wait in the back buffer.
func (b *Bus) Pending() int {
	n := 0
	for _, evs := range b.back {
		n += len(evs)
	}
	return n
}

// DispatchAll delivers all front-buffer events to their subscribed handlers,
// then empties the front buffer so a second call in the same tick is a no-op.
func (b *Bus) DispatchAll() {
	for _, t := range b.order {
		events := b.front[t]
		if len(events) == 0 {
			continue
		}
		handlers := b.handlers[t]
		for _, ev := range events {
			for _, h := range handlers {
				// Type-assert the handler and call it.
				// This is safe because Subscribe and Emit use the same type key.
				callHandler(h, ev)
			}
		}
		b.front[t] = events[:0]
	}
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
