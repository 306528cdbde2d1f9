package event

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ping struct{ N int }
type pong struct{ S string }

func TestBusDeliversNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.N) })

	Emit(b, ping{1})
	Emit(b, ping{2})
	b.DispatchAll()
	assert.Empty(t, got, "events are not visible in the tick they were emitted")
	assert.Equal(t, 2, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got)

	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got, "front buffer is consumed once")
}

func TestBusDispatchOrderFollowsFirstSeen(t *testing.T) {
	b := NewBus()
	var log []string
	Subscribe(b, func(p pong) { log = append(log, "pong:"+p.S) })
	Subscribe(b, func(p ping) { log = append(log, "ping") })

	Emit(b, ping{1})
	Emit(b, pong{"a"})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, []string{"pong:a", "ping"}, log)
}

func TestBusEventsWithoutHandlersAreDropped(t *testing.T) {
	b := NewBus()
	Emit(b, ping{1})
	b.SwapBuffers()
	assert.NotPanics(t, b.DispatchAll)
	b.SwapBuffers()
	assert.Zero(t, b.Pending())
}

func TestBusTracksEachTypeOnce(t *testing.T) {
	b := NewBus()
	Subscribe(b, func(ping) {})
	Subscribe(b, func(ping) {})
	for i := 0; i < 3; i++ {
		Emit(b, ping{i})
		Emit(b, pong{"x"})
		b.SwapBuffers()
		b.DispatchAll()
	}
	assert.Equal(t, []reflect.Type{reflect.TypeOf(ping{}), reflect.TypeOf(pong{})}, b.order)
}
