package game

import (
	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/data"
)

// DamageKind tags where a damage event came from; presentation colours
// combat text by it.
type DamageKind uint8

const (
	DamageDirect DamageKind = iota // upfront spell damage
	DamageDebuff                   // damage-over-time tick
)

func (k DamageKind) String() string {
	if k == DamageDebuff {
		return "debuff"
	}
	return "direct"
}

// Damage is a pending health reduction. It lives for at most one tick.
type Damage struct {
	Amount uint32
	Target ecs.EntityID
	Source ecs.EntityID
	Kind   DamageKind
	Spell  data.SpellID
}

// DamageQueue buffers damage produced during a tick until the drain step.
type DamageQueue struct {
	events []Damage
}

func NewDamageQueue() *DamageQueue {
	return &DamageQueue{events: make([]Damage, 0, 32)}
}

func (q *DamageQueue) Push(d Damage) {
	q.events = append(q.events, d)
}

func (q *DamageQueue) Len() int { return len(q.events) }

// Drain hands every queued event to fn in FIFO order and then clears the
// queue, whether or not it held anything.
func (q *DamageQueue) Drain(fn func(Damage)) {
	for _, d := range q.events {
		fn(d)
	}
	q.events = q.events[:0]
}
