package event

import (
	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/data"
)

// ActionCompleted fires once when an action leaves the front of its queue
// with its timer at zero. Target is the caster's target at completion time.
type ActionCompleted struct {
	Entity   ecs.EntityID
	ActionID ecs.PropertyID
	Tag      string
	Spell    data.SpellID
	Target   ecs.EntityID
}

// DebuffApplied fires when a completion effect attaches a debuff.
type DebuffApplied struct {
	Entity   ecs.EntityID
	Source   ecs.EntityID
	DebuffID ecs.PropertyID
	Spell    data.SpellID
}

// EntityDied fires on the alive→dead transition derived from health.
type EntityDied struct {
	Entity ecs.EntityID
	Killer ecs.EntityID // zero when no attacker was recorded
}

// LevelUp fires when XP pushes an entity past its next-level threshold.
type LevelUp struct {
	Entity ecs.EntityID
	Level  uint32
}
