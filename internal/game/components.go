package game

import (
	"fmt"
	"time"

	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/data"
)

// Side is an entity's allegiance.
type Side uint8

const (
	SidePlayer Side = iota
	SideEnemy
	SideNeutral
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	case SideNeutral:
		return "neutral"
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// ParseSide maps a spawn-list allegiance name to a Side.
func ParseSide(name string) (Side, error) {
	switch name {
	case "player":
		return SidePlayer, nil
	case "enemy":
		return SideEnemy, nil
	case "neutral":
		return SideNeutral, nil
	}
	return SideNeutral, fmt.Errorf("unknown allegiance %q", name)
}

// Identity is carried by every game entity, exactly once.
type Identity struct {
	ID  ecs.PropertyID
	Tag string
}

// Mortality is derived from Stats.HealthCurr each tick.
type Mortality struct {
	ID           ecs.PropertyID
	Alive        bool
	LastAttacker ecs.EntityID // source of the last non-zero damage taken
}

type Allegiance struct {
	ID   ecs.PropertyID
	Side Side
}

type Stats struct {
	ID         ecs.PropertyID
	HealthMax  uint32
	HealthCurr uint32
	data.Attributes
}

// TakeDamage subtracts amount from HealthCurr, flooring at zero, and
// returns how much health was actually removed.
func (s *Stats) TakeDamage(amount uint32) uint32 {
	if amount >= s.HealthCurr {
		removed := s.HealthCurr
		s.HealthCurr = 0
		return removed
	}
	s.HealthCurr -= amount
	return amount
}

// HealthRatio is HealthCurr/HealthMax in [0,1]; 0 when HealthMax is 0.
func (s *Stats) HealthRatio() float64 {
	if s.HealthMax == 0 {
		return 0
	}
	return float64(s.HealthCurr) / float64(s.HealthMax)
}

type Target struct {
	ID     ecs.PropertyID
	Entity ecs.EntityID // zero = no target
}

func (t *Target) HasTarget() bool { return !t.Entity.IsZero() }

type Buff struct {
	ID       ecs.PropertyID
	Name     string
	Duration time.Duration
	Stacks   uint32
}

type BuffBar struct {
	ID    ecs.PropertyID
	Buffs []Buff
}

// Debuff is a damage-over-time effect. PendingDamage carries the fractional
// remainder between ticks and is always in [0,1) after a resolution.
type Debuff struct {
	ID            ecs.PropertyID
	Spell         data.SpellID
	Name          string
	TotalDuration time.Duration
	TimeLeft      time.Duration
	Stacks        uint32
	PendingDamage float64
	Source        ecs.EntityID
}

// Expired reports whether the debuff's timer has run out.
func (d *Debuff) Expired() bool { return d.TimeLeft == 0 }

type DebuffBar struct {
	ID      ecs.PropertyID
	Debuffs []Debuff
}

// ActionKind is what an entity is busy doing.
type ActionKind uint8

const (
	ActionCastingSpell ActionKind = iota
	ActionTraveling
	ActionMining
)

func (k ActionKind) String() string {
	switch k {
	case ActionCastingSpell:
		return "casting"
	case ActionTraveling:
		return "traveling"
	case ActionMining:
		return "mining"
	}
	return "unknown"
}

// Action is one timed entry in an ActionQueue. Only the queue front ticks.
type Action struct {
	ID        ecs.PropertyID
	Kind      ActionKind
	Tag       string
	TakesTime time.Duration // fixed at creation
	Remaining time.Duration
	Spell     data.SpellID // SpellNone when the action is not a cast
}

// Progress is the completed fraction in [0,1].
func (a *Action) Progress() float64 {
	if a.TakesTime <= 0 {
		return 1
	}
	p := 1 - float64(a.Remaining)/float64(a.TakesTime)
	if p < 0 {
		return 0
	}
	return p
}

type ActionQueue struct {
	ID    ecs.PropertyID
	Queue []Action
}

// Front returns the active action, if any.
func (q *ActionQueue) Front() (*Action, bool) {
	if len(q.Queue) == 0 {
		return nil, false
	}
	return &q.Queue[0], true
}

func (q *ActionQueue) Push(a Action) {
	q.Queue = append(q.Queue, a)
}

// PopFront removes and returns the active action.
func (q *ActionQueue) PopFront() (Action, bool) {
	if len(q.Queue) == 0 {
		return Action{}, false
	}
	a := q.Queue[0]
	copy(q.Queue, q.Queue[1:])
	q.Queue = q.Queue[:len(q.Queue)-1]
	return a, true
}

type Level struct {
	ID          ecs.PropertyID
	Curr        uint32
	XP          uint32
	NextLevelXP uint32
}

// SatSub returns a-b, floored at zero. A negative b leaves a unchanged.
func SatSub(a, b time.Duration) time.Duration {
	if b <= 0 {
		return a
	}
	if b >= a {
		return 0
	}
	return a - b
}
