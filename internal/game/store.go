package game

import (
	"errors"
	"fmt"

	"github.com/periodicity/sim/internal/core/ecs"
)

// ErrNoPlayer means the world was built without a player entity.
var ErrNoPlayer = errors.New("no player entity")

// Store holds the game-logic component tables. It shares its entity id space
// with the presentation store through the ecs.World, so a destroyed entity is
// removed from both at once.
type Store struct {
	world *ecs.World

	Identities   *ecs.PtrComponentStore[Identity]
	Mortalities  *ecs.PtrComponentStore[Mortality]
	Allegiances  *ecs.PtrComponentStore[Allegiance]
	Stats        *ecs.PtrComponentStore[Stats]
	Targets      *ecs.PtrComponentStore[Target]
	BuffBars     *ecs.PtrComponentStore[BuffBar]
	DebuffBars   *ecs.PtrComponentStore[DebuffBar]
	ActionQueues *ecs.PtrComponentStore[ActionQueue]
	Levels       *ecs.PtrComponentStore[Level]

	playerID ecs.EntityID
}

func NewStore(w *ecs.World) *Store {
	s := &Store{
		world:        w,
		Identities:   ecs.NewPtrComponentStore[Identity](),
		Mortalities:  ecs.NewPtrComponentStore[Mortality](),
		Allegiances:  ecs.NewPtrComponentStore[Allegiance](),
		Stats:        ecs.NewPtrComponentStore[Stats](),
		Targets:      ecs.NewPtrComponentStore[Target](),
		BuffBars:     ecs.NewPtrComponentStore[BuffBar](),
		DebuffBars:   ecs.NewPtrComponentStore[DebuffBar](),
		ActionQueues: ecs.NewPtrComponentStore[ActionQueue](),
		Levels:       ecs.NewPtrComponentStore[Level](),
	}
	reg := w.Registry()
	reg.Register(s.Identities)
	reg.Register(s.Mortalities)
	reg.Register(s.Allegiances)
	reg.Register(s.Stats)
	reg.Register(s.Targets)
	reg.Register(s.BuffBars)
	reg.Register(s.DebuffBars)
	reg.Register(s.ActionQueues)
	reg.Register(s.Levels)
	reg.Register(s)
	return s
}

func (s *Store) World() *ecs.World { return s.world }

// NextPropertyID allocates an id for a component, action or debuff.
func (s *Store) NextPropertyID() ecs.PropertyID {
	return s.world.NextPropertyID()
}

// AddEntity creates a game entity with an Identity. An empty tag becomes
// "entity_<id>".
func (s *Store) AddEntity(tag string) ecs.EntityID {
	id := s.world.CreateEntity()
	if tag == "" {
		tag = fmt.Sprintf("entity_%d", id)
	}
	s.Identities.Set(id, &Identity{ID: s.NextPropertyID(), Tag: tag})
	return id
}

// FindByTag returns the lowest-id game entity whose tag matches.
func (s *Store) FindByTag(tag string) (ecs.EntityID, bool) {
	for _, id := range s.Identities.IDs() {
		if ident, _ := s.Identities.Get(id); ident.Tag == tag {
			return id, true
		}
	}
	return 0, false
}

// EntityIDByTag looks a tag up and creates a bare entity when none matches.
// Callers that only want to read should use FindByTag.
func (s *Store) EntityIDByTag(tag string) ecs.EntityID {
	if id, ok := s.FindByTag(tag); ok {
		return id
	}
	return s.AddEntity(tag)
}

// Tag returns an entity's tag, or "" when it has no Identity.
func (s *Store) Tag(id ecs.EntityID) string {
	if ident, ok := s.Identities.Get(id); ok {
		return ident.Tag
	}
	return ""
}

// SetPlayer marks id as the player entity.
func (s *Store) SetPlayer(id ecs.EntityID) { s.playerID = id }

// Player returns the player entity or ErrNoPlayer.
func (s *Store) Player() (ecs.EntityID, error) {
	if s.playerID.IsZero() || !s.Identities.Has(s.playerID) {
		return 0, ErrNoPlayer
	}
	return s.playerID, nil
}

// Remove implements ecs.Removable so a destroyed player is forgotten.
func (s *Store) Remove(id ecs.EntityID) {
	if s.playerID == id {
		s.playerID = 0
	}
}

// BySide returns the entities of one allegiance, ascending.
func (s *Store) BySide(side Side) []ecs.EntityID {
	var out []ecs.EntityID
	s.Allegiances.Each(func(id ecs.EntityID, a *Allegiance) {
		if a.Side == side {
			out = append(out, id)
		}
	})
	return out
}

// Enemies returns every enemy entity, ascending.
func (s *Store) Enemies() []ecs.EntityID {
	return s.BySide(SideEnemy)
}

// IsAlive reports the entity's derived mortality. Entities without a
// Mortality component count as alive.
func (s *Store) IsAlive(id ecs.EntityID) bool {
	if m, ok := s.Mortalities.Get(id); ok {
		return m.Alive
	}
	return s.Identities.Has(id)
}

// OpponentOf picks a target for id: the first living entity of a different
// allegiance, else any other game entity. ok is false when id is alone.
func (s *Store) OpponentOf(id ecs.EntityID) (ecs.EntityID, bool) {
	own, _ := s.Allegiances.Get(id)

	var fallback ecs.EntityID
	for _, other := range s.Identities.IDs() {
		if other == id {
			continue
		}
		if fallback.IsZero() {
			fallback = other
		}
		if own == nil || !s.IsAlive(other) {
			continue
		}
		if a, ok := s.Allegiances.Get(other); ok && a.Side != own.Side && a.Side != SideNeutral {
			return other, true
		}
	}
	return fallback, !fallback.IsZero()
}
