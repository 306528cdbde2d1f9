package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/core/event"
	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/game"
)

// ActionSystem advances the front of every action queue. A front action
// whose timer reaches zero is popped and reported exactly once through
// event.ActionCompleted. Phase 5 (Action).
type ActionSystem struct {
	game *game.Store
	bus  *event.Bus
	log  *zap.Logger
}

func NewActionSystem(gs *game.Store, bus *event.Bus, log *zap.Logger) *ActionSystem {
	return &ActionSystem{game: gs, bus: bus, log: log}
}

func (s *ActionSystem) Phase() coresys.Phase { return coresys.PhaseAction }

func (s *ActionSystem) Update(dt time.Duration) {
	s.game.ActionQueues.Each(func(id ecs.EntityID, q *game.ActionQueue) {
		front, ok := q.Front()
		if !ok {
			return
		}
		front.Remaining = game.SatSub(front.Remaining, dt)
		if front.Remaining > 0 {
			return
		}

		done, _ := q.PopFront()
		var target ecs.EntityID
		if t, ok := s.game.Targets.Get(id); ok && t.HasTarget() {
			target = t.Entity
		}
		event.Emit(s.bus, event.ActionCompleted{
			Entity:   id,
			ActionID: done.ID,
			Tag:      done.Tag,
			Spell:    done.Spell,
			Target:   target,
		})
		s.log.Info("action completed",
			zap.String("entity", s.game.Tag(id)),
			zap.Stringer("kind", done.Kind),
			zap.String("action", done.Tag),
		)
	})
}
