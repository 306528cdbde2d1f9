package system

import (
	"time"

	"github.com/periodicity/sim/internal/core/ecs"
	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/data"
	"github.com/periodicity/sim/internal/game"
	"github.com/periodicity/sim/internal/present"
)

// PresentSyncSystem copies game state into linked presentation components.
// Bars that lost their game entity are hidden; linked sprites follow the
// entity's mortality and casting state. Phase 6 (Present).
type PresentSyncSystem struct {
	game   *game.Store
	pres   *present.Store
	spells *data.SpellTable
}

func NewPresentSyncSystem(gs *game.Store, ps *present.Store, spells *data.SpellTable) *PresentSyncSystem {
	return &PresentSyncSystem{game: gs, pres: ps, spells: spells}
}

func (s *PresentSyncSystem) Phase() coresys.Phase { return coresys.PhasePresent }

func (s *PresentSyncSystem) Update(_ time.Duration) {
	s.pres.Healthbars.Each(func(id ecs.EntityID, hb *present.Healthbar) {
		st, ok := s.linkedStats(id)
		if !ok {
			hb.Draw = false
			return
		}
		hb.Fill = st.HealthRatio()
		hb.Draw = true
	})

	s.pres.Castbars.Each(func(id ecs.EntityID, cb *present.Castbar) {
		front, ok := s.linkedFront(id)
		if !ok {
			cb.Progress = 0
			cb.Icon = ""
			cb.Draw = false
			return
		}
		cb.Progress = front.Progress()
		cb.Icon = ""
		if info := s.spells.Get(front.Spell); info != nil {
			cb.Icon = info.Icon
		}
		cb.Draw = true
	})

	s.pres.Sprites.Each(func(id ecs.EntityID, sp *present.Sprite) {
		g, ok := s.pres.Links.Game(id)
		if !ok {
			return
		}
		alive := s.game.IsAlive(g)
		sp.Desaturated = !alive
		switch {
		case !alive:
			sp.Animation = present.AnimDead
		case s.casting(g):
			sp.Animation = present.AnimCast
		default:
			sp.Animation = present.AnimIdle
		}
	})
}

func (s *PresentSyncSystem) linkedStats(pres ecs.EntityID) (*game.Stats, bool) {
	g, ok := s.pres.Links.Game(pres)
	if !ok {
		return nil, false
	}
	return s.game.Stats.Get(g)
}

func (s *PresentSyncSystem) linkedFront(pres ecs.EntityID) (*game.Action, bool) {
	g, ok := s.pres.Links.Game(pres)
	if !ok {
		return nil, false
	}
	q, ok := s.game.ActionQueues.Get(g)
	if !ok {
		return nil, false
	}
	return q.Front()
}

func (s *PresentSyncSystem) casting(g ecs.EntityID) bool {
	q, ok := s.game.ActionQueues.Get(g)
	if !ok {
		return false
	}
	front, ok := q.Front()
	return ok && front.Kind == game.ActionCastingSpell
}
