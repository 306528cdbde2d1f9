package game

import (
	"fmt"

	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/data"
)

// Spawn creates a game entity from a unit template and attaches its full
// component set. A player-allegiance unit becomes the store's player.
func (s *Store) Spawn(tmpl data.UnitTemplate) (ecs.EntityID, error) {
	u := tmpl.Resolved()
	side, err := ParseSide(u.Allegiance)
	if err != nil {
		return 0, fmt.Errorf("spawn %s: %w", u.Tag, err)
	}
	if _, exists := s.FindByTag(u.Tag); exists && u.Tag != "" {
		return 0, fmt.Errorf("spawn %s: tag already in use", u.Tag)
	}

	id := s.AddEntity(u.Tag)
	s.Mortalities.Set(id, &Mortality{ID: s.NextPropertyID(), Alive: u.HealthCurr > 0})
	s.Allegiances.Set(id, &Allegiance{ID: s.NextPropertyID(), Side: side})
	s.Stats.Set(id, &Stats{
		ID:         s.NextPropertyID(),
		HealthMax:  u.HealthMax,
		HealthCurr: u.HealthCurr,
		Attributes: u.Attributes,
	})
	s.Targets.Set(id, &Target{ID: s.NextPropertyID()})
	s.BuffBars.Set(id, &BuffBar{ID: s.NextPropertyID()})
	s.DebuffBars.Set(id, &DebuffBar{ID: s.NextPropertyID()})
	s.ActionQueues.Set(id, &ActionQueue{ID: s.NextPropertyID()})
	s.Levels.Set(id, &Level{
		ID:          s.NextPropertyID(),
		Curr:        u.Level,
		XP:          u.XP,
		NextLevelXP: u.NextLevelXP,
	})

	if side == SidePlayer {
		s.SetPlayer(id)
	}
	return id, nil
}
