package system

import (
	"time"

	"github.com/periodicity/sim/internal/core/ecs"
	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/game"
)

// BuffTickSystem counts buff durations down. Like debuffs, a buff that hits
// zero is removed on the next tick. Phase 2 (Debuff).
type BuffTickSystem struct {
	game *game.Store
}

func NewBuffTickSystem(gs *game.Store) *BuffTickSystem {
	return &BuffTickSystem{game: gs}
}

func (s *BuffTickSystem) Phase() coresys.Phase { return coresys.PhaseDebuff }

func (s *BuffTickSystem) Update(dt time.Duration) {
	s.game.BuffBars.Each(func(_ ecs.EntityID, bar *game.BuffBar) {
		kept := bar.Buffs[:0]
		for _, b := range bar.Buffs {
			if b.Duration > 0 {
				kept = append(kept, b)
			}
		}
		bar.Buffs = kept
		for i := range bar.Buffs {
			bar.Buffs[i].Duration = game.SatSub(bar.Buffs[i].Duration, dt)
		}
	})
}
