package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/core/event"
	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/game"
)

// MortalitySystem derives Alive from health. It only ever clears the flag.
// Phase 1 (Mortality).
type MortalitySystem struct {
	game *game.Store
	bus  *event.Bus
	log  *zap.Logger
}

func NewMortalitySystem(gs *game.Store, bus *event.Bus, log *zap.Logger) *MortalitySystem {
	return &MortalitySystem{game: gs, bus: bus, log: log}
}

func (s *MortalitySystem) Phase() coresys.Phase { return coresys.PhaseMortality }

func (s *MortalitySystem) Update(_ time.Duration) {
	ecs.Each2(s.game.Stats, s.game.Mortalities, func(id ecs.EntityID, st *game.Stats, m *game.Mortality) {
		if st.HealthCurr != 0 || !m.Alive {
			return
		}
		m.Alive = false
		event.Emit(s.bus, event.EntityDied{Entity: id, Killer: m.LastAttacker})
		s.log.Info("entity died",
			zap.String("entity", s.game.Tag(id)),
			zap.String("killer", s.game.Tag(m.LastAttacker)),
		)
	})
}
