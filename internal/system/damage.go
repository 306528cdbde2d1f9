package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/game"
	"github.com/periodicity/sim/internal/present"
)

// DamageSystem drains the damage queue once per tick, in FIFO order.
// Damage is applied regardless of the target's mortality. Phase 4 (Damage).
type DamageSystem struct {
	game  *game.Store
	queue *game.DamageQueue
	text  present.CombatTextSink
	log   *zap.Logger
}

func NewDamageSystem(gs *game.Store, dq *game.DamageQueue, text present.CombatTextSink, log *zap.Logger) *DamageSystem {
	return &DamageSystem{game: gs, queue: dq, text: text, log: log}
}

func (s *DamageSystem) Phase() coresys.Phase { return coresys.PhaseDamage }

func (s *DamageSystem) Update(_ time.Duration) {
	s.queue.Drain(s.apply)
}

func (s *DamageSystem) apply(d game.Damage) {
	st, ok := s.game.Stats.Get(d.Target)
	if !ok {
		s.log.Debug("damage target has no stats", zap.Uint32("target", uint32(d.Target)))
		return
	}
	st.TakeDamage(d.Amount)

	if d.Amount > 0 && !d.Source.IsZero() {
		if m, ok := s.game.Mortalities.Get(d.Target); ok {
			m.LastAttacker = d.Source
		}
	}
	if s.text != nil {
		s.text.ShowDamage(d)
	}
}
