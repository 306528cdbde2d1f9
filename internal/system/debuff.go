package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/core/ecs"
	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/data"
	"github.com/periodicity/sim/internal/game"
)

// DebuffSystem resolves damage over time. Each debuff accumulates
// DPS*Coefficient*dt into PendingDamage and queues the whole part, so
// fractional damage carries across ticks of any length. Expired debuffs are
// dropped at the start of the following tick. Phase 2 (Debuff).
type DebuffSystem struct {
	game   *game.Store
	spells *data.SpellTable
	damage *game.DamageQueue
	log    *zap.Logger
}

func NewDebuffSystem(gs *game.Store, spells *data.SpellTable, dq *game.DamageQueue, log *zap.Logger) *DebuffSystem {
	return &DebuffSystem{game: gs, spells: spells, damage: dq, log: log}
}

func (s *DebuffSystem) Phase() coresys.Phase { return coresys.PhaseDebuff }

func (s *DebuffSystem) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	s.game.DebuffBars.Each(func(id ecs.EntityID, bar *game.DebuffBar) {
		bar.Debuffs = dropExpired(bar.Debuffs)
		hasStats := s.game.Stats.Has(id)

		for i := range bar.Debuffs {
			d := &bar.Debuffs[i]
			if info := s.spells.Get(d.Spell); info != nil && hasStats {
				s.accumulate(id, d, info, dt)
			} else if info == nil {
				s.log.Debug("debuff without catalog entry",
					zap.Uint32("entity", uint32(id)), zap.Stringer("spell", d.Spell))
			}
			d.TimeLeft = game.SatSub(d.TimeLeft, dt)
		}
	})
}

func (s *DebuffSystem) accumulate(id ecs.EntityID, d *game.Debuff, info *data.SpellInfo, dt time.Duration) {
	d.PendingDamage += info.DPS * info.Coefficient * dt.Seconds()
	whole := math.Floor(d.PendingDamage)
	if whole < 0 {
		whole = 0
	}
	d.PendingDamage -= whole

	amount := uint32(math.MaxUint32)
	if whole < math.MaxUint32 {
		amount = uint32(whole)
	}
	s.damage.Push(game.Damage{
		Amount: amount,
		Target: id,
		Source: d.Source,
		Kind:   game.DamageDebuff,
		Spell:  d.Spell,
	})
	if amount > 0 {
		s.log.Debug("debuff tick",
			zap.String("entity", s.game.Tag(id)),
			zap.String("debuff", d.Name),
			zap.Uint32("damage", amount),
			zap.Duration("left", d.TimeLeft),
		)
	}
}

// dropExpired removes debuffs whose timer reached zero, preserving order.
func dropExpired(ds []game.Debuff) []game.Debuff {
	kept := ds[:0]
	for _, d := range ds {
		if !d.Expired() {
			kept = append(kept, d)
		}
	}
	return kept
}
