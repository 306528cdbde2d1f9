package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/core/event"
	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/data"
	"github.com/periodicity/sim/internal/game"
	"github.com/periodicity/sim/internal/present"
)

// XPFormula supplies experience numbers. scripting.Engine implements it.
type XPFormula interface {
	ExpForLevel(level int) int
	XPForKill(victimLevel int) int
}

// EffectSystem dispatches the previous tick's events. Completed casts attach
// their debuff and queue upfront damage; deaths award experience to the
// killer. Phase 3 (Effect).
type EffectSystem struct {
	bus      *event.Bus
	game     *game.Store
	pres     *present.Store
	spells   *data.SpellTable
	damage   *game.DamageQueue
	animator present.Animator
	xp       XPFormula
	log      *zap.Logger
}

// NewEffectSystem subscribes to the bus. animator and xp may be nil.
func NewEffectSystem(
	bus *event.Bus,
	gs *game.Store,
	ps *present.Store,
	spells *data.SpellTable,
	dq *game.DamageQueue,
	animator present.Animator,
	xp XPFormula,
	log *zap.Logger,
) *EffectSystem {
	s := &EffectSystem{
		bus:      bus,
		game:     gs,
		pres:     ps,
		spells:   spells,
		damage:   dq,
		animator: animator,
		xp:       xp,
		log:      log,
	}
	event.Subscribe(bus, s.onActionCompleted)
	event.Subscribe(bus, s.onEntityDied)
	return s
}

func (s *EffectSystem) Phase() coresys.Phase { return coresys.PhaseEffect }

func (s *EffectSystem) Update(_ time.Duration) {
	s.bus.DispatchAll()
}

func (s *EffectSystem) onActionCompleted(ev event.ActionCompleted) {
	info := s.spells.Get(ev.Spell)
	if info == nil {
		if ev.Spell != data.SpellNone {
			s.log.Debug("completed cast has no catalog entry", zap.Stringer("spell", ev.Spell))
		}
		return
	}
	if ev.Target.IsZero() || !s.game.Identities.Has(ev.Target) {
		s.log.Debug("completed cast lost its target",
			zap.String("caster", s.game.Tag(ev.Entity)), zap.String("spell", info.Name))
		return
	}

	if info.AppliesDebuff() {
		if bar, ok := s.game.DebuffBars.Get(ev.Target); ok {
			d := game.Debuff{
				ID:            s.game.NextPropertyID(),
				Spell:         info.ID,
				Name:          info.Name,
				TotalDuration: info.Duration,
				TimeLeft:      info.Duration,
				Stacks:        1,
				Source:        ev.Entity,
			}
			bar.Debuffs = append(bar.Debuffs, d)
			event.Emit(s.bus, event.DebuffApplied{
				Entity:   ev.Target,
				Source:   ev.Entity,
				DebuffID: d.ID,
				Spell:    info.ID,
			})
		}
	}
	if info.UpfrontDamage > 0 {
		s.damage.Push(game.Damage{
			Amount: info.UpfrontDamage,
			Target: ev.Target,
			Source: ev.Entity,
			Kind:   game.DamageDirect,
			Spell:  info.ID,
		})
	}
	s.spawnEffect(info, ev.Target)

	s.log.Info("spell landed",
		zap.String("caster", s.game.Tag(ev.Entity)),
		zap.String("spell", info.Name),
		zap.String("target", s.game.Tag(ev.Target)),
		zap.Uint32("upfront", info.UpfrontDamage),
	)
}

// spawnEffect plays the spell animation over the target's avatar.
func (s *EffectSystem) spawnEffect(info *data.SpellInfo, target ecs.EntityID) {
	if s.animator == nil || info.Anim == nil {
		return
	}
	fx := present.VisualEffect{
		Texture:  info.Anim.Texture,
		Frames:   info.Anim.Frames,
		Duration: info.Anim.Duration(),
		Width:    info.Anim.Width,
		Height:   info.Anim.Height,
		Target:   target,
	}
	if s.pres != nil {
		for _, pid := range s.pres.Links.Presentations(target) {
			if sp, ok := s.pres.Sprites.Get(pid); ok {
				fx.X, fx.Y = sp.X, sp.Y
				break
			}
		}
	}
	s.animator.Spawn(fx)
}

func (s *EffectSystem) onEntityDied(ev event.EntityDied) {
	if s.xp == nil || ev.Killer.IsZero() || ev.Killer == ev.Entity {
		return
	}
	lvl, ok := s.game.Levels.Get(ev.Killer)
	if !ok {
		return
	}
	victimLevel := 1
	if vl, ok := s.game.Levels.Get(ev.Entity); ok {
		victimLevel = int(vl.Curr)
	}

	gain := s.xp.XPForKill(victimLevel)
	if gain <= 0 {
		return
	}
	lvl.XP += uint32(gain)
	s.log.Info("experience gained",
		zap.String("entity", s.game.Tag(ev.Killer)),
		zap.Int("xp", gain),
		zap.Uint32("total", lvl.XP),
	)

	for lvl.NextLevelXP > 0 && lvl.XP >= lvl.NextLevelXP {
		lvl.XP -= lvl.NextLevelXP
		lvl.Curr++
		next := s.xp.ExpForLevel(int(lvl.Curr))
		if next < 0 {
			next = 0
		}
		lvl.NextLevelXP = uint32(next)
		event.Emit(s.bus, event.LevelUp{Entity: ev.Killer, Level: lvl.Curr})
		s.log.Info("level up",
			zap.String("entity", s.game.Tag(ev.Killer)),
			zap.Uint32("level", lvl.Curr),
		)
	}
}
