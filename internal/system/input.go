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

// Command is a request from outside the tick loop. Commands are only
// applied in the input phase.
type Command interface {
	command()
}

// CastCommand asks caster to start casting a spell at its opponent.
type CastCommand struct {
	Caster ecs.EntityID
	Spell  data.SpellID
}

// ClickCommand reports a click on a presentation entity.
type ClickCommand struct {
	Element ecs.EntityID
}

// PointerCommand reports the pointer position in screen space. Pressed
// clicks the topmost enabled clickable under the pointer.
type PointerCommand struct {
	X, Y    int32
	Pressed bool
}

func (CastCommand) command()    {}
func (ClickCommand) command()   {}
func (PointerCommand) command() {}

// InputSystem rotates the event bus and drains queued commands.
// Phase 0 (Input).
type InputSystem struct {
	bus        *event.Bus
	game       *game.Store
	pres       *present.Store
	spells     *data.SpellTable
	commands   <-chan Command
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(
	bus *event.Bus,
	gs *game.Store,
	ps *present.Store,
	spells *data.SpellTable,
	commands <-chan Command,
	maxPerTick int,
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		bus:        bus,
		game:       gs,
		pres:       ps,
		spells:     spells,
		commands:   commands,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()

	for i := 0; i < s.maxPerTick; i++ {
		select {
		case cmd := <-s.commands:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *InputSystem) apply(cmd Command) {
	switch c := cmd.(type) {
	case CastCommand:
		s.queueCast(c.Caster, c.Spell)
	case ClickCommand:
		s.click(c.Element)
	case PointerCommand:
		s.pointer(c.X, c.Y, c.Pressed)
	}
}

// queueCast targets the caster's opponent and appends a cast to its queue.
func (s *InputSystem) queueCast(caster ecs.EntityID, spell data.SpellID) {
	info := s.spells.Get(spell)
	if info == nil {
		s.log.Debug("cast of unknown spell ignored",
			zap.Uint32("caster", uint32(caster)), zap.Stringer("spell", spell))
		return
	}
	if !s.game.IsAlive(caster) {
		s.log.Debug("dead or missing caster", zap.Uint32("caster", uint32(caster)))
		return
	}
	q, ok := s.game.ActionQueues.Get(caster)
	if !ok {
		s.log.Debug("caster has no action queue", zap.Uint32("caster", uint32(caster)))
		return
	}
	target, ok := s.game.OpponentOf(caster)
	if !ok {
		s.log.Debug("no target for cast", zap.Uint32("caster", uint32(caster)))
		return
	}
	if t, ok := s.game.Targets.Get(caster); ok {
		t.Entity = target
	}

	q.Push(game.Action{
		ID:        s.game.NextPropertyID(),
		Kind:      game.ActionCastingSpell,
		Tag:       info.Name,
		TakesTime: info.CastTime,
		Remaining: info.CastTime,
		Spell:     info.ID,
	})
	s.log.Info("cast queued",
		zap.String("caster", s.game.Tag(caster)),
		zap.String("spell", info.Name),
		zap.String("target", s.game.Tag(target)),
		zap.Int("queued", len(q.Queue)),
	)
}

func (s *InputSystem) click(element ecs.EntityID) {
	c, ok := s.pres.Clickables.Get(element)
	if !ok || !c.Enabled {
		return
	}
	if st, ok := s.pres.States.Get(element); ok {
		st.Set(present.SlotLastClick, uint32(c.Action))
	}

	switch c.Action {
	case present.ClickRun:
		st, ok := s.pres.States.Get(element)
		if !ok {
			st = s.pres.AddState(element)
		}
		running := st.Get(present.SlotRunToggled) == 0
		if running {
			st.Set(present.SlotRunToggled, 1)
		} else {
			st.Set(present.SlotRunToggled, 0)
		}
		if r, ok := s.pres.Rects.Get(element); ok {
			r.Pressed = running
		}
		s.log.Info("run toggled", zap.Bool("running", running))
	case present.ClickA, present.ClickB:
		player, err := s.game.Player()
		if err != nil {
			s.log.Debug("click without player", zap.Error(err))
			return
		}
		s.queueCast(player, clickSpell(c.Action))
	}
}

// pointer refreshes hover flags and resolves a press to the clickable rect
// with the highest strata under (x, y). Ties go to the newest element.
func (s *InputSystem) pointer(x, y int32, pressed bool) {
	var hit ecs.EntityID
	var hitStrata uint8
	s.pres.Rects.Each(func(id ecs.EntityID, r *present.Rect) {
		r.Hovered = r.Draw && r.Contains(x, y)
		if !r.Hovered {
			return
		}
		if c, ok := s.pres.Clickables.Get(id); !ok || !c.Enabled {
			return
		}
		if hit.IsZero() || r.Strata >= hitStrata {
			hit, hitStrata = id, r.Strata
		}
	})
	if pressed && !hit.IsZero() {
		s.click(hit)
	}
}

// clickSpell maps the action-bar buttons to their spells.
func clickSpell(a present.ClickAction) data.SpellID {
	switch a {
	case present.ClickA:
		return data.SpellMiasma
	case present.ClickB:
		return data.SpellInfernum
	}
	return data.SpellNone
}
