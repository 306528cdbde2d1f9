package present

import (
	"fmt"

	"github.com/periodicity/sim/internal/core/ecs"
)

// Store holds presentation components. Presentation entities share the
// World's id space with game entities but never carry game components.
type Store struct {
	world *ecs.World

	PIDs       *ecs.PtrComponentStore[PID]
	Rects      *ecs.PtrComponentStore[Rect]
	Texts      *ecs.MultiComponentStore[Text]
	Healthbars *ecs.PtrComponentStore[Healthbar]
	Castbars   *ecs.PtrComponentStore[Castbar]
	Clickables *ecs.PtrComponentStore[Clickable]
	Tooltips   *ecs.PtrComponentStore[Tooltip]
	States     *ecs.PtrComponentStore[State]
	Sprites    *ecs.PtrComponentStore[Sprite]

	Links *LinkTable
}

func NewStore(w *ecs.World) *Store {
	s := &Store{
		world:      w,
		PIDs:       ecs.NewPtrComponentStore[PID](),
		Rects:      ecs.NewPtrComponentStore[Rect](),
		Texts:      ecs.NewMultiComponentStore[Text](),
		Healthbars: ecs.NewPtrComponentStore[Healthbar](),
		Castbars:   ecs.NewPtrComponentStore[Castbar](),
		Clickables: ecs.NewPtrComponentStore[Clickable](),
		Tooltips:   ecs.NewPtrComponentStore[Tooltip](),
		States:     ecs.NewPtrComponentStore[State](),
		Sprites:    ecs.NewPtrComponentStore[Sprite](),
		Links:      NewLinkTable(),
	}
	reg := w.Registry()
	reg.Register(s.PIDs)
	reg.Register(s.Rects)
	reg.Register(s.Texts)
	reg.Register(s.Healthbars)
	reg.Register(s.Castbars)
	reg.Register(s.Clickables)
	reg.Register(s.Tooltips)
	reg.Register(s.States)
	reg.Register(s.Sprites)
	reg.Register(s.Links)
	return s
}

func (s *Store) nextID() ecs.PropertyID { return s.world.NextPropertyID() }

// AddEntity creates a presentation entity. An empty tag becomes "pentity_<id>".
func (s *Store) AddEntity(tag string) ecs.EntityID {
	id := s.world.CreateEntity()
	if tag == "" {
		tag = fmt.Sprintf("pentity_%d", id)
	}
	s.PIDs.Set(id, &PID{ID: s.nextID(), Tag: tag})
	return id
}

// FindByTag returns the lowest-id presentation entity with the tag.
func (s *Store) FindByTag(tag string) (ecs.EntityID, bool) {
	for _, id := range s.PIDs.IDs() {
		if p, _ := s.PIDs.Get(id); p.Tag == tag {
			return id, true
		}
	}
	return 0, false
}

func (s *Store) AddRect(id ecs.EntityID, r Rect) *Rect {
	r.ID = s.nextID()
	s.Rects.Set(id, &r)
	return &r
}

func (s *Store) AddText(id ecs.EntityID, t Text) *Text {
	t.ID = s.nextID()
	s.Texts.Add(id, &t)
	return &t
}

func (s *Store) AddHealthbar(id ecs.EntityID, h Healthbar) *Healthbar {
	h.ID = s.nextID()
	s.Healthbars.Set(id, &h)
	return &h
}

func (s *Store) AddCastbar(id ecs.EntityID, c Castbar) *Castbar {
	c.ID = s.nextID()
	s.Castbars.Set(id, &c)
	return &c
}

func (s *Store) AddClickable(id ecs.EntityID, action ClickAction) *Clickable {
	c := &Clickable{ID: s.nextID(), Enabled: true, Action: action}
	s.Clickables.Set(id, c)
	return c
}

func (s *Store) AddTooltip(id ecs.EntityID, t Tooltip) *Tooltip {
	t.ID = s.nextID()
	s.Tooltips.Set(id, &t)
	return &t
}

func (s *Store) AddState(id ecs.EntityID) *State {
	st := &State{ID: s.nextID(), Slots: make(map[StateSlot]uint32, 4)}
	s.States.Set(id, st)
	return st
}

func (s *Store) AddSprite(id ecs.EntityID, sp Sprite) *Sprite {
	sp.ID = s.nextID()
	if sp.Animation == "" {
		sp.Animation = AnimIdle
	}
	s.Sprites.Set(id, &sp)
	return &sp
}
