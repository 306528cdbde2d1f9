package present

import (
	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/data"
)

// PID names a presentation entity.
type PID struct {
	ID  ecs.PropertyID
	Tag string
}

type Rect struct {
	ID      ecs.PropertyID
	X, Y    int32
	Width   uint32
	Height  uint32
	Colors  data.ColorPair
	Pressed bool
	Hovered bool
	Draw    bool
	Strata  uint8
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (r *Rect) Contains(x, y int32) bool {
	return x >= r.X && x <= r.X+int32(r.Width) && y >= r.Y && y <= r.Y+int32(r.Height)
}

type Text struct {
	ID     ecs.PropertyID
	Text   string
	Scale  uint32
	X, Y   int32
	Colors data.ColorPair
	Draw   bool
	Strata uint8
}

// Healthbar mirrors the linked game entity's health ratio in Fill.
type Healthbar struct {
	ID     ecs.PropertyID
	X, Y   int32
	Width  uint32
	Height uint32
	Base   data.ColorPair
	Inner  data.ColorPair
	Fill   float64
	Draw   bool
	Strata uint8
}

// Castbar mirrors the linked entity's front action.
type Castbar struct {
	ID       ecs.PropertyID
	X, Y     int32
	Width    uint32
	Height   uint32
	Base     data.ColorPair
	Inner    data.ColorPair
	Progress float64
	Icon     string
	Draw     bool
	Strata   uint8
}

// ClickAction is what a clickable element does when pressed.
type ClickAction uint8

const (
	ClickRun ClickAction = iota
	ClickA
	ClickB
)

type Clickable struct {
	ID      ecs.PropertyID
	Enabled bool
	Action  ClickAction
}

type Tooltip struct {
	ID     ecs.PropertyID
	Header string
	Body   string
	X, Y   int32
	Width  uint32
	Height uint32
	Icon   string
}

// StateSlot names one value in a State blob.
type StateSlot uint8

const (
	SlotRunToggled StateSlot = iota
	SlotLastClick
)

// State is a small bag of UI values owned by one presentation entity.
type State struct {
	ID    ecs.PropertyID
	Slots map[StateSlot]uint32
}

func (s *State) Get(slot StateSlot) uint32 { return s.Slots[slot] }

func (s *State) Set(slot StateSlot, v uint32) {
	if s.Slots == nil {
		s.Slots = make(map[StateSlot]uint32, 4)
	}
	s.Slots[slot] = v
}

// Animation names selected by presentation sync.
const (
	AnimIdle = "idle"
	AnimCast = "cast"
	AnimDead = "dead"
)

// Sprite is an avatar image. Frame stepping is done by the renderer.
type Sprite struct {
	ID          ecs.PropertyID
	Texture     string
	X, Y        int32
	Scale       uint32
	Strata      uint8
	Draw        bool
	Desaturated bool
	Animation   string
}
