package present

import (
	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/data"
)

// Reference resolution the layout is authored for.
const (
	baseWidth  = 1920
	baseHeight = 1080
)

var (
	colorRegion  = data.ColorPair{Fill: data.RGB{29, 33, 37}, Outline: data.RGB{24, 26, 28}}
	colorButton  = data.ColorPair{Fill: data.RGB{19, 81, 150}, Outline: data.RGB{24, 26, 28}}
	colorBarBase = data.ColorPair{Fill: data.RGB{43, 49, 55}, Outline: data.RGB{24, 26, 28}}
	colorHealth  = data.ColorPair{Fill: data.RGB{52, 160, 72}, Outline: data.RGB{24, 26, 28}}
	colorCast    = data.ColorPair{Fill: data.RGB{200, 170, 60}, Outline: data.RGB{24, 26, 28}}
	colorLabel   = data.ColorPair{Fill: data.RGB{255, 255, 255}}
)

// Scale returns the integer UI scale for a window size, never below 1.
func Scale(width, height uint32) uint32 {
	sw := width / baseWidth
	sh := height / baseHeight
	s := sw
	if sh < s {
		s = sh
	}
	if s < 1 {
		s = 1
	}
	return s
}

// UnitFrame lists the presentation entities built for one game entity.
type UnitFrame struct {
	Avatar    ecs.EntityID
	Healthbar ecs.EntityID
	Castbar   ecs.EntityID
}

// BuildUnitFrame creates an avatar sprite, a healthbar and a castbar for a
// game entity and links all three to it.
func (s *Store) BuildUnitFrame(game ecs.EntityID, tag, texture string, x, y int32, scale uint32) UnitFrame {
	f := UnitFrame{
		Avatar:    s.AddEntity(tag + "_avatar"),
		Healthbar: s.AddEntity(tag + "_healthbar"),
		Castbar:   s.AddEntity(tag + "_castbar"),
	}
	s.AddSprite(f.Avatar, Sprite{Texture: texture, X: x, Y: y, Scale: 4 * scale, Strata: 15, Draw: true})

	w := 300 * scale
	h := 24 * scale
	s.AddHealthbar(f.Healthbar, Healthbar{
		X: x, Y: y - int32(2*h), Width: w, Height: h,
		Base: colorBarBase, Inner: colorHealth, Fill: 1, Draw: true, Strata: 25,
	})
	s.AddCastbar(f.Castbar, Castbar{
		X: x, Y: y - int32(h), Width: w, Height: h,
		Base: colorBarBase, Inner: colorCast, Strata: 25,
	})

	s.Links.Link(f.Avatar, game)
	s.Links.Link(f.Healthbar, game)
	s.Links.Link(f.Castbar, game)
	return f
}

// BuildButton creates a labelled clickable rectangle, optionally with a tooltip.
func (s *Store) BuildButton(tag, label string, action ClickAction, x, y int32, scale uint32, tip *Tooltip) ecs.EntityID {
	id := s.AddEntity(tag)
	s.AddRect(id, Rect{X: x, Y: y, Width: 100 * scale, Height: 100 * scale, Colors: colorButton, Draw: true, Strata: 5})
	s.AddText(id, Text{Text: label, Scale: scale, X: x + int32(10*scale), Y: y + int32(10*scale), Colors: colorLabel, Draw: true, Strata: 10})
	s.AddClickable(id, action)
	if tip != nil {
		t := *tip
		t.X, t.Y = x, y
		t.Width, t.Height = 100*scale, 100*scale
		s.AddTooltip(id, t)
	}
	return id
}

// BuildRegion creates a plain background rectangle.
func (s *Store) BuildRegion(tag string, x, y int32, w, h uint32) ecs.EntityID {
	id := s.AddEntity(tag)
	s.AddRect(id, Rect{X: x, Y: y, Width: w, Height: h, Colors: colorRegion, Draw: true, Strata: 5})
	return id
}
