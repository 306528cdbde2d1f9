package sim

import (
	"github.com/periodicity/sim/internal/config"
	"github.com/periodicity/sim/internal/data"
	"github.com/periodicity/sim/internal/present"
)

// buildUI creates a unit frame for every spawned unit, the action bar
// buttons and the run toggle.
func (s *Sim) buildUI(units []data.UnitTemplate, win config.WindowConfig) {
	scale := present.Scale(win.Width, win.Height)
	s.ui.Frames = make(map[string]present.UnitFrame, len(units))

	for _, u := range units {
		id, ok := s.game.FindByTag(u.Tag)
		if !ok {
			continue
		}
		s.ui.Frames[u.Tag] = s.present.BuildUnitFrame(id, u.Tag, u.Sprite, u.X*int32(scale), u.Y*int32(scale), scale)
	}

	barY := int32(900 * scale)
	s.ui.Region = s.present.BuildRegion("action_bar", int32(660*scale), barY-int32(20*scale), 600*scale, 140*scale)
	s.ui.ButtonA = s.present.BuildButton("button_a", "A", present.ClickA, int32(700*scale), barY, scale, s.spellTooltip(data.SpellMiasma))
	s.ui.ButtonB = s.present.BuildButton("button_b", "B", present.ClickB, int32(820*scale), barY, scale, s.spellTooltip(data.SpellInfernum))
	s.ui.Run = s.present.BuildButton("button_run", "Run", present.ClickRun, int32(1120*scale), barY, scale, nil)
	s.present.AddState(s.ui.Run)
}

func (s *Sim) spellTooltip(id data.SpellID) *present.Tooltip {
	info := s.spells.Get(id)
	if info == nil {
		return nil
	}
	return &present.Tooltip{Header: info.Name, Body: info.Tooltip, Icon: info.Icon}
}
