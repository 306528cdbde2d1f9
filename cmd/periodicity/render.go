package main

import (
	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/present"
	"github.com/periodicity/sim/internal/sim"
)

// logRenderer stands in for a window. Every n frames it logs the unit
// frames, and it flushes combat text and effects as they appear.
type logRenderer struct {
	every int
	n     int
	log   *zap.Logger
	sim   *sim.Sim
	text  *present.FloatingTextBuffer
	fx    *present.EffectQueue
}

func newLogRenderer(every int, log *zap.Logger) *logRenderer {
	return &logRenderer{every: every, log: log.Named("render")}
}

// bind attaches the renderer to the sim's default sinks.
func (r *logRenderer) bind(s *sim.Sim) {
	r.sim = s
	r.text, _ = s.CombatText().(*present.FloatingTextBuffer)
	r.fx, _ = s.Animator().(*present.EffectQueue)
}

func (r *logRenderer) Render(ps *present.Store) {
	if r.sim == nil {
		return
	}
	r.flush()

	r.n++
	if r.every <= 0 || r.n%r.every != 0 {
		return
	}
	for tag, f := range r.sim.UI().Frames {
		fields := []zap.Field{zap.String("unit", tag)}
		if hb, ok := ps.Healthbars.Get(f.Healthbar); ok {
			fields = append(fields, zap.Float64("health", hb.Fill), zap.Bool("shown", hb.Draw))
		}
		if cb, ok := ps.Castbars.Get(f.Castbar); ok && cb.Draw {
			fields = append(fields, zap.String("casting", cb.Icon), zap.Float64("progress", cb.Progress))
		}
		if sp, ok := ps.Sprites.Get(f.Avatar); ok {
			fields = append(fields, zap.String("anim", sp.Animation), zap.Bool("desaturated", sp.Desaturated))
		}
		r.log.Info("frame", fields...)
	}
}

func (r *logRenderer) flush() {
	if r.text != nil {
		for _, line := range r.text.Take() {
			r.log.Info("combat text",
				zap.String("target", r.sim.Game().Tag(line.Target)),
				zap.String("text", line.Text),
				zap.Stringer("kind", line.Kind),
			)
		}
	}
	if r.fx != nil {
		for _, fx := range r.fx.Take() {
			r.log.Debug("effect",
				zap.String("texture", fx.Texture),
				zap.Int("frames", fx.Frames),
				zap.Duration("duration", fx.Duration),
				zap.String("target", r.sim.Game().Tag(fx.Target)),
			)
		}
	}
}
