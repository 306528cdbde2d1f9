package present

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/data"
	"github.com/periodicity/sim/internal/game"
)

// CombatTextSink receives every applied damage event. Implementations only
// read the event.
type CombatTextSink interface {
	ShowDamage(d game.Damage)
}

// Animator spawns one-shot visual effects. Frame timing is its concern.
type Animator interface {
	Spawn(fx VisualEffect)
}

// Renderer draws the presentation store after each tick.
type Renderer interface {
	Render(s *Store)
}

// VisualEffect is a request for a named animation instance.
type VisualEffect struct {
	Texture  string
	Frames   int
	Duration time.Duration
	X, Y     int32
	Width    uint32
	Height   uint32
	Target   ecs.EntityID
}

// FloatingText is one line of combat text waiting to be drawn.
type FloatingText struct {
	Target ecs.EntityID
	Text   string
	Color  data.RGB
	Kind   game.DamageKind
}

var damageColors = map[game.DamageKind]data.RGB{
	game.DamageDirect: {255, 214, 92},
	game.DamageDebuff: {176, 112, 224},
}

// DamageColor returns the combat-text colour for a damage kind.
func DamageColor(k game.DamageKind) data.RGB {
	if c, ok := damageColors[k]; ok {
		return c
	}
	return data.RGB{255, 255, 255}
}

// FloatingTextBuffer collects combat text until the renderer takes it. When
// full, the oldest line is dropped.
type FloatingTextBuffer struct {
	limit   int
	pending []FloatingText
	printer *message.Printer
}

func NewFloatingTextBuffer(limit int) *FloatingTextBuffer {
	if limit <= 0 {
		limit = 64
	}
	return &FloatingTextBuffer{
		limit:   limit,
		pending: make([]FloatingText, 0, limit),
		printer: message.NewPrinter(language.English),
	}
}

// ShowDamage implements CombatTextSink. Zero-amount events produce no text.
func (b *FloatingTextBuffer) ShowDamage(d game.Damage) {
	if d.Amount == 0 {
		return
	}
	if len(b.pending) == b.limit {
		copy(b.pending, b.pending[1:])
		b.pending = b.pending[:len(b.pending)-1]
	}
	b.pending = append(b.pending, FloatingText{
		Target: d.Target,
		Text:   b.printer.Sprintf("-%d", d.Amount),
		Color:  DamageColor(d.Kind),
		Kind:   d.Kind,
	})
}

// Take returns the pending lines and forgets them.
func (b *FloatingTextBuffer) Take() []FloatingText {
	if len(b.pending) == 0 {
		return nil
	}
	out := make([]FloatingText, len(b.pending))
	copy(out, b.pending)
	b.pending = b.pending[:0]
	return out
}

// EffectQueue is an Animator that records requests for a renderer to pick up.
type EffectQueue struct {
	pending []VisualEffect
}

func (q *EffectQueue) Spawn(fx VisualEffect) {
	q.pending = append(q.pending, fx)
}

// Take returns the pending effects and forgets them.
func (q *EffectQueue) Take() []VisualEffect {
	out := q.pending
	q.pending = nil
	return out
}
